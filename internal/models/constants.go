package models

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

const (
	CurrencyINR = "INR"
	CurrencyUSD = "USD"
	CurrencyEUR = "EUR"
	CurrencyGBP = "GBP"
)

// SupportedCurrencies is the fixed set the converter and booking flow accept.
var SupportedCurrencies = []string{CurrencyINR, CurrencyUSD, CurrencyEUR, CurrencyGBP}

// IsSupportedCurrency reports membership in SupportedCurrencies.
func IsSupportedCurrency(code string) bool {
	for _, c := range SupportedCurrencies {
		if c == code {
			return true
		}
	}
	return false
}

const (
	// DefaultGuests is submitted with every booking. The web client never
	// collects a guest count, so the workflow pins it.
	DefaultGuests = 2

	// DefaultBookingCurrency is submitted with every booking regardless of
	// what the converter widget shows. The two flows are not wired together.
	DefaultBookingCurrency = CurrencyINR
)

const (
	// DefaultSessionTTL время жизни кэшированной сессии
	DefaultSessionTTL = 24 * 60 * 60 // 24 часа в секундах

	// WorkerQueueSize размер очереди воркера
	WorkerQueueSize = 1000

	// RateLimitRequests количество запросов в окне
	RateLimitRequests = 20

	// RateLimitWindow окно ограничения частоты запросов
	RateLimitWindow = 60 // 1 минута в секундах
)
