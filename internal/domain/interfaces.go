package domain

import (
	"context"
	"time"

	"wayfarer/internal/models"
)

type Repository interface {
	GetCities(ctx context.Context) ([]*models.City, error)
	SearchCities(ctx context.Context, term string) ([]*models.City, error)
	GetHotels(ctx context.Context, cityID string) ([]*models.Hotel, error)
	GetHotelByID(ctx context.Context, id string) (*models.Hotel, error)
	GetAllRates(ctx context.Context) ([]*models.CurrencyRate, error)
	CreateBooking(ctx context.Context, booking *models.Booking) error
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	GetUserBookings(ctx context.Context, userID string) ([]*models.Booking, error)
	GetBookingsByDateRange(ctx context.Context, start, end time.Time) ([]*models.Booking, error)
	GetDailyBookings(ctx context.Context, start, end time.Time) (map[string][]*models.Booking, error)
}

// SessionStore caches resolved identities by session token.
type SessionStore interface {
	GetSession(ctx context.Context, token string) (*models.Identity, error)
	SetSession(ctx context.Context, token string, identity *models.Identity) error
	ClearSession(ctx context.Context, token string) error
	CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// SessionProvider resolves the current identity for a request and hands out
// the sign-in entry point when there is none.
type SessionProvider interface {
	CurrentIdentity(ctx context.Context, token string) (*models.Identity, error)
	OnChange(handler func(identity *models.Identity))
	SignInURL() string
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// Notifier delivers toast-style notifications. Delivery is best-effort; the
// workflow never blocks on it.
type Notifier interface {
	Notify(ctx context.Context, n models.Notification) error
}

type SyncWorker interface {
	EnqueueBooking(ctx context.Context, booking *models.Booking) error
}

type SheetsWriter interface {
	UpsertBooking(ctx context.Context, booking *models.Booking) error
	UpdateBookingStatus(ctx context.Context, bookingID int64, status string) error
	ReplaceBookingsSheet(ctx context.Context, bookings []*models.Booking) error
}

type CatalogService interface {
	Cities(ctx context.Context) ([]*models.City, error)
	SearchCities(ctx context.Context, term string) ([]*models.City, error)
	Hotels(ctx context.Context, cityID string) ([]*models.Hotel, error)
	HotelByID(ctx context.Context, id string) (*models.Hotel, error)
}

type BookingWorkflow interface {
	AttemptBooking(ctx context.Context, token string, hotelID string, stay models.Stay) models.Outcome
	UserBookings(ctx context.Context, token string) ([]*models.Booking, error)
}

type RateConverter interface {
	Convert(amount, from, to string) (string, bool)
	Rates() map[string]map[string]float64
}
