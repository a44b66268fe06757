package service

import (
	"sync"
)

// amountConverter is the slice of the rate table the tracker needs.
type amountConverter interface {
	Rate(from, to string) float64
}

// BudgetSummary is a point-in-time view of a budget.
type BudgetSummary struct {
	Currency     string  `json:"currency"`
	Budget       float64 `json:"budget"`
	Spent        float64 `json:"spent"`
	Remaining    float64 `json:"remaining"`
	SpentPercent float64 `json:"spent_percent"`
}

// BudgetTracker tracks trip spending against a budget in a single display
// currency. Each caller owns its own tracker; there is no shared state
// between trips.
type BudgetTracker struct {
	converter amountConverter

	mu       sync.Mutex
	currency string
	budget   float64
	spent    float64
}

func NewBudgetTracker(converter amountConverter, currency string, budget float64) *BudgetTracker {
	return &BudgetTracker{
		converter: converter,
		currency:  currency,
		budget:    budget,
	}
}

// SetBudget replaces the budget amount, keeping spending as is.
func (b *BudgetTracker) SetBudget(amount float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.budget = amount
}

// AddExpense records an expense, converting it into the tracker currency.
func (b *BudgetTracker) AddExpense(amount float64, currency string) {
	converted := amount * b.converter.Rate(currency, b.trackerCurrency())

	b.mu.Lock()
	defer b.mu.Unlock()
	b.spent += converted
}

// SaveConverted converts an amount between currencies and adds the result
// to the budget, the "Save to Budget" action of the widget. Returns the
// converted amount.
func (b *BudgetTracker) SaveConverted(amount float64, from, to string) float64 {
	converted := amount
	if from != to {
		converted = amount * b.converter.Rate(from, to)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.budget += converted
	return converted
}

// SwitchCurrency re-denominates the budget and spending in a new currency.
func (b *BudgetTracker) SwitchCurrency(to string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if to == b.currency {
		return
	}

	rate := b.converter.Rate(b.currency, to)
	b.budget *= rate
	b.spent *= rate
	b.currency = to
}

// Remaining is the budget left; negative when overspent.
func (b *BudgetTracker) Remaining() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.budget - b.spent
}

// SpentPercentage is the share of the budget consumed, in percent. A zero
// budget reports zero rather than dividing by it.
func (b *BudgetTracker) SpentPercentage() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.budget == 0 {
		return 0
	}
	return b.spent / b.budget * 100
}

func (b *BudgetTracker) Summary() BudgetSummary {
	b.mu.Lock()
	defer b.mu.Unlock()

	summary := BudgetSummary{
		Currency:  b.currency,
		Budget:    b.budget,
		Spent:     b.spent,
		Remaining: b.budget - b.spent,
	}
	if b.budget != 0 {
		summary.SpentPercent = b.spent / b.budget * 100
	}
	return summary
}

func (b *BudgetTracker) trackerCurrency() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.currency
}
