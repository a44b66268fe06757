package service

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"wayfarer/internal/domain"

	"github.com/rs/zerolog"
)

// RateTable holds currency conversion rates flattened into a
// from -> to -> rate lookup. Rates are loaded from the repository once at
// startup and can be reloaded without restarting.
type RateTable struct {
	repo   domain.Repository
	logger *zerolog.Logger

	mu    sync.RWMutex
	rates map[string]map[string]float64
}

func NewRateTable(repo domain.Repository, logger *zerolog.Logger) *RateTable {
	return &RateTable{
		repo:   repo,
		logger: logger,
		rates:  make(map[string]map[string]float64),
	}
}

// Load replaces the table with the rates currently in the repository.
func (t *RateTable) Load(ctx context.Context) error {
	rows, err := t.repo.GetAllRates(ctx)
	if err != nil {
		return fmt.Errorf("failed to load currency rates: %w", err)
	}

	rates := make(map[string]map[string]float64)
	for _, row := range rows {
		if rates[row.FromCurrency] == nil {
			rates[row.FromCurrency] = make(map[string]float64)
		}
		rates[row.FromCurrency][row.ToCurrency] = row.Rate
	}

	t.mu.Lock()
	t.rates = rates
	t.mu.Unlock()

	t.logger.Info().Int("pairs", len(rows)).Msg("Currency rates loaded")
	return nil
}

// Convert converts a textual amount between currencies. An empty amount
// produces no result. Converting a currency to itself passes the input
// through untouched. An unknown pair converts at rate 1 so the widget
// keeps working when the table is missing entries.
func (t *RateTable) Convert(amount, from, to string) (string, bool) {
	if amount == "" {
		return "", false
	}
	if from == to {
		return amount, true
	}

	value, err := strconv.ParseFloat(amount, 64)
	if err != nil {
		return "", false
	}

	return strconv.FormatFloat(value*t.Rate(from, to), 'f', 2, 64), true
}

// Rate returns the conversion rate for the pair, falling back to 1 when
// the pair is unknown.
func (t *RateTable) Rate(from, to string) float64 {
	if from == to {
		return 1
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	if byTo, ok := t.rates[from]; ok {
		if rate, ok := byTo[to]; ok {
			return rate
		}
	}
	return 1
}

// Rates returns a copy of the flattened table.
func (t *RateTable) Rates() map[string]map[string]float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make(map[string]map[string]float64, len(t.rates))
	for from, byTo := range t.rates {
		inner := make(map[string]float64, len(byTo))
		for to, rate := range byTo {
			inner[to] = rate
		}
		out[from] = inner
	}
	return out
}
