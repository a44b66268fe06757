package database

import (
	"context"
	"testing"

	"wayfarer/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRates(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	rates := []*models.CurrencyRate{
		{FromCurrency: "INR", ToCurrency: "USD", Rate: 0.012},
		{FromCurrency: "USD", ToCurrency: "INR", Rate: 83.2},
		{FromCurrency: "INR", ToCurrency: "EUR", Rate: 0.011},
	}
	for _, r := range rates {
		require.NoError(t, db.UpsertRate(ctx, r))
	}

	t.Run("GetAllRates", func(t *testing.T) {
		got, err := db.GetAllRates(ctx)
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})

	t.Run("UpsertOverwrites", func(t *testing.T) {
		require.NoError(t, db.UpsertRate(ctx, &models.CurrencyRate{
			FromCurrency: "INR", ToCurrency: "USD", Rate: 0.013,
		}))

		got, err := db.GetAllRates(ctx)
		require.NoError(t, err)
		assert.Len(t, got, 3)

		for _, r := range got {
			if r.FromCurrency == "INR" && r.ToCurrency == "USD" {
				assert.Equal(t, 0.013, r.Rate)
			}
		}
	})

	t.Run("EmptyTable", func(t *testing.T) {
		empty := newTestDB(t)
		got, err := empty.GetAllRates(ctx)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}
