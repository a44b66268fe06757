package database

import (
	"context"
	"fmt"
	"time"

	"wayfarer/internal/models"
)

// UpsertRate вставляет или обновляет курс валютной пары
func (db *DB) UpsertRate(ctx context.Context, rate *models.CurrencyRate) error {
	query := `
        INSERT INTO currency_rates (from_currency, to_currency, rate, updated_at)
        VALUES (?, ?, ?, ?)
        ON CONFLICT(from_currency, to_currency) DO UPDATE SET
            rate = excluded.rate,
            updated_at = excluded.updated_at
    `

	_, err := db.ExecContext(ctx, query, rate.FromCurrency, rate.ToCurrency, rate.Rate, time.Now())
	if err != nil {
		return fmt.Errorf("failed to upsert rate: %w", err)
	}
	return nil
}

// GetAllRates возвращает все курсы валют
func (db *DB) GetAllRates(ctx context.Context) ([]*models.CurrencyRate, error) {
	query := `SELECT from_currency, to_currency, rate FROM currency_rates`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get rates: %w", err)
	}
	defer rows.Close()

	var rates []*models.CurrencyRate
	for rows.Next() {
		var rate models.CurrencyRate
		if err := rows.Scan(&rate.FromCurrency, &rate.ToCurrency, &rate.Rate); err != nil {
			return nil, fmt.Errorf("failed to scan rate: %w", err)
		}
		rates = append(rates, &rate)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return rates, nil
}
