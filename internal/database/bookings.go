package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"wayfarer/internal/models"
)

const bookingColumns = `b.id, b.reference, b.user_id, b.hotel_id, h.name, h.address,
               b.check_in_date, b.check_out_date, b.guests, b.total_amount, b.currency,
               b.status, b.created_at, b.updated_at`

// CreateBooking создает новое бронирование
func (db *DB) CreateBooking(ctx context.Context, booking *models.Booking) error {
	query := `
        INSERT INTO bookings (reference, user_id, hotel_id, check_in_date, check_out_date, guests, total_amount, currency, status, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `

	now := time.Now()
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = now
	}
	booking.UpdatedAt = now

	result, err := db.ExecContext(ctx, query,
		booking.Reference,
		booking.UserID,
		booking.HotelID,
		booking.CheckInDate,
		booking.CheckOutDate,
		booking.Guests,
		booking.TotalAmount,
		booking.Currency,
		booking.Status,
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	booking.ID = id
	return nil
}

// GetBooking возвращает бронирование по ID
func (db *DB) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	query := `
        SELECT ` + bookingColumns + `
        FROM bookings b
        LEFT JOIN hotels h ON h.id = b.hotel_id
        WHERE b.id = ?
    `

	booking, err := scanBookingRow(db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	return booking, nil
}

// GetUserBookings возвращает бронирования пользователя, новые сверху
func (db *DB) GetUserBookings(ctx context.Context, userID string) ([]*models.Booking, error) {
	query := `
        SELECT ` + bookingColumns + `
        FROM bookings b
        LEFT JOIN hotels h ON h.id = b.hotel_id
        WHERE b.user_id = ?
        ORDER BY b.created_at DESC
    `

	rows, err := db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user bookings: %w", err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// GetBookingsByDateRange возвращает бронирования с заездом в указанный период
func (db *DB) GetBookingsByDateRange(ctx context.Context, start, end time.Time) ([]*models.Booking, error) {
	query := `
        SELECT ` + bookingColumns + `
        FROM bookings b
        LEFT JOIN hotels h ON h.id = b.hotel_id
        WHERE strftime('%Y-%m-%d', b.check_in_date) BETWEEN ? AND ?
        ORDER BY b.check_in_date, b.created_at
    `

	rows, err := db.QueryContext(ctx, query,
		start.Format("2006-01-02"),
		end.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("failed to get bookings by date range: %w", err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// GetDailyBookings возвращает бронирования по дням для периода
func (db *DB) GetDailyBookings(ctx context.Context, start, end time.Time) (map[string][]*models.Booking, error) {
	bookings, err := db.GetBookingsByDateRange(ctx, start, end)
	if err != nil {
		return nil, err
	}

	dailyBookings := make(map[string][]*models.Booking)
	for _, booking := range bookings {
		dateKey := booking.CheckInDate.Format("2006-01-02")
		dailyBookings[dateKey] = append(dailyBookings[dateKey], booking)
	}

	return dailyBookings, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBookingRow(row rowScanner) (*models.Booking, error) {
	var booking models.Booking
	var hotelName, hotelAddress sql.NullString
	err := row.Scan(
		&booking.ID,
		&booking.Reference,
		&booking.UserID,
		&booking.HotelID,
		&hotelName,
		&hotelAddress,
		&booking.CheckInDate,
		&booking.CheckOutDate,
		&booking.Guests,
		&booking.TotalAmount,
		&booking.Currency,
		&booking.Status,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	booking.HotelName = hotelName.String
	booking.HotelAddress = hotelAddress.String
	return &booking, nil
}

func scanBookings(rows *sql.Rows) ([]*models.Booking, error) {
	var bookings []*models.Booking
	for rows.Next() {
		booking, err := scanBookingRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return bookings, nil
}
