package models

import "time"

// Stay is the requested check-in/check-out window of a booking attempt.
// A zero Stay means "use the default one-night stay starting today".
type Stay struct {
	CheckIn  time.Time `json:"check_in_date"`
	CheckOut time.Time `json:"check_out_date"`
}

func (s Stay) IsZero() bool {
	return s.CheckIn.IsZero() && s.CheckOut.IsZero()
}

// Nights returns the stay length in whole days.
func (s Stay) Nights() int {
	return int(s.CheckOut.Sub(s.CheckIn).Hours() / 24)
}

type Booking struct {
	ID           int64     `json:"id"`
	Reference    string    `json:"reference"`
	UserID       string    `json:"user_id"`
	HotelID      string    `json:"hotel_id"`
	HotelName    string    `json:"hotel_name,omitempty"`
	HotelAddress string    `json:"hotel_address,omitempty"`
	CheckInDate  time.Time `json:"check_in_date"`
	CheckOutDate time.Time `json:"check_out_date"`
	Guests       int       `json:"guests"`
	TotalAmount  float64   `json:"total_amount"`
	Currency     string    `json:"currency"`
	Status       string    `json:"status"` // pending, confirmed, cancelled
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
