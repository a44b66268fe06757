package database

import "errors"

var (
	ErrHotelNotFound   = errors.New("hotel not found")
	ErrBookingNotFound = errors.New("booking not found")
	ErrInvalidStay     = errors.New("check-out date must be after check-in date")
)
