package google

import (
	"testing"
	"time"

	"wayfarer/internal/models"
)

func TestBookingRowValues(t *testing.T) {
	checkIn := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	checkOut := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)
	createdAt := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	updatedAt := time.Date(2026, 9, 2, 11, 0, 0, 0, time.UTC)

	booking := &models.Booking{
		ID:           123,
		Reference:    "WF-ABC123",
		UserID:       "user-1",
		HotelID:      "h-plaza",
		HotelName:    "Grand Plaza",
		CheckInDate:  checkIn,
		CheckOutDate: checkOut,
		Guests:       2,
		TotalAmount:  2000,
		Currency:     "INR",
		Status:       "pending",
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}

	values := bookingRowValues(booking)

	expected := []interface{}{
		int64(123),
		"WF-ABC123",
		"user-1",
		"h-plaza",
		"Grand Plaza",
		"2026-09-10",
		"2026-09-12",
		2,
		2000.0,
		"INR",
		"pending",
		"2026-09-01 10:00:00",
		"2026-09-02 11:00:00",
	}

	if len(values) != len(expected) {
		t.Fatalf("Expected %d values, got %d", len(expected), len(values))
	}

	for i, v := range values {
		if v != expected[i] {
			t.Errorf("At index %d: expected %v, got %v", i, expected[i], v)
		}
	}
}

func TestBookingSheetHeaders(t *testing.T) {
	headers := bookingSheetHeaders()
	if len(headers) != len(bookingRowValues(&models.Booking{})) {
		t.Fatalf("header count %d does not match row width %d", len(headers), len(bookingRowValues(&models.Booking{})))
	}
}

func TestCacheOperations(t *testing.T) {
	s := &SheetsService{
		rowCache: make(map[int64]int),
	}

	if _, ok := s.getCachedRow(1); ok {
		t.Errorf("expected cache miss for unknown id")
	}

	s.setCachedRow(1, 5)
	row, ok := s.getCachedRow(1)
	if !ok || row != 5 {
		t.Errorf("expected cached row 5, got %d (ok=%v)", row, ok)
	}

	s.ClearCache()
	if _, ok := s.getCachedRow(1); ok {
		t.Errorf("expected empty cache after clear")
	}
}
