package worker

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"wayfarer/internal/database"
	"wayfarer/internal/models"
)

func TestProcessTaskSuccess(t *testing.T) {
	db := newTestDB(t)
	sheets := &fakeSheets{}
	worker := NewSyncWorker(db, sheets, nil, RetryPolicy{}, nil)

	booking := &models.Booking{
		ID:           1,
		Reference:    "WF-TEST01",
		UserID:       "user-1",
		HotelID:      "h-plaza",
		HotelName:    "Grand Plaza",
		CheckInDate:  time.Now(),
		CheckOutDate: time.Now().AddDate(0, 0, 1),
		Guests:       2,
		TotalAmount:  2000,
		Currency:     "INR",
		Status:       "pending",
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	ctx := context.Background()
	if err := worker.EnqueueBooking(ctx, booking); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	task, ok := worker.tryLocalQueue()
	if !ok {
		t.Fatalf("expected task in local queue")
	}
	worker.processTask(ctx, &task)

	status, retryCount, nextRetry := loadTaskStatus(t, db, task.ID)
	if status != "completed" {
		t.Fatalf("expected status=completed, got %s", status)
	}
	if retryCount != 0 {
		t.Fatalf("expected retry_count=0, got %d", retryCount)
	}
	if nextRetry.Valid {
		t.Fatalf("expected next_retry_at NULL on success")
	}
	if sheets.upsertCalls != 1 {
		t.Fatalf("expected upsert call, got %d", sheets.upsertCalls)
	}
}

func TestProcessTaskRetry(t *testing.T) {
	db := newTestDB(t)
	sheets := &fakeSheets{err: errors.New("boom")}
	worker := NewSyncWorker(db, sheets, nil, RetryPolicy{MaxRetries: 3, InitialDelay: time.Second}, nil)

	booking := &models.Booking{ID: 2, Reference: "WF-TEST02", UserID: "user-1", HotelID: "h-plaza", Status: "pending"}

	ctx := context.Background()
	if err := worker.EnqueueBooking(ctx, booking); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	task, ok := worker.tryLocalQueue()
	if !ok {
		t.Fatalf("expected task in local queue")
	}
	worker.processTask(ctx, &task)

	status, retryCount, nextRetry := loadTaskStatus(t, db, task.ID)
	if status != "retry" {
		t.Fatalf("expected status=retry, got %s", status)
	}
	if retryCount != 1 {
		t.Fatalf("expected retry_count=1, got %d", retryCount)
	}
	if !nextRetry.Valid || nextRetry.Time.Before(time.Now()) {
		t.Fatalf("expected next_retry_at in future, got %v", nextRetry)
	}
}

func TestProcessTaskFail(t *testing.T) {
	db := newTestDB(t)
	sheets := &fakeSheets{err: errors.New("fatal")}
	worker := NewSyncWorker(db, sheets, nil, RetryPolicy{MaxRetries: 1}, nil)

	booking := &models.Booking{ID: 3, Reference: "WF-TEST03", UserID: "user-1", HotelID: "h-plaza", Status: "pending"}

	ctx := context.Background()
	worker.EnqueueBooking(ctx, booking)
	task, _ := worker.tryLocalQueue()
	worker.processTask(ctx, &task)

	status, _, _ := loadTaskStatus(t, db, task.ID)
	if status != "failed" {
		t.Fatalf("expected status=failed, got %s", status)
	}
}

func TestSyncWorker_HandleTask(t *testing.T) {
	db := newTestDB(t)
	sheets := &fakeSheets{}
	worker := NewSyncWorker(db, sheets, nil, RetryPolicy{MaxRetries: 3}, nil)

	ctx := context.Background()

	t.Run("Upsert", func(t *testing.T) {
		booking := &models.Booking{ID: 1, HotelName: "Grand Plaza"}
		err := worker.handleTask(ctx, TaskUpsert, syncPayload{Booking: booking})
		if err != nil {
			t.Fatalf("handle: %v", err)
		}
		if sheets.upsertCalls != 1 {
			t.Fatalf("expected 1 upsert call, got %d", sheets.upsertCalls)
		}
	})

	t.Run("UpdateStatus", func(t *testing.T) {
		err := worker.handleTask(ctx, TaskUpdateStatus, syncPayload{BookingID: 123, Status: "confirmed"})
		if err != nil {
			t.Fatalf("handle: %v", err)
		}
		if sheets.statusCalls != 1 {
			t.Fatalf("expected 1 status call, got %d", sheets.statusCalls)
		}
	})

	t.Run("UnknownType", func(t *testing.T) {
		err := worker.handleTask(ctx, "bogus", syncPayload{})
		if err == nil {
			t.Fatalf("expected error for unknown task type")
		}
	})
}

func TestRetryPolicyNextDelay(t *testing.T) {
	policy := RetryPolicy{InitialDelay: time.Second, BackoffFactor: 2, MaxDelay: 5 * time.Second}
	d1 := policy.NextDelay(1)
	d2 := policy.NextDelay(2)
	d3 := policy.NextDelay(5)

	if d1 != time.Second {
		t.Fatalf("attempt1 expected 1s, got %s", d1)
	}
	if d2 != 2*time.Second {
		t.Fatalf("attempt2 expected 2s, got %s", d2)
	}
	if d3 != 5*time.Second {
		t.Fatalf("attempt5 expected capped 5s, got %s", d3)
	}
}

func TestSyncWorker_Enqueue(t *testing.T) {
	db := newTestDB(t)
	sheets := &fakeSheets{}
	worker := NewSyncWorker(db, sheets, nil, RetryPolicy{}, nil)

	ctx := context.Background()

	t.Run("ValidBooking", func(t *testing.T) {
		err := worker.EnqueueBooking(ctx, &models.Booking{ID: 1, Reference: "WF-A"})
		if err != nil {
			t.Fatalf("enqueue: %v", err)
		}
	})

	t.Run("MissingBookingID", func(t *testing.T) {
		err := worker.EnqueueBooking(ctx, &models.Booking{})
		if err == nil {
			t.Fatalf("expected error for missing booking id")
		}
	})

	t.Run("StatusUpdate", func(t *testing.T) {
		err := worker.EnqueueStatusUpdate(ctx, 1, "confirmed")
		if err != nil {
			t.Fatalf("enqueue: %v", err)
		}
	})

	t.Run("StatusUpdateMissingStatus", func(t *testing.T) {
		err := worker.EnqueueStatusUpdate(ctx, 1, "")
		if err == nil {
			t.Fatalf("expected error for empty status")
		}
	})
}

func TestSyncWorker_DecodePayload(t *testing.T) {
	worker := NewSyncWorker(nil, nil, nil, RetryPolicy{}, nil)

	t.Run("ValidPayload", func(t *testing.T) {
		payload := `{"booking_id":123,"status":"confirmed"}`
		decoded, err := worker.decodePayload(payload)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if decoded.BookingID != 123 || decoded.Status != "confirmed" {
			t.Fatalf("unexpected decoded payload: %+v", decoded)
		}
	})

	t.Run("InvalidPayload", func(t *testing.T) {
		payload := `invalid json`
		_, err := worker.decodePayload(payload)
		if err == nil {
			t.Fatalf("expected error for invalid json")
		}
	})
}

// Helpers

type fakeSheets struct {
	err          error
	upsertCalls  int
	statusCalls  int
	replaceCalls int
}

func (f *fakeSheets) UpsertBooking(ctx context.Context, b *models.Booking) error {
	f.upsertCalls++
	return f.err
}

func (f *fakeSheets) UpdateBookingStatus(ctx context.Context, id int64, status string) error {
	f.statusCalls++
	return f.err
}

func (f *fakeSheets) ReplaceBookingsSheet(ctx context.Context, bookings []*models.Booking) error {
	f.replaceCalls++
	return f.err
}

func newTestDB(t *testing.T) *database.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "worker.db")
	db, err := database.NewDB(path)
	if err != nil {
		t.Fatalf("new db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func loadTaskStatus(t *testing.T, db *database.DB, id int64) (status string, retryCount int, nextRetry sql.NullTime) {
	t.Helper()
	row := db.QueryRowContext(context.Background(), `SELECT status, retry_count, next_retry_at FROM sync_queue WHERE id = ?`, id)
	if err := row.Scan(&status, &retryCount, &nextRetry); err != nil {
		t.Fatalf("scan task: %v", err)
	}
	return status, retryCount, nextRetry
}
