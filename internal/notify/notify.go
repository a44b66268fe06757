package notify

import (
	"context"
	"sync"

	"wayfarer/internal/domain"
	"wayfarer/internal/models"
)

// Recorder collects notifications in memory, typically fanned in behind a
// Multi so tests and diagnostics can see what was emitted.
type Recorder struct {
	mu    sync.Mutex
	items []models.Notification
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Notify(ctx context.Context, n models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
	return nil
}

// Notifications returns a copy of everything recorded so far.
func (r *Recorder) Notifications() []models.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Notification, len(r.items))
	copy(out, r.items)
	return out
}

// Multi fans a notification out to several notifiers. Delivery failures
// are collected but do not stop the remaining notifiers.
type Multi struct {
	notifiers []domain.Notifier
}

func NewMulti(notifiers ...domain.Notifier) *Multi {
	return &Multi{notifiers: notifiers}
}

func (m *Multi) Notify(ctx context.Context, n models.Notification) error {
	var firstErr error
	for _, notifier := range m.notifiers {
		if err := notifier.Notify(ctx, n); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
