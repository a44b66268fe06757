package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"wayfarer/internal/database"
	"wayfarer/internal/domain"
	"wayfarer/internal/events"
	"wayfarer/internal/metrics"
	"wayfarer/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrNotSignedIn is returned by operations that require a signed-in user.
var ErrNotSignedIn = errors.New("not signed in")

const (
	titleAuthRequired   = "Authentication Required"
	titleBookingCreated = "Booking Created"
	titleBookingError   = "Booking Error"

	msgSignInToBook    = "Please sign in to make a booking"
	msgCreateFallback  = "Failed to create booking"
	msgCreatedTemplate = "Your booking at %s is pending confirmation"
)

// BookingWorkflow runs the booking attempt end to end: session gate,
// stay normalization, persistence, and the follow-up effects.
type BookingWorkflow struct {
	repo     domain.Repository
	sessions domain.SessionProvider
	notifier domain.Notifier
	eventBus domain.EventPublisher
	worker   domain.SyncWorker
	logger   *zerolog.Logger
}

func NewBookingWorkflow(
	repo domain.Repository,
	sessions domain.SessionProvider,
	notifier domain.Notifier,
	eventBus domain.EventPublisher,
	worker domain.SyncWorker,
	logger *zerolog.Logger,
) *BookingWorkflow {
	return &BookingWorkflow{
		repo:     repo,
		sessions: sessions,
		notifier: notifier,
		eventBus: eventBus,
		worker:   worker,
		logger:   logger,
	}
}

// AttemptBooking books a stay at the hotel for whoever is behind the token.
// Unauthenticated callers get a sign-in redirect and nothing is submitted.
// Every path emits exactly one notification describing what happened.
func (w *BookingWorkflow) AttemptBooking(ctx context.Context, token string, hotelID string, stay models.Stay) models.Outcome {
	identity, err := w.sessions.CurrentIdentity(ctx, token)
	if err != nil {
		w.logger.Error().Err(err).Msg("Session resolution failed")
		return w.fail(ctx, msgCreateFallback)
	}
	if identity == nil {
		w.notify(ctx, models.Notification{
			Title:       titleAuthRequired,
			Description: msgSignInToBook,
			Severity:    models.SeverityDestructive,
		})
		return models.Outcome{
			Kind:      models.OutcomeUnauthenticated,
			Message:   msgSignInToBook,
			SignInURL: w.sessions.SignInURL(),
		}
	}

	stay, err = normalizeStay(stay)
	if err != nil {
		return w.fail(ctx, err.Error())
	}

	hotel, err := w.repo.GetHotelByID(ctx, hotelID)
	if err != nil {
		w.logger.Error().Err(err).Str("hotel_id", hotelID).Msg("Hotel lookup failed")
		return w.fail(ctx, failureMessage(err))
	}

	booking := &models.Booking{
		Reference:    newReference(),
		UserID:       identity.ID,
		HotelID:      hotel.ID,
		HotelName:    hotel.Name,
		HotelAddress: hotel.Address,
		CheckInDate:  stay.CheckIn,
		CheckOutDate: stay.CheckOut,
		Guests:       models.DefaultGuests,
		TotalAmount:  hotel.PricePerNight,
		Currency:     models.DefaultBookingCurrency,
		Status:       models.StatusPending,
	}

	if err := w.repo.CreateBooking(ctx, booking); err != nil {
		w.logger.Error().Err(err).Str("hotel_id", hotelID).Str("user_id", identity.ID).Msg("Booking creation failed")
		return w.fail(ctx, failureMessage(err))
	}

	w.notify(ctx, models.Notification{
		Title:       titleBookingCreated,
		Description: fmt.Sprintf(msgCreatedTemplate, hotel.Name),
	})
	w.publishCreated(booking)
	w.enqueueSync(ctx, booking)

	w.logger.Info().
		Int64("booking_id", booking.ID).
		Str("reference", booking.Reference).
		Str("hotel_id", hotel.ID).
		Str("user_id", identity.ID).
		Msg("Booking created")

	return models.Outcome{
		Kind:   models.OutcomeCreated,
		Record: booking,
	}
}

// UserBookings lists the caller's bookings, newest first.
func (w *BookingWorkflow) UserBookings(ctx context.Context, token string) ([]*models.Booking, error) {
	identity, err := w.sessions.CurrentIdentity(ctx, token)
	if err != nil {
		return nil, err
	}
	if identity == nil {
		return nil, ErrNotSignedIn
	}

	return w.repo.GetUserBookings(ctx, identity.ID)
}

// normalizeStay fills in the default one-night stay starting today when no
// dates were picked. Explicitly chosen dates must be a positive stay.
func normalizeStay(stay models.Stay) (models.Stay, error) {
	if stay.IsZero() {
		now := time.Now()
		return models.Stay{
			CheckIn:  now,
			CheckOut: now.AddDate(0, 0, 1),
		}, nil
	}

	if !stay.CheckOut.After(stay.CheckIn) {
		return models.Stay{}, database.ErrInvalidStay
	}

	return stay, nil
}

func newReference() string {
	return "WF-" + strings.ToUpper(uuid.NewString()[:8])
}

func failureMessage(err error) string {
	switch {
	case errors.Is(err, database.ErrHotelNotFound),
		errors.Is(err, database.ErrInvalidStay):
		return err.Error()
	default:
		return msgCreateFallback
	}
}

func (w *BookingWorkflow) fail(ctx context.Context, message string) models.Outcome {
	w.notify(ctx, models.Notification{
		Title:       titleBookingError,
		Description: message,
		Severity:    models.SeverityDestructive,
	})

	return models.Outcome{
		Kind:    models.OutcomeFailed,
		Message: message,
	}
}

func (w *BookingWorkflow) notify(ctx context.Context, n models.Notification) {
	if n.Severity == "" {
		n.Severity = models.SeverityNormal
	}
	metrics.IncNotification(n.Severity)

	if w.notifier == nil {
		return
	}
	if err := w.notifier.Notify(ctx, n); err != nil {
		w.logger.Error().Err(err).Str("title", n.Title).Msg("Notification delivery failed")
	}
}

func (w *BookingWorkflow) publishCreated(booking *models.Booking) {
	if w.eventBus == nil {
		return
	}

	payload := events.BookingEventPayload{
		BookingID:   booking.ID,
		Reference:   booking.Reference,
		UserID:      booking.UserID,
		HotelID:     booking.HotelID,
		HotelName:   booking.HotelName,
		CheckIn:     booking.CheckInDate,
		CheckOut:    booking.CheckOutDate,
		Guests:      booking.Guests,
		TotalAmount: booking.TotalAmount,
		Currency:    booking.Currency,
		Status:      booking.Status,
	}

	if err := w.eventBus.PublishJSON(events.EventBookingCreated, payload); err != nil {
		w.logger.Error().Err(err).Int64("booking_id", booking.ID).Msg("publish event error")
	}
}

func (w *BookingWorkflow) enqueueSync(ctx context.Context, booking *models.Booking) {
	if w.worker == nil {
		return
	}
	if err := w.worker.EnqueueBooking(ctx, booking); err != nil {
		w.logger.Error().Err(err).Int64("booking_id", booking.ID).Msg("sheets enqueue error")
	}
}
