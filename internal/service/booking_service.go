package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"aula/internal/config"
	"aula/internal/domain"
	"aula/internal/events"
	"aula/internal/metrics"
	"aula/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// BookingService owns the booking lifecycle: creation behind the atomic
// conflict check, and status transitions through the optimistic conditional
// update. It is stateless and safe for concurrent use.
type BookingService struct {
	store    domain.BookingStore
	rooms    domain.RoomService
	detector *ConflictDetector
	eventBus domain.EventPublisher
	cfg      config.BookingConfig
	logger   *zerolog.Logger
}

func NewBookingService(store domain.BookingStore, rooms domain.RoomService, eventBus domain.EventPublisher, cfg config.BookingConfig, logger *zerolog.Logger) *BookingService {
	if cfg.MaxAdvanceDays <= 0 {
		cfg.MaxAdvanceDays = models.DefaultMaxAdvanceDays
	}
	return &BookingService{
		store:    store,
		rooms:    rooms,
		detector: NewConflictDetector(store),
		eventBus: eventBus,
		cfg:      cfg,
		logger:   logger,
	}
}

// validateInterval applies the structural rule (start < end) and the horizon
// policy: the booking must start no earlier than the configured lead time and
// no later than the configured number of days ahead.
func (s *BookingService) validateInterval(interval models.Interval) error {
	if err := interval.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()
	if interval.Start.Before(now.Add(s.cfg.MinAdvance())) {
		return domain.ErrPastStart
	}
	if interval.Start.After(now.AddDate(0, 0, s.cfg.MaxAdvanceDays)) {
		return domain.ErrTooFarAhead
	}
	return nil
}

// CreateBooking is the only path that creates bookings. The conflict predicate
// is evaluated inside the store's atomic section, so two concurrent calls for
// overlapping intervals cannot both commit.
func (s *BookingService) CreateBooking(ctx context.Context, ownerID, roomID string, interval models.Interval, purpose string) (*models.Booking, error) {
	if _, ok := s.rooms.GetRoomByID(roomID); !ok {
		return nil, domain.ErrRoomNotFound
	}

	if err := s.validateInterval(interval); err != nil {
		return nil, err
	}

	booking := &models.Booking{
		ID:       uuid.NewString(),
		RoomID:   roomID,
		OwnerID:  ownerID,
		Interval: models.Interval{Start: interval.Start.UTC(), End: interval.End.UTC()},
		Purpose:  purpose,
	}

	err := s.store.InsertIfNoConflict(ctx, booking, s.detector.Predicate(booking.Interval))
	if errors.Is(err, domain.ErrConflict) {
		metrics.IncBookingConflict()
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	metrics.IncBookingCreated()
	s.publishEvent(events.EventBookingCreated, booking, models.Actor{ID: ownerID, Role: models.RoleUser})
	s.logger.Info().
		Str("booking_id", booking.ID).
		Str("room_id", roomID).
		Str("owner_id", ownerID).
		Str("interval", booking.Interval.String()).
		Msg("booking created")

	return booking, nil
}

// Approve moves a pending booking to approved. Admin only.
func (s *BookingService) Approve(ctx context.Context, bookingID string, actor models.Actor) (*models.Booking, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	return s.transition(ctx, bookingID, models.StatusApproved, actor, events.EventBookingApproved)
}

// Reject moves a pending booking to rejected. Admin only.
func (s *BookingService) Reject(ctx context.Context, bookingID string, actor models.Actor) (*models.Booking, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	return s.transition(ctx, bookingID, models.StatusRejected, actor, events.EventBookingRejected)
}

// Cancel withdraws a pending or approved booking. Permitted for the owner or
// an admin. Repeated cancel is a caller error, not an idempotent no-op.
func (s *BookingService) Cancel(ctx context.Context, bookingID string, actor models.Actor) (*models.Booking, error) {
	booking, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.OwnerID != actor.ID && !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	return s.transition(ctx, bookingID, models.StatusCancelled, actor, events.EventBookingCancelled)
}

// transition performs the conditional status update with a single transparent
// retry on a stale write. A stale write never reaches the caller: it either
// turns into success on fresh state or into ErrInvalidTransition.
func (s *BookingService) transition(ctx context.Context, bookingID string, target models.Status, actor models.Actor, eventType string) (*models.Booking, error) {
	booking, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	for attempt := 0; attempt < 2; attempt++ {
		if !models.CanTransition(booking.Status, target) {
			return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, booking.Status, target)
		}

		err = s.store.UpdateBookingStatusWithVersion(ctx, booking.ID, booking.Version, target)
		if err == nil {
			booking.Status = target
			booking.Version++
			booking.UpdatedAt = time.Now().UTC()

			metrics.IncStatusTransition(string(target))
			s.publishEvent(eventType, booking, actor)
			s.logger.Info().
				Str("booking_id", booking.ID).
				Str("status", string(target)).
				Str("actor_id", actor.ID).
				Msg("booking status changed")
			return booking, nil
		}
		if !errors.Is(err, domain.ErrConcurrentModification) {
			return nil, err
		}

		booking, err = s.store.GetBooking(ctx, bookingID)
		if err != nil {
			return nil, err
		}
	}

	return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, booking.Status, target)
}

func (s *BookingService) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	return s.store.GetBooking(ctx, id)
}

func (s *BookingService) ListForOwner(ctx context.Context, ownerID string) ([]*models.Booking, error) {
	return s.store.GetOwnerBookings(ctx, ownerID)
}

func (s *BookingService) ListAll(ctx context.Context, status models.Status) ([]*models.Booking, error) {
	if status != "" && !status.IsValid() {
		return nil, fmt.Errorf("unknown status filter: %s", status)
	}
	return s.store.GetBookings(ctx, status)
}

// HasConflict is the advisory availability check exposed to read paths.
func (s *BookingService) HasConflict(ctx context.Context, roomID string, interval models.Interval) (bool, error) {
	if _, ok := s.rooms.GetRoomByID(roomID); !ok {
		return false, domain.ErrRoomNotFound
	}
	if err := interval.Validate(); err != nil {
		return false, err
	}
	return s.detector.HasConflict(ctx, roomID, interval)
}

func (s *BookingService) publishEvent(eventType string, booking *models.Booking, actor models.Actor) {
	if s.eventBus == nil {
		return
	}

	payload := events.BookingEventPayload{
		BookingID: booking.ID,
		RoomID:    booking.RoomID,
		OwnerID:   booking.OwnerID,
		Status:    booking.Status,
		Start:     booking.Interval.Start,
		End:       booking.Interval.End,
		ActorID:   actor.ID,
		ActorRole: actor.Role,
	}

	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Str("booking_id", booking.ID).Msg("publish event error")
	}
}
