package domain

import (
	"context"
	"time"

	"aula/internal/models"
)

// ConflictPredicate decides whether an existing active booking blocks a
// candidate. Stores evaluate it inside their atomic check-and-insert section.
type ConflictPredicate func(existing *models.Booking) bool

// BookingStore is the durable record store for bookings. Implementations must
// make InsertIfNoConflict atomic per room: two concurrent inserts with
// overlapping intervals may not both succeed.
type BookingStore interface {
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	FindActiveByRoom(ctx context.Context, roomID string) ([]*models.Booking, error)
	InsertIfNoConflict(ctx context.Context, booking *models.Booking, conflictsWith ConflictPredicate) error
	UpdateBookingStatusWithVersion(ctx context.Context, id string, fromVersion int64, status models.Status) error
	GetOwnerBookings(ctx context.Context, ownerID string) ([]*models.Booking, error)
	// GetBookings returns all bookings, optionally filtered by status.
	// An empty status means no filter.
	GetBookings(ctx context.Context, status models.Status) ([]*models.Booking, error)
}

// StateRepository holds short-lived operational state (rate-limit counters).
type StateRepository interface {
	CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

type BookingService interface {
	CreateBooking(ctx context.Context, ownerID, roomID string, interval models.Interval, purpose string) (*models.Booking, error)
	Approve(ctx context.Context, bookingID string, actor models.Actor) (*models.Booking, error)
	Reject(ctx context.Context, bookingID string, actor models.Actor) (*models.Booking, error)
	Cancel(ctx context.Context, bookingID string, actor models.Actor) (*models.Booking, error)
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	ListForOwner(ctx context.Context, ownerID string) ([]*models.Booking, error)
	ListAll(ctx context.Context, status models.Status) ([]*models.Booking, error)
	HasConflict(ctx context.Context, roomID string, interval models.Interval) (bool, error)
}

type RoomService interface {
	GetActiveRooms() []*models.Room
	GetRoomByID(id string) (*models.Room, bool)
}
