package service

import (
	"context"

	"aula/internal/domain"
	"aula/internal/models"
)

// ConflictDetector decides whether a candidate interval collides with the
// active bookings of a room. The predicate it produces is handed to the
// store's atomic check-and-insert, so the authoritative evaluation always
// happens inside the store's atomic section, never as a separate earlier read.
type ConflictDetector struct {
	store domain.BookingStore
}

func NewConflictDetector(store domain.BookingStore) *ConflictDetector {
	return &ConflictDetector{store: store}
}

// Predicate binds the candidate interval into a conflict check against a
// single existing booking. The linear scan over the active set is the store's
// concern; an indexed store can skip non-candidates without changing callers.
func (d *ConflictDetector) Predicate(interval models.Interval) domain.ConflictPredicate {
	return func(existing *models.Booking) bool {
		return existing.Status.IsActive() && existing.Interval.Overlaps(interval)
	}
}

// HasConflict is the advisory read path used by availability queries. Creation
// never relies on it; the racing-writer case is handled by InsertIfNoConflict.
func (d *ConflictDetector) HasConflict(ctx context.Context, roomID string, interval models.Interval) (bool, error) {
	active, err := d.store.FindActiveByRoom(ctx, roomID)
	if err != nil {
		return false, err
	}

	conflicts := d.Predicate(interval)
	for _, existing := range active {
		if conflicts(existing) {
			return true, nil
		}
	}
	return false, nil
}
