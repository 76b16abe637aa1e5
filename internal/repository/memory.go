package repository

import (
	"context"
	"sync"
	"time"

	"aula/internal/domain"
	"aula/internal/models"
)

// MemoryBookingStore is the reference in-process implementation of the booking
// store contract. A per-room mutex makes the check-and-insert atomic: the
// conflict predicate runs while the room is locked, so at most one of two
// racing creates for overlapping intervals can commit.
type MemoryBookingStore struct {
	mu       sync.RWMutex
	bookings map[string]*models.Booking

	roomLocks sync.Map // map[string]*sync.Mutex
}

func NewMemoryBookingStore() *MemoryBookingStore {
	return &MemoryBookingStore{bookings: make(map[string]*models.Booking)}
}

func (s *MemoryBookingStore) roomLock(roomID string) *sync.Mutex {
	if v, ok := s.roomLocks.Load(roomID); ok {
		return v.(*sync.Mutex)
	}
	lock := &sync.Mutex{}
	actual, _ := s.roomLocks.LoadOrStore(roomID, lock)
	return actual.(*sync.Mutex)
}

func (s *MemoryBookingStore) InsertIfNoConflict(ctx context.Context, booking *models.Booking, conflictsWith domain.ConflictPredicate) error {
	lock := s.roomLock(booking.RoomID)
	lock.Lock()
	defer lock.Unlock()

	active, err := s.FindActiveByRoom(ctx, booking.RoomID)
	if err != nil {
		return err
	}
	for _, existing := range active {
		if conflictsWith(existing) {
			return domain.ErrConflict
		}
	}

	now := time.Now().UTC()
	booking.Status = models.StatusPending
	booking.CreatedAt = now
	booking.UpdatedAt = now
	booking.Version = 1

	s.mu.Lock()
	stored := *booking
	s.bookings[booking.ID] = &stored
	s.mu.Unlock()

	return nil
}

func (s *MemoryBookingStore) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.bookings[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *b
	return &copied, nil
}

func (s *MemoryBookingStore) FindActiveByRoom(ctx context.Context, roomID string) ([]*models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var active []*models.Booking
	for _, b := range s.bookings {
		if b.RoomID == roomID && b.Status.IsActive() {
			copied := *b
			active = append(active, &copied)
		}
	}
	return active, nil
}

func (s *MemoryBookingStore) UpdateBookingStatusWithVersion(ctx context.Context, id string, fromVersion int64, status models.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[id]
	if !ok {
		return domain.ErrNotFound
	}
	if b.Version != fromVersion {
		return domain.ErrConcurrentModification
	}
	b.Status = status
	b.Version++
	b.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *MemoryBookingStore) GetOwnerBookings(ctx context.Context, ownerID string) ([]*models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Booking
	for _, b := range s.bookings {
		if b.OwnerID == ownerID {
			copied := *b
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (s *MemoryBookingStore) GetBookings(ctx context.Context, status models.Status) ([]*models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Booking
	for _, b := range s.bookings {
		if status == "" || b.Status == status {
			copied := *b
			out = append(out, &copied)
		}
	}
	return out, nil
}

// MemoryStateRepository is the in-process fallback for rate-limit state.
type MemoryStateRepository struct {
	rateLimits sync.Map // map[string]*rateLimitEntry
}

func NewMemoryStateRepository() *MemoryStateRepository {
	return &MemoryStateRepository{}
}

type rateLimitEntry struct {
	mu        sync.Mutex
	count     int
	expiresAt time.Time
}

func (r *MemoryStateRepository) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	v, _ := r.rateLimits.LoadOrStore(key, &rateLimitEntry{})
	entry := v.(*rateLimitEntry)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	now := time.Now()
	if entry.count == 0 || now.After(entry.expiresAt) {
		entry.count = 1
		entry.expiresAt = now.Add(window)
	} else {
		entry.count++
	}
	return entry.count <= limit, nil
}
