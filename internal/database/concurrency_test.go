package database

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"aula/internal/domain"
	"aula/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConcurrentCreate_SingleWinner(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	start := time.Now().Add(24 * time.Hour).Truncate(time.Second)
	interval := models.Interval{Start: start.UTC(), End: start.Add(time.Hour).UTC()}

	const numGoroutines = 10
	var wg sync.WaitGroup
	wg.Add(numGoroutines)
	results := make(chan error, numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()
			booking := newBooking("room-1", "user", start, time.Hour)
			results <- db.InsertIfNoConflict(ctx, booking, overlapPredicate(booking.Interval))
		}(i)
	}

	wg.Wait()
	close(results)

	successCount := 0
	conflictCount := 0
	for err := range results {
		switch {
		case err == nil:
			successCount++
		case errors.Is(err, domain.ErrConflict):
			conflictCount++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, successCount, "exactly one identical-interval create should win")
	assert.Equal(t, numGoroutines-1, conflictCount)

	active, err := db.FindActiveByRoom(ctx, "room-1")
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.True(t, active[0].Interval.Overlaps(interval))
}

func TestConcurrentCreate_DifferentRoomsIndependent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	start := time.Now().Add(24 * time.Hour).Truncate(time.Second)

	const numRooms = 8
	var wg sync.WaitGroup
	wg.Add(numRooms)
	results := make(chan error, numRooms)

	for i := 0; i < numRooms; i++ {
		go func(id int) {
			defer wg.Done()
			roomID := string(rune('a' + id))
			booking := newBooking("room-"+roomID, "user", start, time.Hour)
			results <- db.InsertIfNoConflict(ctx, booking, overlapPredicate(booking.Interval))
		}(i)
	}

	wg.Wait()
	close(results)

	for err := range results {
		assert.NoError(t, err, "creates for distinct rooms must not conflict")
	}
}

// The core safety invariant: after any mix of operations, no two active
// bookings for the same room overlap.
func TestNoOverlappingActivePairs(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	base := time.Now().Add(24 * time.Hour).Truncate(time.Second)

	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// Deliberately colliding 1h slots every 30m.
			start := base.Add(time.Duration(i%10) * 30 * time.Minute)
			booking := newBooking("room-1", "user", start, time.Hour)
			_ = db.InsertIfNoConflict(ctx, booking, overlapPredicate(booking.Interval))
		}(i)
	}
	wg.Wait()

	active, err := db.FindActiveByRoom(ctx, "room-1")
	require.NoError(t, err)
	for i := 0; i < len(active); i++ {
		for j := i + 1; j < len(active); j++ {
			assert.False(t, active[i].Interval.Overlaps(active[j].Interval),
				"active bookings %s and %s overlap", active[i].Interval, active[j].Interval)
		}
	}
}
