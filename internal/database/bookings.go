package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"aula/internal/domain"
	"aula/internal/models"
)

const bookingColumns = `id, room_id, owner_id, start_ts, end_ts, purpose, status, created_at, updated_at, version`

// InsertIfNoConflict atomically evaluates the conflict predicate against the
// room's active bookings and inserts the candidate as pending if none match.
// The transaction takes the write lock immediately (_txlock=immediate), so two
// concurrent calls cannot both observe an empty slot.
func (db *DB) InsertIfNoConflict(ctx context.Context, booking *models.Booking, conflictsWith domain.ConflictPredicate) error {
	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `SELECT ` + bookingColumns + `
              FROM bookings
              WHERE room_id = ? AND status IN (?, ?)`
	rows, err := tx.QueryContext(ctx, query, booking.RoomID, models.StatusPending, models.StatusApproved)
	if err != nil {
		return fmt.Errorf("failed to query active bookings in tx: %w", err)
	}

	active, err := scanBookings(rows)
	if err != nil {
		return err
	}

	for _, existing := range active {
		if conflictsWith(existing) {
			return domain.ErrConflict
		}
	}

	now := time.Now().UTC()
	insert := `INSERT INTO bookings (` + bookingColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = tx.ExecContext(ctx, insert,
		booking.ID,
		booking.RoomID,
		booking.OwnerID,
		booking.Interval.Start.UTC(),
		booking.Interval.End.UTC(),
		booking.Purpose,
		models.StatusPending,
		now,
		now,
		1,
	)
	if err != nil {
		return fmt.Errorf("failed to insert booking in tx: %w", err)
	}

	booking.Status = models.StatusPending
	booking.CreatedAt = now
	booking.UpdatedAt = now
	booking.Version = 1

	return tx.Commit()
}

// FindActiveByRoom returns bookings that still occupy their time slot.
func (db *DB) FindActiveByRoom(ctx context.Context, roomID string) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + `
              FROM bookings
              WHERE room_id = ? AND status IN (?, ?)
              ORDER BY start_ts ASC`
	rows, err := db.db.QueryContext(ctx, query, roomID, models.StatusPending, models.StatusApproved)
	if err != nil {
		return nil, fmt.Errorf("failed to get active bookings: %w", err)
	}
	return scanBookings(rows)
}

func (db *DB) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	b := &models.Booking{}
	err := db.db.QueryRowContext(ctx, query, id).Scan(
		&b.ID, &b.RoomID, &b.OwnerID, &b.Interval.Start, &b.Interval.End,
		&b.Purpose, &b.Status, &b.CreatedAt, &b.UpdatedAt, &b.Version,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return b, nil
}

// UpdateBookingStatusWithVersion performs the optimistic conditional update.
// Zero affected rows means the version moved (or the row is gone); the caller
// distinguishes the two by re-reading.
func (db *DB) UpdateBookingStatusWithVersion(ctx context.Context, id string, fromVersion int64, status models.Status) error {
	query := `UPDATE bookings SET status = ?, version = version + 1, updated_at = ? WHERE id = ? AND version = ?`
	result, err := db.db.ExecContext(ctx, query, status, time.Now().UTC(), id, fromVersion)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrConcurrentModification
	}
	return nil
}

func (db *DB) GetOwnerBookings(ctx context.Context, ownerID string) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + `
              FROM bookings
              WHERE owner_id = ?
              ORDER BY start_ts DESC`
	rows, err := db.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get owner bookings: %w", err)
	}
	return scanBookings(rows)
}

func (db *DB) GetBookings(ctx context.Context, status models.Status) ([]*models.Booking, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if status == "" {
		query := `SELECT ` + bookingColumns + ` FROM bookings ORDER BY start_ts ASC`
		rows, err = db.db.QueryContext(ctx, query)
	} else {
		query := `SELECT ` + bookingColumns + ` FROM bookings WHERE status = ? ORDER BY start_ts ASC`
		rows, err = db.db.QueryContext(ctx, query, status)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bookings: %w", err)
	}
	return scanBookings(rows)
}

func scanBookings(rows *sql.Rows) ([]*models.Booking, error) {
	defer rows.Close()

	var bookings []*models.Booking
	for rows.Next() {
		b := &models.Booking{}
		err := rows.Scan(
			&b.ID, &b.RoomID, &b.OwnerID, &b.Interval.Start, &b.Interval.End,
			&b.Purpose, &b.Status, &b.CreatedAt, &b.UpdatedAt, &b.Version,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bookings: %w", err)
	}
	return bookings, nil
}
