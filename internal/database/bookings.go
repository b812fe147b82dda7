package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"shareit/internal/domain"
	"shareit/internal/models"
)

const bookingColumns = `id, item_id, booker_id, start_at, end_at, status, created_at, updated_at`

func (db *DB) SaveBooking(ctx context.Context, booking *models.Booking) error {
	if booking.ID != 0 {
		return fmt.Errorf("booking id is assigned by the store, got %d", booking.ID)
	}

	query := `INSERT INTO bookings (item_id, booker_id, start_at, end_at, status, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?, ?)`
	now := time.Now().UTC()
	result, err := db.ExecContext(ctx, query,
		booking.ItemID,
		booking.BookerID,
		booking.Start.UTC(),
		booking.End.UTC(),
		booking.Status,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	booking.ID = id
	booking.CreatedAt = now
	booking.UpdatedAt = now

	return nil
}

func (db *DB) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`

	var booking models.Booking
	err := db.QueryRowContext(ctx, query, id).Scan(
		&booking.ID, &booking.ItemID, &booking.BookerID,
		&booking.Start, &booking.End, &booking.Status,
		&booking.CreatedAt, &booking.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &booking, nil
}

func (db *DB) UpdateBooking(ctx context.Context, booking *models.Booking) error {
	query := `UPDATE bookings
              SET item_id = ?, booker_id = ?, start_at = ?, end_at = ?, status = ?, updated_at = ?
              WHERE id = ?`
	now := time.Now().UTC()
	result, err := db.ExecContext(ctx, query,
		booking.ItemID,
		booking.BookerID,
		booking.Start.UTC(),
		booking.End.UTC(),
		booking.Status,
		now,
		booking.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrBookingNotFound
	}
	booking.UpdatedAt = now
	return nil
}

func (db *DB) ListBookingsByBooker(ctx context.Context, bookerID int64, state string, now time.Time, from, size int) ([]*models.Booking, error) {
	clause, args, ok := bookingFilterClause(state, now)
	if !ok || from < 0 || size < 0 {
		return []*models.Booking{}, nil
	}

	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE booker_id = ?` +
		clause + ` ORDER BY start_at DESC LIMIT ? OFFSET ?`
	args = append([]interface{}{bookerID}, args...)
	args = append(args, size, from)

	return db.queryBookings(ctx, query, args...)
}

func (db *DB) ListBookingsByOwner(ctx context.Context, ownerID int64, state string, now time.Time, from, size int) ([]*models.Booking, error) {
	clause, args, ok := bookingFilterClause(state, now)
	if !ok || from < 0 || size < 0 {
		return []*models.Booking{}, nil
	}

	// Владелец разрешается через items на момент запроса
	query := `SELECT b.id, b.item_id, b.booker_id, b.start_at, b.end_at, b.status, b.created_at, b.updated_at
              FROM bookings b
              JOIN items i ON i.id = b.item_id
              WHERE i.owner_id = ?` + clause + ` ORDER BY b.start_at DESC LIMIT ? OFFSET ?`
	args = append([]interface{}{ownerID}, args...)
	args = append(args, size, from)

	return db.queryBookings(ctx, query, args...)
}

// bookingFilterClause translates a state filter token into a SQL
// condition starting with " AND ". ok is false for unrecognized
// tokens, which yield an empty result set.
func bookingFilterClause(state string, now time.Time) (string, []interface{}, bool) {
	switch strings.ToUpper(strings.TrimSpace(state)) {
	case "", models.FilterAll:
		return "", nil, true
	case models.StatusWaiting, models.StatusApproved, models.StatusRejected, models.StatusCanceled:
		return ` AND status = ?`, []interface{}{strings.ToUpper(strings.TrimSpace(state))}, true
	case models.FilterCurrent:
		return ` AND start_at < ? AND end_at > ?`, []interface{}{now.UTC(), now.UTC()}, true
	case models.FilterPast:
		return ` AND end_at < ?`, []interface{}{now.UTC()}, true
	case models.FilterFuture:
		return ` AND start_at > ?`, []interface{}{now.UTC()}, true
	default:
		return "", nil, false
	}
}

func (db *DB) queryBookings(ctx context.Context, query string, args ...interface{}) ([]*models.Booking, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	bookings := make([]*models.Booking, 0)
	for rows.Next() {
		b := &models.Booking{}
		err := rows.Scan(
			&b.ID, &b.ItemID, &b.BookerID,
			&b.Start, &b.End, &b.Status,
			&b.CreatedAt, &b.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (db *DB) AllBookings(ctx context.Context) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings ORDER BY id`
	return db.queryBookings(ctx, query)
}

func (db *DB) DeleteBooking(ctx context.Context, id int64) error {
	_, err := db.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id)
	return err
}
