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

func (db *DB) CreateBooking(ctx context.Context, booking *models.Booking) error {
	query := `INSERT INTO bookings (start_ns, end_ns, item_id, booker_id, status)
              VALUES (?, ?, ?, ?, ?)`
	result, err := db.ExecContext(ctx, query,
		booking.Start.UnixNano(),
		booking.End.UnixNano(),
		booking.ItemID,
		booking.BookerID,
		booking.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	booking.ID = id
	return nil
}

func (db *DB) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	query := `SELECT id, start_ns, end_ns, item_id, booker_id, status
              FROM bookings WHERE id = ?`
	row := db.QueryRowContext(ctx, query, id)

	b, err := scanBookingRow(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return b, nil
}

func (db *DB) DeleteBooking(ctx context.Context, id int64) error {
	_, err := db.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}
	return nil
}

// UpdateBookingStatusIfWaiting transitions a booking out of WAITING with a
// compare-and-set on the status column. At most one concurrent caller
// succeeds; the rest get ErrStaleStatus.
func (db *DB) UpdateBookingStatusIfWaiting(ctx context.Context, id int64, status string) error {
	query := `UPDATE bookings SET status = ? WHERE id = ? AND status = ?`
	result, err := db.ExecContext(ctx, query, status, id, models.StatusWaiting)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrStaleStatus
	}
	return nil
}

// bucketPredicate translates a bucket mode into a WHERE fragment. The
// service layer rejects unknown modes before they get here.
func bucketPredicate(page domain.BookingPage) (string, []interface{}, error) {
	now := page.Now.UnixNano()
	switch page.Mode {
	case models.BucketAll:
		return "", nil, nil
	case models.BucketCurrent:
		return " AND b.start_ns < ? AND b.end_ns > ?", []interface{}{now, now}, nil
	case models.BucketPast:
		return " AND b.end_ns < ?", []interface{}{now}, nil
	case models.BucketFuture:
		return " AND b.start_ns > ?", []interface{}{now}, nil
	case models.BucketWaiting:
		return " AND b.status = ?", []interface{}{models.StatusWaiting}, nil
	case models.BucketRejected:
		return " AND b.status IN (?, ?)", []interface{}{models.StatusRejected, models.StatusCanceled}, nil
	default:
		return "", nil, fmt.Errorf("unsupported bucket mode %q", page.Mode)
	}
}

func (db *DB) ListBookingsByBooker(ctx context.Context, bookerID int64, page domain.BookingPage) ([]*models.Booking, error) {
	predicate, args, err := bucketPredicate(page)
	if err != nil {
		return nil, err
	}

	query := `SELECT b.id, b.start_ns, b.end_ns, b.item_id, b.booker_id, b.status
              FROM bookings b
              WHERE b.booker_id = ?` + predicate + `
              ORDER BY b.start_ns DESC, b.id DESC LIMIT ? OFFSET ?`
	queryArgs := append([]interface{}{bookerID}, args...)
	queryArgs = append(queryArgs, page.Limit, page.Offset)

	rows, err := db.QueryContext(ctx, query, queryArgs...)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings by booker: %w", err)
	}
	defer rows.Close()
	return scanBookings(rows)
}

func (db *DB) ListBookingsByOwner(ctx context.Context, ownerID int64, page domain.BookingPage) ([]*models.Booking, error) {
	predicate, args, err := bucketPredicate(page)
	if err != nil {
		return nil, err
	}

	query := `SELECT b.id, b.start_ns, b.end_ns, b.item_id, b.booker_id, b.status
              FROM bookings b JOIN items i ON b.item_id = i.id
              WHERE i.owner_id = ?` + predicate + `
              ORDER BY b.start_ns DESC, b.id DESC LIMIT ? OFFSET ?`
	queryArgs := append([]interface{}{ownerID}, args...)
	queryArgs = append(queryArgs, page.Limit, page.Offset)

	rows, err := db.QueryContext(ctx, query, queryArgs...)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings by owner: %w", err)
	}
	defer rows.Close()
	return scanBookings(rows)
}

// ListItemBookings returns bookings for a set of items filtered by status,
// for the availability projection.
func (db *DB) ListItemBookings(ctx context.Context, itemIDs []int64, statuses []string) ([]*models.Booking, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}

	var args []interface{}
	for _, id := range itemIDs {
		args = append(args, id)
	}
	query := `SELECT id, start_ns, end_ns, item_id, booker_id, status
              FROM bookings WHERE item_id IN (` + placeholders(len(itemIDs)) + `)`
	if len(statuses) > 0 {
		query += ` AND status IN (` + placeholders(len(statuses)) + `)`
		for _, s := range statuses {
			args = append(args, s)
		}
	}
	query += ` ORDER BY start_ns, id`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list item bookings: %w", err)
	}
	defer rows.Close()
	return scanBookings(rows)
}

func (db *DB) GetBookingsByDateRange(ctx context.Context, start, end time.Time) ([]*models.Booking, error) {
	query := `SELECT id, start_ns, end_ns, item_id, booker_id, status
              FROM bookings WHERE start_ns >= ? AND start_ns <= ?
              ORDER BY start_ns, id`
	rows, err := db.QueryContext(ctx, query, start.UnixNano(), end.UnixNano())
	if err != nil {
		return nil, fmt.Errorf("failed to get bookings by date range: %w", err)
	}
	defer rows.Close()
	return scanBookings(rows)
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func scanBookingRow(scan func(dest ...interface{}) error) (*models.Booking, error) {
	b := &models.Booking{}
	var startNS, endNS int64
	err := scan(&b.ID, &startNS, &endNS, &b.ItemID, &b.BookerID, &b.Status)
	if err != nil {
		return nil, err
	}
	b.Start = time.Unix(0, startNS)
	b.End = time.Unix(0, endNS)
	return b, nil
}

func scanBookings(rows *sql.Rows) ([]*models.Booking, error) {
	var bookings []*models.Booking
	for rows.Next() {
		b, err := scanBookingRow(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}
