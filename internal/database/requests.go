package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"shareit/internal/models"
)

func (db *DB) CreateRequest(ctx context.Context, request *models.ItemRequest) error {
	query := `INSERT INTO requests (description, requestor_id, created_ns)
              VALUES (?, ?, ?)`
	result, err := db.ExecContext(ctx, query,
		request.Description,
		request.RequestorID,
		request.Created.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	request.ID = id
	return nil
}

func (db *DB) GetRequest(ctx context.Context, id int64) (*models.ItemRequest, error) {
	query := `SELECT id, description, requestor_id, created_ns FROM requests WHERE id = ?`
	row := db.QueryRowContext(ctx, query, id)

	r, err := scanRequestRow(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get request: %w", err)
	}
	return r, nil
}

func (db *DB) UpdateRequest(ctx context.Context, request *models.ItemRequest) error {
	query := `UPDATE requests SET description = ? WHERE id = ?`
	result, err := db.ExecContext(ctx, query, request.Description, request.ID)
	if err != nil {
		return fmt.Errorf("failed to update request: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *DB) DeleteRequest(ctx context.Context, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM requests WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete request: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *DB) ListRequestsByRequestor(ctx context.Context, requestorID int64) ([]*models.ItemRequest, error) {
	query := `SELECT id, description, requestor_id, created_ns
              FROM requests WHERE requestor_id = ?
              ORDER BY created_ns DESC, id DESC`
	rows, err := db.QueryContext(ctx, query, requestorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	defer rows.Close()
	return scanRequests(rows)
}

// ListRequestsOfOthers pages through requests created by everyone except
// the given user, newest first.
func (db *DB) ListRequestsOfOthers(ctx context.Context, requestorID int64, limit, offset int) ([]*models.ItemRequest, error) {
	query := `SELECT id, description, requestor_id, created_ns
              FROM requests WHERE requestor_id != ?
              ORDER BY created_ns DESC, id DESC LIMIT ? OFFSET ?`
	rows, err := db.QueryContext(ctx, query, requestorID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests of others: %w", err)
	}
	defer rows.Close()
	return scanRequests(rows)
}

func scanRequestRow(scan func(dest ...interface{}) error) (*models.ItemRequest, error) {
	r := &models.ItemRequest{}
	var createdNS int64
	err := scan(&r.ID, &r.Description, &r.RequestorID, &createdNS)
	if err != nil {
		return nil, err
	}
	r.Created = time.Unix(0, createdNS)
	return r, nil
}

func scanRequests(rows *sql.Rows) ([]*models.ItemRequest, error) {
	var requests []*models.ItemRequest
	for rows.Next() {
		r, err := scanRequestRow(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan request: %w", err)
		}
		requests = append(requests, r)
	}
	return requests, rows.Err()
}
