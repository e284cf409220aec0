package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"shareit/internal/models"
)

func (db *DB) CreateItem(ctx context.Context, item *models.Item) error {
	query := `INSERT INTO items (name, description, available, owner_id, request_id)
              VALUES (?, ?, ?, ?, ?)`
	result, err := db.ExecContext(ctx, query,
		item.Name,
		item.Description,
		item.Available,
		item.OwnerID,
		item.RequestID,
	)
	if err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	item.ID = id
	return nil
}

func (db *DB) GetItem(ctx context.Context, id int64) (*models.Item, error) {
	var item models.Item
	query := `SELECT id, name, description, available, owner_id, request_id
              FROM items WHERE id = ?`
	err := db.QueryRowContext(ctx, query, id).Scan(
		&item.ID, &item.Name, &item.Description, &item.Available,
		&item.OwnerID, &item.RequestID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return &item, nil
}

func (db *DB) GetItemsByOwner(ctx context.Context, ownerID int64, limit, offset int) ([]*models.Item, error) {
	query := `SELECT id, name, description, available, owner_id, request_id
              FROM items WHERE owner_id = ? ORDER BY id LIMIT ? OFFSET ?`
	rows, err := db.QueryContext(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get items by owner: %w", err)
	}
	defer rows.Close()
	return scanItems(rows)
}

func (db *DB) UpdateItem(ctx context.Context, item *models.Item) error {
	query := `UPDATE items SET name = ?, description = ?, available = ?, request_id = ? WHERE id = ?`
	result, err := db.ExecContext(ctx, query,
		item.Name, item.Description, item.Available, item.RequestID, item.ID)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *DB) DeleteItem(ctx context.Context, id int64) error {
	_, err := db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	return nil
}

// SearchItems matches the text against item names and descriptions,
// case-insensitively, available items only.
func (db *DB) SearchItems(ctx context.Context, text string, limit, offset int) ([]*models.Item, error) {
	pattern := "%" + text + "%"
	query := `SELECT id, name, description, available, owner_id, request_id
              FROM items
              WHERE available = 1 AND (name LIKE ? OR description LIKE ?)
              ORDER BY id LIMIT ? OFFSET ?`
	rows, err := db.QueryContext(ctx, query, pattern, pattern, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to search items: %w", err)
	}
	defer rows.Close()
	return scanItems(rows)
}

func (db *DB) GetItemsByRequest(ctx context.Context, requestID int64) ([]*models.Item, error) {
	query := `SELECT id, name, description, available, owner_id, request_id
              FROM items WHERE request_id = ? ORDER BY id`
	rows, err := db.QueryContext(ctx, query, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to get items by request: %w", err)
	}
	defer rows.Close()
	return scanItems(rows)
}

func scanItems(rows *sql.Rows) ([]*models.Item, error) {
	var items []*models.Item
	for rows.Next() {
		i := &models.Item{}
		err := rows.Scan(&i.ID, &i.Name, &i.Description, &i.Available, &i.OwnerID, &i.RequestID)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, i)
	}
	return items, rows.Err()
}
