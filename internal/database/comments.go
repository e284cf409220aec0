package database

import (
	"context"
	"fmt"
	"time"

	"shareit/internal/models"
)

func (db *DB) CreateComment(ctx context.Context, comment *models.Comment) error {
	query := `INSERT INTO comments (text, item_id, author_id, created_ns)
              VALUES (?, ?, ?, ?)`
	result, err := db.ExecContext(ctx, query,
		comment.Text,
		comment.ItemID,
		comment.AuthorID,
		comment.Created.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	comment.ID = id
	return nil
}

// ListItemComments returns item comments newest first, with the author
// name resolved for display.
func (db *DB) ListItemComments(ctx context.Context, itemID int64) ([]models.Comment, error) {
	query := `SELECT c.id, c.text, c.item_id, c.author_id, COALESCE(u.name, ''), c.created_ns
              FROM comments c LEFT JOIN users u ON c.author_id = u.id
              WHERE c.item_id = ?
              ORDER BY c.created_ns DESC, c.id DESC`
	rows, err := db.QueryContext(ctx, query, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var c models.Comment
		var createdNS int64
		err := rows.Scan(&c.ID, &c.Text, &c.ItemID, &c.AuthorID, &c.AuthorName, &createdNS)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		c.Created = time.Unix(0, createdNS)
		comments = append(comments, c)
	}
	return comments, rows.Err()
}
