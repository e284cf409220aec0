package database

import (
	"context"
	"fmt"
	"time"
)

// AuditEntry is one processed domain event kept for traceability.
type AuditEntry struct {
	ID        int64
	EventType string
	Payload   string
	CreatedAt time.Time
}

func (db *DB) InsertAuditEntry(ctx context.Context, entry *AuditEntry) error {
	query := `INSERT INTO audit_log (event_type, payload, created_ns) VALUES (?, ?, ?)`
	result, err := db.ExecContext(ctx, query, entry.EventType, entry.Payload, entry.CreatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to insert audit entry: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	entry.ID = id
	return nil
}

func (db *DB) ListAuditEntries(ctx context.Context, eventType string, limit int) ([]*AuditEntry, error) {
	query := `SELECT id, event_type, payload, created_ns
              FROM audit_log WHERE event_type = ?
              ORDER BY created_ns DESC, id DESC LIMIT ?`
	rows, err := db.QueryContext(ctx, query, eventType, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []*AuditEntry
	for rows.Next() {
		e := &AuditEntry{}
		var createdNS int64
		if err := rows.Scan(&e.ID, &e.EventType, &e.Payload, &createdNS); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		e.CreatedAt = time.Unix(0, createdNS)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
