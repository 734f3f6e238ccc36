package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/budgetlens/budgetlens/internal/infra/eventlog"
)

// SaveEvent persists an audit event.
func (db *DB) SaveEvent(ctx context.Context, e eventlog.Event) error {
	data, err := json.Marshal(e.Data)
	if err != nil {
		return fmt.Errorf("encode event data: %w", err)
	}
	metadata, err := json.Marshal(e.Metadata)
	if err != nil {
		return fmt.Errorf("encode event metadata: %w", err)
	}
	_, err = db.db.ExecContext(ctx, `
		INSERT INTO events (id, event_type, event_data, event_metadata, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, e.ID.String(), e.Type, string(data), string(metadata), e.CreatedAt.UTC().Format(timeLayout))
	return err
}

// EventsByType returns events of eventType, oldest first.
func (db *DB) EventsByType(ctx context.Context, eventType string) ([]eventlog.Event, error) {
	rows, err := db.db.QueryContext(ctx, `
		SELECT id, event_type, event_data, event_metadata, created_at
		FROM events WHERE event_type = ? ORDER BY created_at
	`, eventType)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	events := make([]eventlog.Event, 0)
	for rows.Next() {
		var (
			e         eventlog.Event
			id        string
			data      string
			metadata  string
			createdAt string
		)
		if err := rows.Scan(&id, &e.Type, &data, &metadata, &createdAt); err != nil {
			return events, err
		}
		if err := e.ID.UnmarshalText([]byte(id)); err != nil {
			return events, fmt.Errorf("event id %q: %w", id, err)
		}
		e.Data = json.RawMessage(data)
		if err := json.Unmarshal([]byte(metadata), &e.Metadata); err != nil {
			return events, fmt.Errorf("event %s metadata: %w", id, err)
		}
		if e.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return events, fmt.Errorf("event %s created_at: %w", id, err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
