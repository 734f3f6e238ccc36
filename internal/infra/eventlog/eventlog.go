// Package eventlog records an audit trail of budget lifecycle events.
// Events are queued on a bounded channel and persisted by a single
// background worker so request handlers never wait on the write.
package eventlog

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event types.
const (
	TypeBudgetCreated  = "budget.created"
	TypeBudgetDeleted  = "budget.deleted"
	TypeBudgetImported = "budget.imported"
)

// Event is a single audit record. Data is any JSON-encodable value; events
// read back from storage carry it as json.RawMessage.
type Event struct {
	ID        uuid.UUID         `json:"id"`
	Type      string            `json:"event_type"`
	Data      any               `json:"event_data,omitempty"`
	Metadata  map[string]string `json:"event_metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

type EventOption func(*Event)

func WithType(eventType string) EventOption {
	return func(e *Event) {
		e.Type = eventType
	}
}

func WithData(data any) EventOption {
	return func(e *Event) {
		e.Data = data
	}
}

func WithMetadata(key, value string) EventOption {
	return func(e *Event) {
		e.Metadata[key] = value
	}
}

// NewEvent stamps a fresh id and UTC time, then applies opts.
func NewEvent(opts ...EventOption) Event {
	e := Event{
		ID:        uuid.New(),
		CreatedAt: time.Now().UTC(),
		Metadata:  make(map[string]string),
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// EventLogger persists events. Both SQL stores implement it.
type EventLogger interface {
	SaveEvent(ctx context.Context, e Event) error
	EventsByType(ctx context.Context, eventType string) ([]Event, error)
}
