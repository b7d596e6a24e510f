// Package events publishes ledger domain events to a message broker.
package events

import (
	"context"
	"time"
)

// Event types, used as routing keys on the topic exchange.
const (
	ExpenseCreated = "expense.created"
	ExpenseUpdated = "expense.updated"
	ExpenseDeleted = "expense.deleted"
	CoupleCreated  = "couple.created"
)

// Event is the JSON envelope published for every ledger mutation.
// Consumers fetch full records by ID; the envelope only carries references.
type Event struct {
	Type       string    `json:"type"`
	CoupleID   string    `json:"coupleId"`
	ExpenseID  string    `json:"expenseId,omitempty"`
	ActorID    string    `json:"actorId"`
	Version    int64     `json:"version,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// New builds an event stamped with the current time.
func New(eventType, coupleID, expenseID, actorID string, version int64) Event {
	return Event{
		Type:       eventType,
		CoupleID:   coupleID,
		ExpenseID:  expenseID,
		ActorID:    actorID,
		Version:    version,
		OccurredAt: time.Now().UTC(),
	}
}

// Publisher delivers events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// Noop discards events. Used when no broker is configured.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
func (Noop) Close() error                        { return nil }
