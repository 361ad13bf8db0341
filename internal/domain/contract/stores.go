package contract

import "github.com/toogather/wabot/internal/domain/entity"

// SentLog is the append-only set of event IDs already notified.
type SentLog interface {
	Contains(id string) bool

	// Append records id and flushes to durable storage before
	// returning. Appending an already-present id is a no-op.
	Append(id string) error
}

// SubscriberStore is the persisted quote-broadcast membership list.
type SubscriberStore interface {
	// Add returns true if id was newly added, false if already present.
	Add(kind, id string) (bool, error)

	// Remove is idempotent; removing an absent id is a no-op.
	Remove(kind, id string) error

	// All returns a snapshot of the full registry.
	All() (entity.Subscribers, error)
}
