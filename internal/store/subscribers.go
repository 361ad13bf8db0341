package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/toogather/wabot/internal/domain/apperr"
	"github.com/toogather/wabot/internal/domain/entity"
)

const subscribersFile = "subscribers.json"

// Subscriber kinds.
const (
	KindGroup = "group"
	KindUser  = "user"
)

// SubscriberRegistry persists the quote-broadcast membership list as a
// single JSON record. Every mutation reads the full record, applies the
// change and writes the record back (last writer wins).
type SubscriberRegistry struct {
	mu   sync.Mutex
	path string
}

func OpenSubscriberRegistry(dataDir string) *SubscriberRegistry {
	return &SubscriberRegistry{path: filepath.Join(dataDir, subscribersFile)}
}

// Add returns true when id was newly added, false when it was already
// subscribed.
func (r *SubscriberRegistry) Add(kind, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	subs, err := r.load()
	if err != nil {
		return false, err
	}

	members, err := membersFor(&subs, kind)
	if err != nil {
		return false, err
	}
	if contains(*members, id) {
		return false, nil
	}

	*members = append(*members, id)
	if err := writeJSONFile(r.path, subs); err != nil {
		return false, apperr.Persistence("flush subscribers: %v", err)
	}
	return true, nil
}

// Remove is idempotent; removing an absent id is a no-op.
func (r *SubscriberRegistry) Remove(kind, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	subs, err := r.load()
	if err != nil {
		return err
	}

	members, err := membersFor(&subs, kind)
	if err != nil {
		return err
	}

	kept := (*members)[:0]
	for _, member := range *members {
		if member != id {
			kept = append(kept, member)
		}
	}
	if len(kept) == len(*members) {
		return nil
	}
	*members = kept

	if err := writeJSONFile(r.path, subs); err != nil {
		return apperr.Persistence("flush subscribers: %v", err)
	}
	return nil
}

// All returns a snapshot of the registry.
func (r *SubscriberRegistry) All() (entity.Subscribers, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.load()
}

func (r *SubscriberRegistry) load() (entity.Subscribers, error) {
	var subs entity.Subscribers

	data, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		return subs, nil
	}
	if err != nil {
		return subs, apperr.Persistence("read subscribers: %v", err)
	}

	if err := json.Unmarshal(data, &subs); err != nil {
		return subs, apperr.Persistence("decode subscribers: %v", err)
	}
	return subs, nil
}

func membersFor(subs *entity.Subscribers, kind string) (*[]string, error) {
	switch kind {
	case KindGroup:
		return &subs.Groups, nil
	case KindUser:
		return &subs.Users, nil
	default:
		return nil, fmt.Errorf("unknown subscriber kind %q", kind)
	}
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
