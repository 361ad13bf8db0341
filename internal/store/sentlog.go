// Package store holds the file-backed durable records: the sent
// reminder log and the quote subscriber registry. Both are whole-file
// JSON documents under the data directory, rewritten on every mutation.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/toogather/wabot/internal/domain/apperr"
)

const sentRemindersFile = "sentReminders.json"

// SentReminderLog is the append-only set of event IDs that already
// triggered a reminder. IDs are never removed; the set only grows for
// the lifetime of the data directory.
type SentReminderLog struct {
	mu   sync.Mutex
	path string
	ids  []string
	seen map[string]struct{}
}

// OpenSentReminderLog loads the log from dataDir, creating an empty log
// when the file does not exist yet.
func OpenSentReminderLog(dataDir string) (*SentReminderLog, error) {
	l := &SentReminderLog{
		path: filepath.Join(dataDir, sentRemindersFile),
		seen: make(map[string]struct{}),
	}

	data, err := os.ReadFile(l.path)
	if os.IsNotExist(err) {
		return l, nil
	}
	if err != nil {
		return nil, apperr.Persistence("read sent reminders: %v", err)
	}

	if err := json.Unmarshal(data, &l.ids); err != nil {
		return nil, apperr.Persistence("decode sent reminders: %v", err)
	}
	for _, id := range l.ids {
		l.seen[id] = struct{}{}
	}
	return l, nil
}

func (l *SentReminderLog) Contains(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, ok := l.seen[id]
	return ok
}

// Append records id and flushes the whole file before returning. If the
// flush fails the in-memory set is rolled back, so the caller must not
// treat the reminder as sent.
func (l *SentReminderLog) Append(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.seen[id]; ok {
		return nil
	}

	l.ids = append(l.ids, id)
	if err := writeJSONFile(l.path, l.ids); err != nil {
		l.ids = l.ids[:len(l.ids)-1]
		return apperr.Persistence("flush sent reminders: %v", err)
	}

	l.seen[id] = struct{}{}
	return nil
}

func (l *SentReminderLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.ids)
}

func writeJSONFile(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
