package store

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	appLog "calbook/internal/log"
	"calbook/internal/model"
)

// storageKey names the event array inside the persisted document,
// matching the single-key layout the data has always used.
const storageKey = "calendar-events"

// Store owns the collection of base events and keeps it synchronized
// with a JSON document on disk. Reads hand out copies; the Gateway is
// the only mutation path.
//
// A single logical actor drives the store, but a mutex guards it anyway
// because watch mode re-reads from a scheduler goroutine.
type Store struct {
	mu     sync.Mutex
	path   string
	events []model.BaseEvent
}

// Open loads the store backing file at path. A missing, empty, or
// malformed file yields an empty store: losing a corrupt payload is
// preferred over refusing to start, but it is logged loudly since it
// can mean silent data loss. Any other read failure is returned as is.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("store: path is empty")
	}

	s := &Store{path: path, events: []model.BaseEvent{}}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}
		return nil, err
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		appLog.Warn("store: malformed backing file, starting empty", "path", path, "parse_err", err)
		return s, nil
	}

	raw, ok := doc[storageKey]
	if !ok {
		appLog.Warn("store: backing file has no event array, starting empty", "path", path, "key", storageKey)
		return s, nil
	}

	var events []model.BaseEvent
	if err := json.Unmarshal(raw, &events); err != nil {
		appLog.Warn("store: unreadable event array, starting empty", "path", path, "parse_err", err)
		return s, nil
	}

	s.events = events
	appLog.Info("store: loaded", "path", path, "event_count", len(events))
	return s, nil
}

// Path returns the backing file location.
func (s *Store) Path() string {
	return s.path
}

// Events returns a copy of the current base events in insertion order.
func (s *Store) Events() []model.BaseEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.BaseEvent, len(s.events))
	copy(out, s.events)
	return out
}

// Len reports how many base events are stored.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

// save writes the full event array to disk. Callers must hold s.mu.
//
// Atomic write: marshal, write a temp file in the same directory, then
// rename over the target. A crashed write never leaves a half document.
func (s *Store) save() error {
	doc := map[string][]model.BaseEvent{storageKey: s.events}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".calbook-events-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, s.path)
}
