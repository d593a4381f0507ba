package store

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	appLog "calbook/internal/log"
	"calbook/internal/model"
)

// ErrNotFound is returned when an id resolves to no stored base event.
var ErrNotFound = errors.New("store: event not found")

// Gateway is the only path that mutates the Store. Every operation
// validates before touching state and persists synchronously after a
// successful change, so the store is never left partially updated.
//
// Occurrence ids are accepted everywhere a base id is: they resolve to
// the owning base event, so deleting one occurrence of a recurring
// series removes the whole series. There is no per-occurrence exception
// model.
type Gateway struct {
	store *Store
}

// NewGateway wraps a Store with its mutation interface.
func NewGateway(s *Store) *Gateway {
	return &Gateway{store: s}
}

// Create validates and normalizes the payload, assigns a fresh id,
// appends the event, and persists.
func (g *Gateway) Create(in model.Input) (model.BaseEvent, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return model.BaseEvent{}, err
	}

	ev := in.Event(uuid.NewString())

	g.store.mu.Lock()
	defer g.store.mu.Unlock()

	g.store.events = append(g.store.events, ev)
	if err := g.store.save(); err != nil {
		// Roll back the in-memory append so memory and disk agree.
		g.store.events = g.store.events[:len(g.store.events)-1]
		return model.BaseEvent{}, fmt.Errorf("store: persisting create: %w", err)
	}

	appLog.Info("event created", "id", ev.ID, "date", ev.Date, "recurrence", ev.Recurrence)
	return ev, nil
}

// Update resolves id (base or occurrence) to its base event, merges the
// patch, validates the merged result, and persists. Other events are
// never touched.
func (g *Gateway) Update(id string, patch model.Patch) (model.BaseEvent, error) {
	g.store.mu.Lock()
	defer g.store.mu.Unlock()

	idx, err := g.resolveLocked(id)
	if err != nil {
		return model.BaseEvent{}, err
	}

	merged := patch.Apply(g.store.events[idx])
	in := model.InputOf(merged).Normalize()
	if verr := in.Validate(); verr != nil {
		return model.BaseEvent{}, verr
	}
	merged = in.Event(merged.ID)

	prev := g.store.events[idx]
	g.store.events[idx] = merged
	if err := g.store.save(); err != nil {
		g.store.events[idx] = prev
		return model.BaseEvent{}, fmt.Errorf("store: persisting update: %w", err)
	}

	appLog.Info("event updated", "id", merged.ID)
	return merged, nil
}

// Delete resolves id to its base event and removes it, which removes
// every occurrence of the series from subsequent reads.
func (g *Gateway) Delete(id string) error {
	g.store.mu.Lock()
	defer g.store.mu.Unlock()

	idx, err := g.resolveLocked(id)
	if err != nil {
		return err
	}

	removed := g.store.events[idx]
	events := make([]model.BaseEvent, 0, len(g.store.events)-1)
	events = append(events, g.store.events[:idx]...)
	events = append(events, g.store.events[idx+1:]...)

	prev := g.store.events
	g.store.events = events
	if err := g.store.save(); err != nil {
		g.store.events = prev
		return fmt.Errorf("store: persisting delete: %w", err)
	}

	appLog.Info("event deleted", "id", removed.ID, "recurrence", removed.Recurrence)
	return nil
}

// DragMove relocates an event to targetDate. Because ids resolve to the
// base event, moving any occurrence of a recurring series moves the
// series anchor, not just that instance.
func (g *Gateway) DragMove(id, targetDate string) (model.BaseEvent, error) {
	if _, err := model.ParseDate(targetDate); err != nil {
		return model.BaseEvent{}, &model.ValidationError{Issues: []string{"target date must be yyyy-MM-dd"}}
	}
	return g.Update(id, model.Patch{Date: &targetDate})
}

// Resolve maps a base or occurrence id to the stored base event.
func (g *Gateway) Resolve(id string) (model.BaseEvent, error) {
	g.store.mu.Lock()
	defer g.store.mu.Unlock()

	idx, err := g.resolveLocked(id)
	if err != nil {
		return model.BaseEvent{}, err
	}
	return g.store.events[idx], nil
}

// resolveLocked finds the index of the base event named by id. An exact
// id match wins; otherwise a synthesized occurrence suffix is stripped
// and the remainder looked up. Callers must hold the store mutex.
func (g *Gateway) resolveLocked(id string) (int, error) {
	for i, ev := range g.store.events {
		if ev.ID == id {
			return i, nil
		}
	}
	if base := model.BaseIDOf(id); base != id {
		for i, ev := range g.store.events {
			if ev.ID == base {
				return i, nil
			}
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrNotFound, id)
}
