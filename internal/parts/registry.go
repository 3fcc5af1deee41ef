// Package parts holds the closed catalog of selectable chair parts and the
// single active selection the material pipeline writes to.
package parts

import (
	"errors"
	"fmt"
	"log/slog"

	"configurator/internal/event"
)

// ID names a configurable region of the model, e.g. "legs".
type ID string

// ErrSelectionIgnored is reported when a selection names a part outside the catalog.
var ErrSelectionIgnored = errors.New("selection ignored: unknown part")

// Entry is one row of the picker catalog.
type Entry struct {
	ID     ID
	Image  string
	Active bool
}

// Registry owns the ordered catalog and guarantees exactly one active entry.
// It is not safe for concurrent use; all calls happen on the main thread.
type Registry struct {
	entries []Entry
	active  int
	changed event.Event[Entry]
	logger  *slog.Logger
}

// New builds a registry from the catalog. The first entry becomes active
// regardless of the Active flags passed in. Listeners are registered and then
// notified once with the initial active entry.
func New(entries []Entry, logger *slog.Logger, listeners ...func(Entry)) (*Registry, error) {
	if len(entries) == 0 {
		return nil, errors.New("parts: empty catalog")
	}
	if logger == nil {
		logger = slog.Default()
	}

	seen := make(map[ID]struct{}, len(entries))
	r := &Registry{
		entries: make([]Entry, len(entries)),
		logger:  logger,
	}
	for i, e := range entries {
		if e.ID == "" {
			return nil, fmt.Errorf("parts: entry %d has no id", i)
		}
		if _, dup := seen[e.ID]; dup {
			return nil, fmt.Errorf("parts: duplicate id %q", e.ID)
		}
		seen[e.ID] = struct{}{}
		e.Active = i == 0
		r.entries[i] = e
	}

	for _, l := range listeners {
		r.changed.Subscribe(l)
	}
	r.changed.Emit(r.entries[r.active])
	return r, nil
}

// Select marks id as the only active entry and notifies subscribers, even if
// id was already active. Unknown ids leave the selection untouched and return false.
func (r *Registry) Select(id ID) bool {
	idx := r.index(id)
	if idx < 0 {
		r.logger.Debug("part selection ignored", slog.String("part", string(id)), slog.Any("reason", ErrSelectionIgnored))
		return false
	}

	r.entries[r.active].Active = false
	r.entries[idx].Active = true
	r.active = idx

	r.changed.Emit(r.entries[idx])
	return true
}

// Subscribe registers fn for every subsequent selection. It is not replayed
// with the current selection; call Active for that.
func (r *Registry) Subscribe(fn func(Entry)) {
	r.changed.Subscribe(fn)
}

// Active returns the currently active entry.
func (r *Registry) Active() Entry {
	return r.entries[r.active]
}

// IDs returns the part identifiers in definition order.
func (r *Registry) IDs() []ID {
	ids := make([]ID, len(r.entries))
	for i, e := range r.entries {
		ids[i] = e.ID
	}
	return ids
}

func (r *Registry) index(id ID) int {
	for i, e := range r.entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}
