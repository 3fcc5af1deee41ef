package scene

import (
	"errors"
	"sync"

	"configurator/internal/material"
	"configurator/internal/parts"
)

var ErrAlreadyPublished = errors.New("scene: model already published")

// Holder is the single model slot of a session. Publish happens once, after
// tagging is complete, so readers never see a half-tagged model.
type Holder struct {
	mu    sync.RWMutex
	model *Model
}

// Publish stores m. A session loads one model; a second publish is refused.
func (h *Holder) Publish(m *Model) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.model != nil {
		return ErrAlreadyPublished
	}
	h.model = m
	return nil
}

// Model returns the published model, or nil before load.
func (h *Holder) Model() *Model {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.model
}

func (h *Holder) Loaded() bool {
	return h.Model() != nil
}

// Apply reassigns part's material on the published model.
func (h *Holder) Apply(part parts.ID, d *material.Description) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return Apply(h.model, part, d)
}

// View runs fn with the published model under the read lock. fn is not
// called before load.
func (h *Holder) View(fn func(*Model)) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.model != nil {
		fn(h.model)
	}
}
