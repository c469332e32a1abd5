// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package registry tracks the models available on the Ollama server and
// which one is active.
//
// The registry is refreshed wholesale from /api/tags. A model may only be
// active if it appeared in the last successful listing; failed refreshes
// never mutate previously held state.
package registry

import (
	"context"
	"errors"
	"sync"

	"github.com/morganforge/ollamamate/internal/ollama"
)

// ErrUnknownModel is returned when selecting a model that is not present in
// the current listing.
var ErrUnknownModel = errors.New("unknown model")

// =============================================================================
// REGISTRY
// =============================================================================

// Registry holds the list of available model identifiers and the active
// selection.
//
// Thread-safe: refreshes run from background commands while the UI reads
// the current state.
type Registry struct {
	mu     sync.RWMutex
	client *ollama.Client
	models []ollama.ModelInfo
	active string
}

// New creates a registry backed by the given client.
func New(client *ollama.Client) *Registry {
	return &Registry{client: client}
}

// Refresh fetches the model listing and replaces the held list wholesale.
//
// On success, if the previous active model is still present it is
// preserved; otherwise the first entry (or nothing, for an empty listing)
// becomes active. On failure the classified error is returned and prior
// state is left untouched.
func (r *Registry) Refresh(ctx context.Context) error {
	models, err := r.client.ListModels(ctx)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.models = models

	if r.active != "" && containsModel(models, r.active) {
		return nil
	}
	if len(models) > 0 {
		r.active = models[0].Name
	} else {
		r.active = ""
	}
	return nil
}

// Select makes the named model active. Returns ErrUnknownModel if the name
// is not in the current listing.
func (r *Registry) Select(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !containsModel(r.models, name) {
		return ErrUnknownModel
	}
	r.active = name
	return nil
}

// SelectNext cycles the active model to the next entry in the listing.
// A no-op when fewer than two models are available.
func (r *Registry) SelectNext() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.models) < 2 {
		return
	}
	for i, m := range r.models {
		if m.Name == r.active {
			r.active = r.models[(i+1)%len(r.models)].Name
			return
		}
	}
	r.active = r.models[0].Name
}

// Active returns the active model name, or "" when none is selected.
func (r *Registry) Active() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.active
}

// Models returns the current listing.
func (r *Registry) Models() []ollama.ModelInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ollama.ModelInfo, len(r.models))
	copy(out, r.models)
	return out
}

// Names returns the model names in listing order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.models))
	for i, m := range r.models {
		names[i] = m.Name
	}
	return names
}

// HasModels reports whether the last successful listing was non-empty.
func (r *Registry) HasModels() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.models) > 0
}

// =============================================================================
// HELPERS
// =============================================================================

func containsModel(models []ollama.ModelInfo, name string) bool {
	for _, m := range models {
		if m.Name == name {
			return true
		}
	}
	return false
}
