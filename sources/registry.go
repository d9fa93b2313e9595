// Copyright © 2025 Scenecast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: sources/registry.go
// Summary: In-memory source registry backing the scene graph's SourceRegistry contract.
// Usage: Applications register capture/media sources here; scenes resolve them by id.

package sources

import (
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/framegrace/scenecast/scene"
)

// Registry manages the collection of available sources.
type Registry struct {
	mu      sync.RWMutex
	ids     scene.IdGenerator
	sources map[string]*scene.Source
}

// New creates a new empty registry using the given id allocator.
func New(ids scene.IdGenerator) *Registry {
	return &Registry{
		ids:     ids,
		sources: make(map[string]*scene.Source),
	}
}

// GetSource resolves a source id. Returns a copy so callers cannot alias the
// registry's record; nil when unknown.
func (r *Registry) GetSource(id string) *scene.Source {
	r.mu.RLock()
	defer r.mu.RUnlock()
	src, ok := r.sources[id]
	if !ok {
		return nil
	}
	out := *src
	return &out
}

// CreateSource registers a new source under a fresh id.
func (r *Registry) CreateSource(name string, kind scene.SourceKind, settings scene.Settings) (*scene.Source, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	src := &scene.Source{
		ID:       r.ids.Next(),
		Name:     name,
		Kind:     kind,
		Settings: settings,
	}
	r.sources[src.ID] = src
	log.Printf("Sources: Registered %s source '%s' (%s)", src.Kind, src.Name, src.ID)
	out := *src
	return &out, nil
}

// RegisterScene registers (or refreshes) the scene-typed source descriptor
// for a scene, keyed by the scene's own id. Nesting one scene inside another
// goes through this descriptor.
func (r *Registry) RegisterScene(sceneID, name string) *scene.Source {
	r.mu.Lock()
	defer r.mu.Unlock()
	src := &scene.Source{ID: sceneID, Name: name, Kind: scene.KindScene}
	r.sources[sceneID] = src
	log.Printf("Sources: Registered scene source '%s' (%s)", name, sceneID)
	out := *src
	return &out
}

// Remove deletes a source descriptor. Items already referencing the id keep
// their reference; subsequent resolution simply fails.
func (r *Registry) Remove(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sources[id]; !ok {
		return fmt.Errorf("source %q: %w", id, scene.ErrNotFound)
	}
	delete(r.sources, id)
	return nil
}

// List returns all sources sorted by name.
func (r *Registry) List() []*scene.Source {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*scene.Source, 0, len(r.sources))
	for _, src := range r.sources {
		cp := *src
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}

// Count returns the number of registered sources.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sources)
}
