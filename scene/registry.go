// Copyright © 2025 Scenecast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: scene/registry.go
// Summary: The scene registry: scene lifecycle, lookup, and the process-wide event stream.
// Usage: Construct one Registry per compositor and pass it explicitly; there are no package globals.

package scene

import (
	"fmt"
	"sync"
)

// Registry owns the sceneId -> Scene mapping and the shared collaborators.
// All operations on owned scenes serialize on the registry lock, so the
// validate -> engine call -> mutate -> publish sequence of one operation
// never interleaves with another.
type Registry struct {
	mu         sync.Mutex
	ids        IdGenerator
	sources    SourceRegistry
	engine     CompositorEngine
	dispatcher *EventDispatcher

	scenes map[string]*Scene
	order  []string

	restorePolicy RestorePolicy
}

// RegistryOption configures NewRegistry.
type RegistryOption func(*Registry)

// WithIdGenerator injects the id allocator; the default is random uuids.
func WithIdGenerator(ids IdGenerator) RegistryOption {
	return func(r *Registry) { r.ids = ids }
}

// WithRestorePolicy controls how AddSources treats unresolvable sources.
func WithRestorePolicy(policy RestorePolicy) RegistryOption {
	return func(r *Registry) { r.restorePolicy = policy }
}

// NewRegistry creates a registry bound to the given source registry and
// compositor engine.
func NewRegistry(sources SourceRegistry, engine CompositorEngine, opts ...RegistryOption) *Registry {
	r := &Registry{
		ids:           NewUUIDGenerator(),
		sources:       sources,
		engine:        engine,
		dispatcher:    NewEventDispatcher(),
		scenes:        make(map[string]*Scene),
		restorePolicy: RestoreSkipUnresolved,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SceneOption configures CreateScene.
type SceneOption func(*sceneOptions)

type sceneOptions struct {
	sceneID string
}

// WithSceneID pins the new scene's id instead of allocating one. Restore
// paths use this to recreate scenes under their persisted ids.
func WithSceneID(id string) SceneOption {
	return func(o *sceneOptions) { o.sceneID = id }
}

// CreateScene allocates an id, obtains the matching engine-side scene handle,
// and registers an empty scene.
func (r *Registry) CreateScene(name string, opts ...SceneOption) (*Scene, error) {
	var o sceneOptions
	for _, opt := range opts {
		opt(&o)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id := o.sceneID
	if id == "" {
		id = r.ids.Next()
	}
	if _, exists := r.scenes[id]; exists {
		return nil, fmt.Errorf("scene %q: %w", id, ErrDuplicateID)
	}
	handle, err := r.engine.SceneHandleFor(name)
	if err != nil {
		return nil, engineDesync("SceneHandleFor", err)
	}
	sc := &Scene{
		registry: r,
		id:       id,
		name:     name,
		engine:   handle,
		items:    make([]*SceneItem, 0),
	}
	r.applyCreateScene(sc)
	return sc, nil
}

// RemoveScene destroys a scene. Unless force is set, removal is refused with
// ErrInUse while any item in any other scene still references the scene as a
// nested source, so no dangling nested references are left behind.
func (r *Registry) RemoveScene(sceneID string, force bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sc, ok := r.scenes[sceneID]
	if !ok {
		return fmt.Errorf("scene %q: %w", sceneID, ErrNotFound)
	}
	if !force {
		if holder := r.nestingHolderLocked(sceneID); holder != nil {
			return fmt.Errorf("scene %q is nested in scene %q: %w", sceneID, holder.id, ErrInUse)
		}
	}
	if err := sc.engine.Release(); err != nil {
		return engineDesync("Release", err)
	}
	r.applyRemoveScene(sceneID)
	return nil
}

// nestingHolderLocked returns a scene holding an item that references
// sceneID as a nested source, or nil when none does.
func (r *Registry) nestingHolderLocked(sceneID string) *Scene {
	for _, sc := range r.scenes {
		if sc.id == sceneID {
			continue
		}
		for _, item := range sc.items {
			if item.sourceID != sceneID {
				continue
			}
			src := r.sources.GetSource(item.sourceID)
			if src != nil && src.Kind == KindScene {
				return sc
			}
		}
	}
	return nil
}

// GetScene returns the scene with the given id, or nil if unknown.
func (r *Registry) GetScene(sceneID string) *Scene {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.scenes[sceneID]
}

// Scenes returns all scenes in creation order.
func (r *Registry) Scenes() []*Scene {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Scene, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.scenes[id])
	}
	return out
}

// Subscribe attaches a listener to the process-wide event stream carrying
// item-added/item-removed events from every owned scene.
func (r *Registry) Subscribe(listener Listener) {
	r.dispatcher.Subscribe(listener)
}

// Unsubscribe detaches a listener.
func (r *Registry) Unsubscribe(listener Listener) {
	r.dispatcher.Unsubscribe(listener)
}
