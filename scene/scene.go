// Copyright © 2025 Scenecast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: scene/scene.go
// Summary: Scene operations: item add/remove, activation, locking, ordering, and the nesting-cycle check.
// Usage: All canonical scene state changes funnel through the operations defined here.

package scene

import (
	"fmt"
	"log"
)

// Scene is a named, ordered collection of item placements. Index 0 of items
// is the topmost placement (most recently added). Scenes are owned by a
// Registry and share its execution lock.
type Scene struct {
	registry *Registry
	id       string
	name     string
	engine   EngineScene

	items        []*SceneItem
	activeItemID string
}

func (s *Scene) ID() string   { return s.id }
func (s *Scene) Name() string { return s.name }

// Items returns the items in stacking order (topmost first). The slice is a
// copy; the records are live and must not be mutated by callers.
func (s *Scene) Items() []*SceneItem {
	s.registry.mu.Lock()
	defer s.registry.mu.Unlock()
	out := make([]*SceneItem, len(s.items))
	copy(out, s.items)
	return out
}

// ItemIDs returns the current item ids in stacking order.
func (s *Scene) ItemIDs() []string {
	s.registry.mu.Lock()
	defer s.registry.mu.Unlock()
	return s.itemIDsLocked()
}

func (s *Scene) itemIDsLocked() []string {
	ids := make([]string, len(s.items))
	for i, item := range s.items {
		ids[i] = item.id
	}
	return ids
}

// GetItem returns the item with the given id, or nil if absent.
func (s *Scene) GetItem(itemID string) *SceneItem {
	s.registry.mu.Lock()
	defer s.registry.mu.Unlock()
	return s.findItemLocked(itemID)
}

// ActiveItemID returns the id of the active item, or "" when none is active.
func (s *Scene) ActiveItemID() string {
	s.registry.mu.Lock()
	defer s.registry.mu.Unlock()
	return s.activeItemID
}

// Snapshots returns detached copies of all items in stacking order.
func (s *Scene) Snapshots() []ItemSnapshot {
	s.registry.mu.Lock()
	defer s.registry.mu.Unlock()
	snaps := make([]ItemSnapshot, len(s.items))
	for i, item := range s.items {
		snaps[i] = item.Snapshot()
	}
	return snaps
}

func (s *Scene) findItemLocked(itemID string) *SceneItem {
	for _, item := range s.items {
		if item.id == itemID {
			return item
		}
	}
	return nil
}

// AddOption configures AddSource.
type AddOption func(*addOptions)

type addOptions struct {
	itemID string
}

// WithItemID pins the new item's id instead of allocating one. The id must
// not collide with an existing item in the scene.
func WithItemID(id string) AddOption {
	return func(o *addOptions) { o.itemID = id }
}

// AddSource places the given source into the scene. The new item lands at
// the top of the stack with default transform, becomes the active item, and
// an item-added event is published. Scene-typed sources are refused with
// ErrCycleDetected when the addition would close a nesting cycle.
func (s *Scene) AddSource(sourceID string, opts ...AddOption) (*SceneItem, error) {
	var o addOptions
	for _, opt := range opts {
		opt(&o)
	}

	r := s.registry
	r.mu.Lock()
	item, err := s.addSourceLocked(sourceID, o)
	r.mu.Unlock()
	if err != nil {
		return nil, err
	}
	r.dispatcher.Broadcast(Event{Type: EventItemAdded, Item: item.Snapshot()})
	return item, nil
}

func (s *Scene) addSourceLocked(sourceID string, o addOptions) (*SceneItem, error) {
	r := s.registry
	src := r.sources.GetSource(sourceID)
	if src == nil {
		return nil, fmt.Errorf("source %q: %w", sourceID, ErrNotFound)
	}
	if o.itemID != "" && s.findItemLocked(o.itemID) != nil {
		return nil, fmt.Errorf("item %q: %w", o.itemID, ErrDuplicateID)
	}
	if src.Kind == KindScene && !s.canAddSourceLocked(src) {
		return nil, fmt.Errorf("adding scene %q to scene %q: %w", src.ID, s.id, ErrCycleDetected)
	}

	// Engine first, canonical state second: a failed engine call must leave
	// the model untouched.
	placement, err := s.engine.AddPlacement(src.ID)
	if err != nil {
		return nil, engineDesync("AddPlacement", err)
	}
	itemID := o.itemID
	if itemID == "" {
		itemID = r.ids.Next()
	}
	if err := s.selectExclusivelyLocked(itemID, placement); err != nil {
		return nil, err
	}

	item := newSceneItem(s, itemID, src.ID, placement)
	s.applyAddItem(item, true)
	s.applySetActive(itemID)
	return item, nil
}

// CreateAndAddSource registers a new source and places it in one step.
func (s *Scene) CreateAndAddSource(name string, kind SourceKind, settings Settings) (*SceneItem, error) {
	src, err := s.registry.sources.CreateSource(name, kind, settings)
	if err != nil {
		return nil, err
	}
	return s.AddSource(src.ID)
}

// RemoveItem destroys the item's engine placement and deletes the canonical
// record. The active pointer is cleared when it referenced the removed item.
// Publishes an item-removed event carrying the pre-removal snapshot.
func (s *Scene) RemoveItem(itemID string) error {
	r := s.registry
	r.mu.Lock()
	item := s.findItemLocked(itemID)
	if item == nil {
		r.mu.Unlock()
		return fmt.Errorf("item %q: %w", itemID, ErrNotFound)
	}
	snap := item.Snapshot()
	if err := item.placement.Remove(); err != nil {
		r.mu.Unlock()
		return engineDesync("Remove", err)
	}
	s.applyRemoveItem(itemID)
	r.mu.Unlock()

	r.dispatcher.Broadcast(Event{Type: EventItemRemoved, Item: snap})
	return nil
}

// MakeItemActive marks exactly one item as selected, both canonically and in
// the engine. An id not present in the scene is rejected with ErrNotFound so
// the active pointer can never dangle.
func (s *Scene) MakeItemActive(itemID string) error {
	s.registry.mu.Lock()
	defer s.registry.mu.Unlock()

	target := s.findItemLocked(itemID)
	if target == nil {
		return fmt.Errorf("item %q: %w", itemID, ErrNotFound)
	}
	if err := s.selectExclusivelyLocked(itemID, nil); err != nil {
		return err
	}
	s.applySetActive(itemID)
	return nil
}

// selectExclusivelyLocked drives the engine-side selected flag: true for the
// placement matching activeID (or the pending placement not yet in items),
// false for everything else.
func (s *Scene) selectExclusivelyLocked(activeID string, pending EnginePlacement) error {
	if pending != nil {
		if err := pending.SetSelected(true); err != nil {
			return engineDesync("SetSelected", err)
		}
	}
	for _, item := range s.items {
		if err := item.placement.SetSelected(item.id == activeID); err != nil {
			return engineDesync("SetSelected", err)
		}
	}
	return nil
}

// SetLockOnAllItems sets the locked flag on every item in the scene. This
// touches canonical state only; the engine has no lock concept.
func (s *Scene) SetLockOnAllItems(locked bool) {
	s.registry.mu.Lock()
	defer s.registry.mu.Unlock()
	for _, item := range s.items {
		s.applySetLock(item.id, locked)
	}
}

// SetSourceOrder reorders the scene to match newOrder exactly. newOrder must
// be a permutation of the current item ids; anything else fails with
// ErrInvalidOrder and leaves the scene untouched. Matching move instructions
// are issued to the engine so both orderings agree.
func (s *Scene) SetSourceOrder(newOrder []string) error {
	s.registry.mu.Lock()
	defer s.registry.mu.Unlock()
	return s.setSourceOrderLocked(newOrder)
}

func (s *Scene) setSourceOrderLocked(newOrder []string) error {
	if len(newOrder) != len(s.items) {
		return fmt.Errorf("got %d ids, scene has %d items: %w", len(newOrder), len(s.items), ErrInvalidOrder)
	}
	current := make(map[string]bool, len(s.items))
	for _, item := range s.items {
		current[item.id] = true
	}
	seen := make(map[string]bool, len(newOrder))
	for _, id := range newOrder {
		if !current[id] || seen[id] {
			return fmt.Errorf("id %q: %w", id, ErrInvalidOrder)
		}
		seen[id] = true
	}

	// Derive engine moves by replaying the permutation over a shadow of the
	// current order.
	shadow := s.itemIDsLocked()
	for target, id := range newOrder {
		from := -1
		for i, cur := range shadow {
			if cur == id {
				from = i
				break
			}
		}
		if from == target {
			continue
		}
		if err := s.engine.MovePlacement(from, target); err != nil {
			return engineDesync("MovePlacement", err)
		}
		shadow = append(shadow[:from], shadow[from+1:]...)
		rest := append([]string{id}, shadow[target:]...)
		shadow = append(shadow[:target], rest...)
	}

	s.applySetOrder(newOrder)
	return nil
}

// MoveItem shifts one item by delta stacking positions (negative is toward
// the top). It is a convenience over SetSourceOrder; the resulting full
// order remains the single source of truth.
func (s *Scene) MoveItem(itemID string, delta int) error {
	s.registry.mu.Lock()
	defer s.registry.mu.Unlock()

	ids := s.itemIDsLocked()
	from := -1
	for i, id := range ids {
		if id == itemID {
			from = i
			break
		}
	}
	if from == -1 {
		return fmt.Errorf("item %q: %w", itemID, ErrNotFound)
	}
	to := from + delta
	if to < 0 {
		to = 0
	}
	if to > len(ids)-1 {
		to = len(ids) - 1
	}
	if to == from {
		return nil
	}
	ids = append(ids[:from], ids[from+1:]...)
	rest := append([]string{itemID}, ids[to:]...)
	ids = append(ids[:to], rest...)
	return s.setSourceOrderLocked(ids)
}

// CanAddSource reports whether placing the given source here is legal with
// respect to the nesting graph. Non-scene sources are always legal; a scene
// source is legal only when the referenced scene does not transitively
// include this one.
func (s *Scene) CanAddSource(sourceID string) bool {
	s.registry.mu.Lock()
	defer s.registry.mu.Unlock()
	src := s.registry.sources.GetSource(sourceID)
	if src == nil {
		return false
	}
	return s.canAddSourceLocked(src)
}

func (s *Scene) canAddSourceLocked(src *Source) bool {
	if src.Kind != KindScene {
		return true
	}
	if src.ID == s.id {
		return false
	}
	target := s.registry.scenes[src.ID]
	if target == nil {
		log.Printf("Scene %s: source %q names no known scene, treating as leaf", s.id, src.ID)
		return true
	}
	return !target.reachesLocked(s.id, make(map[string]bool))
}

// HasNestedScene reports whether targetSceneID is reachable from this scene
// through zero or more nested-scene edges.
func (s *Scene) HasNestedScene(targetSceneID string) bool {
	s.registry.mu.Lock()
	defer s.registry.mu.Unlock()
	return s.reachesLocked(targetSceneID, make(map[string]bool))
}

// reachesLocked is a depth-first reachability test. The result is the OR
// over every scene-typed child, never the answer of a single arbitrary
// branch; a direct match short-circuits immediately. The seen set guards
// against revisiting shared subtrees.
func (s *Scene) reachesLocked(targetSceneID string, seen map[string]bool) bool {
	if s.id == targetSceneID {
		return true
	}
	if seen[s.id] {
		return false
	}
	seen[s.id] = true
	for _, item := range s.items {
		src := s.registry.sources.GetSource(item.sourceID)
		if src == nil || src.Kind != KindScene {
			continue
		}
		nested := s.registry.scenes[src.ID]
		if nested == nil {
			continue
		}
		if nested.reachesLocked(targetSceneID, seen) {
			return true
		}
	}
	return false
}
