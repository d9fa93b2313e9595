// Copyright © 2025 Scenecast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: scene/restore.go
// Summary: Batch placement restore for persisted scene collections.
// Usage: Persistence layers replay saved placements through Scene.AddSources.

package scene

import (
	"fmt"
	"log"
)

// Placement is one persisted item record, as written by the collection
// store and consumed by AddSources.
type Placement struct {
	ID       string
	SourceID string
	X        float64
	Y        float64
	ScaleX   float64
	ScaleY   float64
	Visible  bool
	Crop     Crop
	Locked   bool
	Rotation float64
}

// RestorePolicy decides what AddSources does with placements whose source id
// no longer resolves.
type RestorePolicy int

const (
	// RestoreSkipUnresolved drops unresolvable placements with a log line.
	RestoreSkipUnresolved RestorePolicy = iota
	// RestoreStrict fails the whole batch with ErrNotFound instead.
	RestoreStrict
)

// AddSources restores a batch of placements into the scene. Engine-side
// placements for all resolvable entries are created in one grouped call, then
// the canonical records are added preserving the input order (first entry
// topmost relative to the rest of the batch). Scene-typed entries go through
// the same cycle check as AddSource. Restored items do not become active.
func (s *Scene) AddSources(placements []Placement) ([]*SceneItem, error) {
	r := s.registry
	r.mu.Lock()
	items, events, err := s.addSourcesLocked(placements)
	r.mu.Unlock()
	if err != nil {
		return nil, err
	}
	for _, ev := range events {
		r.dispatcher.Broadcast(ev)
	}
	return items, nil
}

func (s *Scene) addSourcesLocked(placements []Placement) ([]*SceneItem, []Event, error) {
	r := s.registry

	kept := make([]Placement, 0, len(placements))
	sourceIDs := make([]string, 0, len(placements))
	batchIDs := make(map[string]bool, len(placements))
	for _, p := range placements {
		src := r.sources.GetSource(p.SourceID)
		if src == nil {
			if r.restorePolicy == RestoreStrict {
				return nil, nil, fmt.Errorf("placement %q references source %q: %w", p.ID, p.SourceID, ErrNotFound)
			}
			log.Printf("Scene %s: skipping placement %q, source %q does not resolve", s.id, p.ID, p.SourceID)
			continue
		}
		if src.Kind == KindScene && !s.canAddSourceLocked(src) {
			return nil, nil, fmt.Errorf("placement %q nests scene %q: %w", p.ID, src.ID, ErrCycleDetected)
		}
		if p.ID != "" {
			if s.findItemLocked(p.ID) != nil || batchIDs[p.ID] {
				return nil, nil, fmt.Errorf("placement %q: %w", p.ID, ErrDuplicateID)
			}
			batchIDs[p.ID] = true
		}
		kept = append(kept, p)
		sourceIDs = append(sourceIDs, src.ID)
	}
	if len(kept) == 0 {
		return nil, nil, nil
	}

	// One grouped engine call for the whole batch.
	handles, err := s.engine.AddPlacements(sourceIDs)
	if err != nil {
		return nil, nil, engineDesync("AddPlacements", err)
	}
	if len(handles) != len(kept) {
		return nil, nil, engineDesync("AddPlacements",
			fmt.Errorf("engine returned %d placements for %d sources", len(handles), len(kept)))
	}

	items := make([]*SceneItem, 0, len(kept))
	events := make([]Event, 0, len(kept))
	for i, p := range kept {
		itemID := p.ID
		if itemID == "" {
			itemID = r.ids.Next()
		}
		item := newSceneItem(s, itemID, p.SourceID, handles[i])
		item.position = Vec2{X: p.X, Y: p.Y}
		item.scale = Vec2{X: p.ScaleX, Y: p.ScaleY}
		item.crop = p.Crop
		item.rotation = p.Rotation
		item.visible = p.Visible
		item.locked = p.Locked
		s.applyAddItem(item, false)
		items = append(items, item)
		events = append(events, Event{Type: EventItemAdded, Item: item.Snapshot()})
	}
	return items, events, nil
}
