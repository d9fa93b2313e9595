// Copyright © 2025 Scenecast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: compositor/mem.go
// Summary: In-memory compositor engine for headless runs and tests.
// Usage: Implements the scene graph's engine contract without a display.

package compositor

import (
	"fmt"
	"sync"

	"github.com/framegrace/scenecast/scene"
)

// MemEngine is a compositor engine that only keeps bookkeeping state. It
// backs headless mode, the persistence tests, and anything else that needs
// engine mirroring without a terminal.
type MemEngine struct {
	mu     sync.Mutex
	scenes []*MemScene
	nextID int
}

// NewMemEngine creates an empty in-memory engine.
func NewMemEngine() *MemEngine {
	return &MemEngine{}
}

// SceneHandleFor creates a new engine-side scene.
func (e *MemEngine) SceneHandleFor(name string) (scene.EngineScene, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	sc := &MemScene{engine: e, name: name}
	e.scenes = append(e.scenes, sc)
	return sc, nil
}

// SceneByName returns the first live engine scene with the given name, or
// nil when none exists.
func (e *MemEngine) SceneByName(name string) *MemScene {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, sc := range e.scenes {
		if sc.name == name && !sc.released {
			return sc
		}
	}
	return nil
}

func (e *MemEngine) allocID() string {
	e.nextID++
	return fmt.Sprintf("mem-%d", e.nextID)
}

// MemScene mirrors one scene's placement stack.
type MemScene struct {
	engine     *MemEngine
	name       string
	placements []*MemPlacement
	released   bool
}

func (s *MemScene) Name() string { return s.name }

// AddPlacement creates a placement on top of the stack.
func (s *MemScene) AddPlacement(sourceID string) (scene.EnginePlacement, error) {
	s.engine.mu.Lock()
	defer s.engine.mu.Unlock()
	p := &MemPlacement{scene: s, id: s.engine.allocID(), sourceID: sourceID}
	s.placements = append([]*MemPlacement{p}, s.placements...)
	return p, nil
}

// AddPlacements creates placements for the whole batch in input order,
// appended below the existing stack.
func (s *MemScene) AddPlacements(sourceIDs []string) ([]scene.EnginePlacement, error) {
	s.engine.mu.Lock()
	defer s.engine.mu.Unlock()
	out := make([]scene.EnginePlacement, 0, len(sourceIDs))
	for _, sourceID := range sourceIDs {
		p := &MemPlacement{scene: s, id: s.engine.allocID(), sourceID: sourceID}
		s.placements = append(s.placements, p)
		out = append(out, p)
	}
	return out, nil
}

// ListPlacements returns the placements in stacking order.
func (s *MemScene) ListPlacements() []scene.EnginePlacement {
	s.engine.mu.Lock()
	defer s.engine.mu.Unlock()
	out := make([]scene.EnginePlacement, len(s.placements))
	for i, p := range s.placements {
		out[i] = p
	}
	return out
}

// MovePlacement moves the placement at from to index to.
func (s *MemScene) MovePlacement(from, to int) error {
	s.engine.mu.Lock()
	defer s.engine.mu.Unlock()
	if from < 0 || from >= len(s.placements) || to < 0 || to >= len(s.placements) {
		return fmt.Errorf("move %d->%d outside %d placements", from, to, len(s.placements))
	}
	p := s.placements[from]
	s.placements = append(s.placements[:from], s.placements[from+1:]...)
	rest := append([]*MemPlacement{p}, s.placements[to:]...)
	s.placements = append(s.placements[:to], rest...)
	return nil
}

// Release drops the scene and its placements.
func (s *MemScene) Release() error {
	s.engine.mu.Lock()
	defer s.engine.mu.Unlock()
	s.placements = nil
	s.released = true
	return nil
}

// SourceOrder returns the source ids in stacking order.
func (s *MemScene) SourceOrder() []string {
	s.engine.mu.Lock()
	defer s.engine.mu.Unlock()
	out := make([]string, len(s.placements))
	for i, p := range s.placements {
		out[i] = p.sourceID
	}
	return out
}

// SelectedIDs returns the placement ids currently flagged selected.
func (s *MemScene) SelectedIDs() []string {
	s.engine.mu.Lock()
	defer s.engine.mu.Unlock()
	var out []string
	for _, p := range s.placements {
		if p.selected {
			out = append(out, p.id)
		}
	}
	return out
}

// MemPlacement is one mirrored placement.
type MemPlacement struct {
	scene    *MemScene
	id       string
	sourceID string
	selected bool
}

func (p *MemPlacement) ID() string       { return p.id }
func (p *MemPlacement) SourceID() string { return p.sourceID }
func (p *MemPlacement) Selected() bool   { return p.selected }

func (p *MemPlacement) SetSelected(selected bool) error {
	p.scene.engine.mu.Lock()
	defer p.scene.engine.mu.Unlock()
	p.selected = selected
	return nil
}

func (p *MemPlacement) Remove() error {
	p.scene.engine.mu.Lock()
	defer p.scene.engine.mu.Unlock()
	for i, pl := range p.scene.placements {
		if pl == p {
			p.scene.placements = append(p.scene.placements[:i], p.scene.placements[i+1:]...)
			break
		}
	}
	return nil
}
