// Copyright © 2025 Scenecast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: scene/test_helpers_test.go
// Summary: Stub collaborators shared by the scene graph tests.
// Usage: Provides in-memory source registry, engine, and id generator stubs.

package scene

import (
	"errors"
	"fmt"
)

// seqGenerator allocates deterministic ids for tests.
type seqGenerator struct {
	n int
}

func (g *seqGenerator) Next() string {
	g.n++
	return fmt.Sprintf("id-%d", g.n)
}

// stubSources is an in-memory SourceRegistry.
type stubSources struct {
	sources map[string]*Source
	n       int
}

func newStubSources() *stubSources {
	return &stubSources{sources: make(map[string]*Source)}
}

func (s *stubSources) GetSource(id string) *Source {
	return s.sources[id]
}

func (s *stubSources) CreateSource(name string, kind SourceKind, settings Settings) (*Source, error) {
	s.n++
	src := &Source{ID: fmt.Sprintf("src-%d", s.n), Name: name, Kind: kind, Settings: settings}
	s.sources[src.ID] = src
	return src, nil
}

// add registers a source under a fixed id.
func (s *stubSources) add(id, name string, kind SourceKind) *Source {
	src := &Source{ID: id, Name: name, Kind: kind}
	s.sources[id] = src
	return src
}

var errStub = errors.New("stub failure")

type stubPlacement struct {
	scene    *stubEngineScene
	id       string
	sourceID string
	selected bool
	removed  bool
}

func (p *stubPlacement) ID() string { return p.id }

func (p *stubPlacement) SetSelected(selected bool) error {
	if p.scene.failSelect {
		return errStub
	}
	p.selected = selected
	return nil
}

func (p *stubPlacement) Remove() error {
	if p.scene.failRemove {
		return errStub
	}
	for i, pl := range p.scene.placements {
		if pl == p {
			p.scene.placements = append(p.scene.placements[:i], p.scene.placements[i+1:]...)
			break
		}
	}
	p.removed = true
	return nil
}

type stubEngineScene struct {
	name       string
	placements []*stubPlacement
	nextID     int

	addCalls   int
	batchCalls int
	moves      [][2]int
	released   bool

	failAdd    bool
	failBatch  bool
	failMove   bool
	failSelect bool
	failRemove bool
}

func (s *stubEngineScene) newPlacement(sourceID string) *stubPlacement {
	s.nextID++
	return &stubPlacement{scene: s, id: fmt.Sprintf("ep-%d", s.nextID), sourceID: sourceID}
}

func (s *stubEngineScene) AddPlacement(sourceID string) (EnginePlacement, error) {
	s.addCalls++
	if s.failAdd {
		return nil, errStub
	}
	p := s.newPlacement(sourceID)
	s.placements = append([]*stubPlacement{p}, s.placements...)
	return p, nil
}

func (s *stubEngineScene) AddPlacements(sourceIDs []string) ([]EnginePlacement, error) {
	s.batchCalls++
	if s.failBatch {
		return nil, errStub
	}
	out := make([]EnginePlacement, 0, len(sourceIDs))
	for _, id := range sourceIDs {
		p := s.newPlacement(id)
		s.placements = append(s.placements, p)
		out = append(out, p)
	}
	return out, nil
}

func (s *stubEngineScene) ListPlacements() []EnginePlacement {
	out := make([]EnginePlacement, len(s.placements))
	for i, p := range s.placements {
		out[i] = p
	}
	return out
}

func (s *stubEngineScene) MovePlacement(from, to int) error {
	if s.failMove {
		return errStub
	}
	if from < 0 || from >= len(s.placements) || to < 0 || to >= len(s.placements) {
		return fmt.Errorf("move %d->%d out of range", from, to)
	}
	s.moves = append(s.moves, [2]int{from, to})
	p := s.placements[from]
	s.placements = append(s.placements[:from], s.placements[from+1:]...)
	rest := append([]*stubPlacement{p}, s.placements[to:]...)
	s.placements = append(s.placements[:to], rest...)
	return nil
}

func (s *stubEngineScene) Release() error {
	s.released = true
	return nil
}

func (s *stubEngineScene) sourceOrder() []string {
	out := make([]string, len(s.placements))
	for i, p := range s.placements {
		out[i] = p.sourceID
	}
	return out
}

type stubEngine struct {
	scenes []*stubEngineScene
}

func (e *stubEngine) SceneHandleFor(name string) (EngineScene, error) {
	sc := &stubEngineScene{name: name}
	e.scenes = append(e.scenes, sc)
	return sc, nil
}

// handleFor returns the engine scene created for the given registry scene.
func (e *stubEngine) handleFor(sc *Scene) *stubEngineScene {
	return sc.engine.(*stubEngineScene)
}

// recordingListener captures broadcast events.
type recordingListener struct {
	events []Event
}

func (l *recordingListener) OnEvent(event Event) {
	l.events = append(l.events, event)
}

// newTestRig wires a registry with deterministic ids and stub collaborators.
func newTestRig() (*Registry, *stubSources, *stubEngine) {
	sources := newStubSources()
	engine := &stubEngine{}
	reg := NewRegistry(sources, engine, WithIdGenerator(&seqGenerator{}))
	return reg, sources, engine
}
