// Copyright © 2025 Scenecast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: scene/engine.go
// Summary: Declares the compositor engine contract mirrored by the canonical graph.
// Usage: Every mutating scene operation drives these handles before touching canonical state.

package scene

// CompositorEngine is the rendering backend. The canonical graph mirrors its
// state call-for-call through the handles below; the engine is authoritative
// for what ends up on screen.
type CompositorEngine interface {
	// SceneHandleFor returns (creating if needed) the engine-side scene for
	// the given name.
	SceneHandleFor(name string) (EngineScene, error)
}

// EngineScene is the engine-side mirror of one scene: an ordered list of
// placements matching the canonical item order.
type EngineScene interface {
	// AddPlacement creates one placement for the given engine-facing source
	// input. New placements land at the top of the stack.
	AddPlacement(sourceID string) (EnginePlacement, error)

	// AddPlacements creates placements for all given sources in one call.
	// Batch restore uses this to amortize the engine round trip; the
	// resulting placements preserve the input order.
	AddPlacements(sourceIDs []string) ([]EnginePlacement, error)

	// ListPlacements returns the placements in current stacking order.
	ListPlacements() []EnginePlacement

	// MovePlacement moves the placement at from to index to.
	MovePlacement(from, to int) error

	// Release destroys the engine-side scene and all its placements.
	Release() error
}

// EnginePlacement is one engine-side item occurrence.
type EnginePlacement interface {
	ID() string
	SetSelected(selected bool) error
	Remove() error
}
