// Copyright © 2025 Scenecast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: scene/errors.go
// Summary: Error kinds surfaced by scene graph operations.
// Usage: Match with errors.Is; EngineDesyncError wraps the engine failure via errors.As.

package scene

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound reports an unknown scene, item, or source id passed to an
	// operation that requires existence.
	ErrNotFound = errors.New("not found")

	// ErrCycleDetected reports an add that would close a cycle in the
	// nested-scene graph.
	ErrCycleDetected = errors.New("nested scene cycle detected")

	// ErrInvalidOrder reports a reorder whose id set does not match the
	// scene's current items.
	ErrInvalidOrder = errors.New("order does not match scene items")

	// ErrInUse reports a scene removal blocked by a nested reference.
	ErrInUse = errors.New("scene is referenced by another scene")

	// ErrDuplicateID reports an explicit item id that already exists in the
	// target scene.
	ErrDuplicateID = errors.New("item id already exists in scene")
)

// EngineDesyncError reports a compositor engine call that failed during an
// otherwise valid operation. The core never retries the call; a retry could
// duplicate placements in the engine, which is authoritative for rendering.
type EngineDesyncError struct {
	Op  string
	Err error
}

func (e *EngineDesyncError) Error() string {
	return fmt.Sprintf("engine desync during %s: %v", e.Op, e.Err)
}

func (e *EngineDesyncError) Unwrap() error {
	return e.Err
}

func engineDesync(op string, err error) error {
	return &EngineDesyncError{Op: op, Err: err}
}
