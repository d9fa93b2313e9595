// Copyright © 2025 Scenecast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: scene/ids.go
// Summary: Identifier generation for scenes and items.
// Usage: The registry allocates every scene and item id through an injected IdGenerator.

package scene

import "github.com/google/uuid"

// IdGenerator produces process-unique identifiers synchronously. A
// multi-process deployment sharing one id space must inject a coordinated
// implementation; the default below is single-process.
type IdGenerator interface {
	Next() string
}

type uuidGenerator struct{}

func (uuidGenerator) Next() string {
	return uuid.NewString()
}

// NewUUIDGenerator returns the default random-uuid generator.
func NewUUIDGenerator() IdGenerator {
	return uuidGenerator{}
}
