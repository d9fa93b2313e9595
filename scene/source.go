// Copyright © 2025 Scenecast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: scene/source.go
// Summary: Defines source descriptors and the source registry collaborator contract.
// Usage: Sources are resolved by id whenever an item is added to a scene.

package scene

// SourceKind discriminates what a source produces. It is a closed enum so
// call sites can switch exhaustively instead of sniffing strings.
type SourceKind int

const (
	// KindInput is a live capture input (camera, display, audio device).
	KindInput SourceKind = iota
	// KindMedia is file-backed content (video, image, audio file).
	KindMedia
	// KindScene marks a source that is itself a scene; the source id is the
	// referenced scene's id. These are the edges of the nesting graph.
	KindScene
)

func (k SourceKind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindMedia:
		return "media"
	case KindScene:
		return "scene"
	}
	return "unknown"
}

// Settings carries source-specific configuration as opaque key/value data.
// The graph never interprets it; it travels with the descriptor.
type Settings map[string]interface{}

// Source is the externally owned descriptor for a content producer. Many
// items across many scenes may reference the same source id.
type Source struct {
	ID       string
	Name     string
	Kind     SourceKind
	Settings Settings
}

// SourceRegistry resolves and creates sources. It is an external
// collaborator; the scene graph references sources by id and never owns them.
type SourceRegistry interface {
	// GetSource returns the descriptor for id, or nil if unknown.
	GetSource(id string) *Source

	// CreateSource registers a new source and returns its descriptor.
	CreateSource(name string, kind SourceKind, settings Settings) (*Source, error)
}
