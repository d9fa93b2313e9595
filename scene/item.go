// Copyright © 2025 Scenecast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: scene/item.go
// Summary: Scene item records, transforms, and snapshots.
// Usage: Items are created and destroyed only by their owning scene's operations.

package scene

// Vec2 is a 2D position or scale factor.
type Vec2 struct {
	X float64
	Y float64
}

// Crop trims pixels from each edge of a placement.
type Crop struct {
	Top    int
	Bottom int
	Left   int
	Right  int
}

// SceneItem is one placement of a source within a scene. It is owned
// exclusively by that scene; all writes go through the scene's operations.
type SceneItem struct {
	owner     *Scene
	id        string
	sourceID  string
	placement EnginePlacement

	position Vec2
	scale    Vec2
	crop     Crop
	rotation float64
	visible  bool
	locked   bool
}

func newSceneItem(owner *Scene, id, sourceID string, placement EnginePlacement) *SceneItem {
	return &SceneItem{
		owner:     owner,
		id:        id,
		sourceID:  sourceID,
		placement: placement,
		position:  Vec2{X: 0, Y: 0},
		scale:     Vec2{X: 1, Y: 1},
		rotation:  0,
		visible:   true,
		locked:    false,
	}
}

func (i *SceneItem) ID() string       { return i.id }
func (i *SceneItem) SourceID() string { return i.sourceID }
func (i *SceneItem) Position() Vec2   { return i.position }
func (i *SceneItem) Scale() Vec2      { return i.scale }
func (i *SceneItem) Crop() Crop       { return i.crop }
func (i *SceneItem) Rotation() float64 {
	return i.rotation
}
func (i *SceneItem) Visible() bool { return i.visible }
func (i *SceneItem) Locked() bool  { return i.locked }

// SceneID returns the id of the owning scene.
func (i *SceneItem) SceneID() string {
	if i.owner == nil {
		return ""
	}
	return i.owner.id
}

// Snapshot copies the item's current state into a detached value. Snapshots
// are what travel on the event bus and into persistence; nothing aliases the
// live record.
func (i *SceneItem) Snapshot() ItemSnapshot {
	return ItemSnapshot{
		SceneID:  i.SceneID(),
		ItemID:   i.id,
		SourceID: i.sourceID,
		Position: i.position,
		Scale:    i.scale,
		Crop:     i.crop,
		Rotation: i.rotation,
		Visible:  i.visible,
		Locked:   i.locked,
	}
}

// ItemSnapshot is a point-in-time copy of a scene item.
type ItemSnapshot struct {
	SceneID  string
	ItemID   string
	SourceID string
	Position Vec2
	Scale    Vec2
	Crop     Crop
	Rotation float64
	Visible  bool
	Locked   bool
}
