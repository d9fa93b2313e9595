// Copyright © 2025 Scenecast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: scene/mutations.go
// Summary: The closed set of named mutations that write canonical graph state.
// Usage: Every operation funnels its state change through exactly these functions.

package scene

import "log"

// Mutation names form the audit vocabulary. Operations validate and drive the
// engine first; only these functions touch canonical state, and each is
// logged with its arguments so the full mutation history can be traced.
const (
	mutAddSourceToScene      = "ADD_SOURCE_TO_SCENE"
	mutRemoveSourceFromScene = "REMOVE_SOURCE_FROM_SCENE"
	mutMakeItemActive        = "MAKE_SCENE_ITEM_ACTIVE"
	mutSetItemLock           = "SET_SCENE_ITEM_LOCK"
	mutSetSceneOrder         = "SET_SCENE_ORDER"
	mutCreateScene           = "CREATE_SCENE"
	mutRemoveScene           = "REMOVE_SCENE"
)

func logMutation(name string, format string, args ...interface{}) {
	log.Printf("Mutation %s: "+format, append([]interface{}{name}, args...)...)
}

// applyAddItem inserts the item at the head of the order (topmost). Batch
// restore appends instead, to preserve the input order of its placements.
func (s *Scene) applyAddItem(item *SceneItem, atHead bool) {
	logMutation(mutAddSourceToScene, "scene=%s item=%s source=%s", s.id, item.id, item.sourceID)
	if atHead {
		s.items = append([]*SceneItem{item}, s.items...)
		return
	}
	s.items = append(s.items, item)
}

func (s *Scene) applyRemoveItem(itemID string) {
	logMutation(mutRemoveSourceFromScene, "scene=%s item=%s", s.id, itemID)
	for i, item := range s.items {
		if item.id == itemID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
	if s.activeItemID == itemID {
		s.activeItemID = ""
	}
}

func (s *Scene) applySetActive(itemID string) {
	logMutation(mutMakeItemActive, "scene=%s item=%s", s.id, itemID)
	s.activeItemID = itemID
}

func (s *Scene) applySetLock(itemID string, locked bool) {
	logMutation(mutSetItemLock, "scene=%s item=%s locked=%v", s.id, itemID, locked)
	for _, item := range s.items {
		if item.id == itemID {
			item.locked = locked
			return
		}
	}
}

// applySetOrder assumes the caller already validated that order is an exact
// permutation of the current item ids.
func (s *Scene) applySetOrder(order []string) {
	logMutation(mutSetSceneOrder, "scene=%s order=%v", s.id, order)
	byID := make(map[string]*SceneItem, len(s.items))
	for _, item := range s.items {
		byID[item.id] = item
	}
	reordered := make([]*SceneItem, 0, len(order))
	for _, id := range order {
		reordered = append(reordered, byID[id])
	}
	s.items = reordered
}

func (r *Registry) applyCreateScene(sc *Scene) {
	logMutation(mutCreateScene, "scene=%s name=%q", sc.id, sc.name)
	r.scenes[sc.id] = sc
	r.order = append(r.order, sc.id)
}

func (r *Registry) applyRemoveScene(sceneID string) {
	logMutation(mutRemoveScene, "scene=%s", sceneID)
	delete(r.scenes, sceneID)
	for i, id := range r.order {
		if id == sceneID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}
