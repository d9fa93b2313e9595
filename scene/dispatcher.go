// Copyright © 2025 Scenecast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: scene/dispatcher.go
// Summary: In-process publish/subscribe bus for scene graph events.
// Usage: The registry broadcasts item-added/item-removed events from every owned scene.

package scene

import "sync"

// EventType defines the type of an event.
type EventType int

const (
	// EventItemAdded fires after an item lands in a scene's canonical order.
	EventItemAdded EventType = iota
	// EventItemRemoved fires after an item leaves canonical state; the
	// snapshot is the item's pre-removal state.
	EventItemRemoved
)

// Event represents a message passed through the system. The snapshot is a
// detached copy; handlers never see live records.
type Event struct {
	Type EventType
	Item ItemSnapshot
}

// Listener is an interface that any component can implement to receive events.
type Listener interface {
	// OnEvent is the callback method for receiving events.
	OnEvent(event Event)
}

// EventDispatcher manages a list of listeners and broadcasts events to them.
// Delivery is at-least-once to current subscribers; there is no replay for
// late subscribers.
type EventDispatcher struct {
	mu        sync.RWMutex
	listeners []Listener
}

// NewEventDispatcher creates a new dispatcher.
func NewEventDispatcher() *EventDispatcher {
	return &EventDispatcher{
		listeners: make([]Listener, 0),
	}
}

// Subscribe adds a new listener to receive events.
func (d *EventDispatcher) Subscribe(listener Listener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners = append(d.listeners, listener)
}

// Unsubscribe removes a listener.
func (d *EventDispatcher) Unsubscribe(listener Listener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, l := range d.listeners {
		if l == listener {
			d.listeners = append(d.listeners[:i], d.listeners[i+1:]...)
			break
		}
	}
}

// Broadcast sends an event to all subscribed listeners.
func (d *EventDispatcher) Broadcast(event Event) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, l := range d.listeners {
		l.OnEvent(event)
	}
}
