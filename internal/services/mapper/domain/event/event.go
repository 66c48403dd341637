// Package event carries change notifications from the map model to observers
// such as renderers. The model publishes; it never depends on a listener.
package event

import (
	"sync"

	"github.com/dyle/rpgmapper-sub001/internal/services/mapper/domain/coords"
)

// Type identifies what changed.
type Type string

const (
	TypeAtlasRenamed     Type = "atlas.renamed"
	TypeRegionAdded      Type = "region.added"
	TypeRegionRemoved    Type = "region.removed"
	TypeRegionRenamed    Type = "region.renamed"
	TypeMapAdded         Type = "map.added"
	TypeMapRemoved       Type = "map.removed"
	TypeMapRenamed       Type = "map.renamed"
	TypeMapResized       Type = "map.resized"
	TypeMapGeometry      Type = "map.geometry_changed"
	TypeLayerAdded       Type = "layer.added"
	TypeLayerRemoved     Type = "layer.removed"
	TypeLayerChanged     Type = "layer.changed"
	TypeFieldChanged     Type = "field.changed"
	TypeSelectionChanged Type = "selection.changed"
)

// Event describes one change. Region and Map are filled in as the event
// travels up the ownership chain.
type Event struct {
	Type     Type
	Region   string
	Map      string
	Layer    string
	Property string
	Position coords.Position
	OldName  string
	Name     string
}

// Listener receives events synchronously on the publishing goroutine.
type Listener func(Event)

type subscription struct {
	id       uint64
	listener Listener
}

// Hub fans events out to listeners in subscription order.
// A nil Hub drops every event.
type Hub struct {
	mu            sync.Mutex
	nextID        uint64
	subscriptions []subscription
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{}
}

// Subscribe registers l and returns a function that removes it.
func (h *Hub) Subscribe(l Listener) (unsubscribe func()) {
	if h == nil || l == nil {
		return func() {}
	}
	h.mu.Lock()
	h.nextID++
	id := h.nextID
	h.subscriptions = append(h.subscriptions, subscription{id: id, listener: l})
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { h.remove(id) })
	}
}

func (h *Hub) remove(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, s := range h.subscriptions {
		if s.id == id {
			h.subscriptions = append(h.subscriptions[:i:i], h.subscriptions[i+1:]...)
			return
		}
	}
}

// Publish delivers e to every listener registered at call time.
func (h *Hub) Publish(e Event) {
	if h == nil {
		return
	}
	h.mu.Lock()
	listeners := make([]Listener, len(h.subscriptions))
	for i, s := range h.subscriptions {
		listeners[i] = s.listener
	}
	h.mu.Unlock()

	for _, l := range listeners {
		l(e)
	}
}

// Len returns the number of registered listeners.
func (h *Hub) Len() int {
	if h == nil {
		return 0
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscriptions)
}

// Publisher is anything events can be handed to.
type Publisher interface {
	Publish(Event)
}
