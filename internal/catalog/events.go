package catalog

import (
	"sync"

	"backend/internal/models"
)

// EventType names the catalog mutations listeners can observe.
type EventType string

const (
	ProductAdded   EventType = "productAdded"
	ProductUpdated EventType = "productUpdated"
	ProductDeleted EventType = "productDeleted"
)

// Event carries the affected record to listeners after a successful mutation.
type Event struct {
	Type    EventType      `json:"type"`
	Product models.Product `json:"product"`
}

// Listener receives catalog events. Delivery is synchronous on the mutating
// call; listeners must not block.
type Listener func(Event)

// Broadcaster fans catalog events out to registered listeners. There is no
// queuing or replay: a listener attached after an event fired never sees it.
type Broadcaster struct {
	mu        sync.Mutex
	nextID    int
	listeners map[int]Listener
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{listeners: map[int]Listener{}}
}

// Subscribe registers a listener and returns a function that removes it.
func (b *Broadcaster) Subscribe(fn Listener) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.listeners[id] = fn
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.listeners, id)
		b.mu.Unlock()
	}
}

func (b *Broadcaster) publish(evt Event) {
	b.mu.Lock()
	fns := make([]Listener, 0, len(b.listeners))
	for _, fn := range b.listeners {
		fns = append(fns, fn)
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn(evt)
	}
}
