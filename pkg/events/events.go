// Package events is a small in-process pub/sub registry. Order state
// changes are published here and fanned out to dashboard subscribers.
package events

import (
	"sync"

	"github.com/rs/xid"
)

// Event types published by the bridge and the barista console.
const (
	TypeOrderCreated       = "order_created"
	TypeOrderStatusChanged = "order_status_changed"
)

type Event struct {
	Type        string `json:"type"`
	OrderNumber string `json:"order_number,omitempty"`
	Status      string `json:"status,omitempty"`
}

const subscriberBuffer = 100

// Bus fans events out to subscribers. Publish never blocks: a subscriber
// that falls more than subscriberBuffer events behind loses events.
type Bus struct {
	mu   sync.Mutex
	subs map[xid.ID]chan Event
}

func NewBus() *Bus {
	return &Bus{subs: make(map[xid.ID]chan Event)}
}

// Subscribe registers a new subscriber and returns its id and channel.
func (b *Bus) Subscribe() (xid.ID, <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := xid.New()
	ch := make(chan Event, subscriberBuffer)
	b.subs[id] = ch
	return id, ch
}

// Unsubscribe removes a subscriber and closes its channel. Unknown ids are
// ignored.
func (b *Bus) Unsubscribe(id xid.ID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ch, ok := b.subs[id]; ok {
		delete(b.subs, id)
		close(ch)
	}
}

// Publish delivers an event to every subscriber without blocking.
func (b *Bus) Publish(e Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
}
