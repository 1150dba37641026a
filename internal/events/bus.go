// Package events carries catalog change notifications from writers to
// whoever renders or mirrors the catalog.
package events

import (
	"sync"
	"time"
)

type Kind string

const CatalogChanged Kind = "catalog.changed"

type Event struct {
	Kind   Kind
	Reason string
	IDs    []string
	At     time.Time
}

type Handler func(Event)

// Bus is a synchronous fan-out. Handlers run in subscription order on the
// publisher's goroutine and must not publish on the same bus.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]Handler
	order  []int
}

func NewBus() *Bus { return &Bus{subs: map[int]Handler{}} }

// Subscribe registers h and returns a func that removes it.
func (b *Bus) Subscribe(h Handler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	b.subs[id] = h
	b.order = append(b.order, id)

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs, id)
			for i, v := range b.order {
				if v == id {
					b.order = append(b.order[:i], b.order[i+1:]...)
					break
				}
			}
		})
	}
}

func (b *Bus) Publish(ev Event) {
	if b == nil {
		return
	}
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	b.mu.RLock()
	hs := make([]Handler, 0, len(b.order))
	for _, id := range b.order {
		hs = append(hs, b.subs[id])
	}
	b.mu.RUnlock()
	for _, h := range hs {
		h(ev)
	}
}

func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
