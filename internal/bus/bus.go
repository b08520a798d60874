package bus

import "sync"

// Origin of a CartChanged event. Only locally originated mutations are
// forwarded by the relay; poll and relay origins exist to break loops.
const (
	OriginLocal = "local"
	OriginRelay = "relay"
	OriginPoll  = "poll"
)

// CartChanged is broadcast after every write that altered persisted cart
// contents. Subscribers re-read storage; the event carries no cart data.
type CartChanged struct {
	OwnerKey string
	Origin   string
}

type Handler func(CartChanged)

// Bus fans CartChanged events out to in-process subscribers. This is the only
// coordination mechanism between components; there is no shared cart object.
type Bus struct {
	mu   sync.RWMutex
	next int
	subs map[int]Handler
}

func New() *Bus {
	return &Bus{subs: make(map[int]Handler)}
}

// Subscribe registers a handler and returns its cancel function.
func (b *Bus) Subscribe(h Handler) func() {
	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = h
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}
}

// Publish delivers the event to every subscriber on the caller's goroutine.
func (b *Bus) Publish(event CartChanged) {
	if event.Origin == "" {
		event.Origin = OriginLocal
	}

	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subs))
	for _, h := range b.subs {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(event)
	}
}
