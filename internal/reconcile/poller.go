package reconcile

import (
	"bytes"
	"context"
	"log"
	"time"

	"github.com/example/bookshop-client/internal/bus"
	"github.com/example/bookshop-client/internal/cart"
	"github.com/example/bookshop-client/internal/storage"
)

// DefaultInterval bounds the staleness window for writes this process never
// saw a signal for (another tab, another device against shared storage).
const DefaultInterval = time.Second

// Poller is the reconciliation backstop behind the cart-changed signal: it
// re-reads the owner's cart key on a fixed interval and publishes a change
// event when the stored bytes differ from the last observation. It is a
// safety net, not the primary update path.
type Poller struct {
	store    storage.Store
	bus      *bus.Bus
	owner    func(ctx context.Context) string
	interval time.Duration

	primed bool
	last   []byte
	key    string
}

// NewPoller watches the cart of whatever owner the provider currently
// resolves, so a login mid-session switches the watched key.
func NewPoller(store storage.Store, b *bus.Bus, owner func(ctx context.Context) string, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{store: store, bus: b, owner: owner, interval: interval}
}

// Run polls until the context is cancelled.
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.Check(ctx)
		}
	}
}

// Check performs one observation. The first look at a key only primes the
// baseline; later differences publish a poll-origin change event.
func (p *Poller) Check(ctx context.Context) {
	ownerKey := p.owner(ctx)
	key := cart.Key(ownerKey)

	data, ok, err := p.store.Get(ctx, key)
	if err != nil {
		log.Printf("[Reconcile] Failed to read %s: %v", key, err)
		return
	}
	if !ok {
		data = nil
	}

	if key != p.key || !p.primed {
		p.key = key
		p.primed = true
		p.last = data
		return
	}

	if bytes.Equal(p.last, data) {
		return
	}
	p.last = data
	p.bus.Publish(bus.CartChanged{OwnerKey: ownerKey, Origin: bus.OriginPoll})
}
