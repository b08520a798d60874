package identity

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/example/bookshop-client/internal/storage"
)

const (
	guestIDKey = "guest_id"

	// legacyCartKey is the fixed guest cart key older releases wrote under.
	legacyCartKey = "cart_guest"
)

// Resolver derives the owner key that namespaces carts and order history.
// Authenticated users own their carts under their user id on any device; an
// unauthenticated shopper gets a guest id that lives in session storage and
// is never regenerated while the session lasts.
type Resolver struct {
	session storage.Store // session-scoped, holds the guest id
	durable storage.Store // durable, holds carts (for legacy migration)

	mu       sync.Mutex
	migrated bool
}

func NewResolver(session, durable storage.Store) *Resolver {
	return &Resolver{session: session, durable: durable}
}

// OwnerKey returns the authenticated user id unchanged, or the session's
// guest id, creating one on first use. It never fails: storage errors mean
// "no remembered identifier" and produce a fresh guest id.
func (r *Resolver) OwnerKey(ctx context.Context, authenticatedUserID string) string {
	if authenticatedUserID != "" {
		return authenticatedUserID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok, err := r.session.Get(ctx, guestIDKey); err == nil && ok && len(existing) > 0 {
		return string(existing)
	}

	guestID := newGuestID()
	if err := r.session.Set(ctx, guestIDKey, []byte(guestID)); err != nil {
		log.Printf("[Identity] Failed to persist guest id: %v", err)
	}

	r.migrateLegacyCart(ctx, guestID)

	return guestID
}

// newGuestID prefers a random UUID and falls back to a time+random string.
func newGuestID() string {
	if id, err := uuid.NewRandom(); err == nil {
		return id.String()
	}
	return fmt.Sprintf("guest_%d_%06d", time.Now().UnixMilli(), rand.Intn(1000000))
}

// migrateLegacyCart moves a cart stored under the fixed legacy guest key to
// the freshly generated guest id. Runs at most once per session.
func (r *Resolver) migrateLegacyCart(ctx context.Context, guestID string) {
	if r.migrated {
		return
	}
	r.migrated = true

	legacy, ok, err := r.durable.Get(ctx, legacyCartKey)
	if err != nil || !ok {
		return
	}
	if err := r.durable.Set(ctx, "cart_"+guestID, legacy); err != nil {
		log.Printf("[Identity] Failed to migrate legacy guest cart: %v", err)
		return
	}
	if err := r.durable.Delete(ctx, legacyCartKey); err != nil {
		log.Printf("[Identity] Failed to delete legacy guest cart key: %v", err)
	}
	log.Printf("[Identity] Migrated legacy guest cart to %s", guestID)
}
