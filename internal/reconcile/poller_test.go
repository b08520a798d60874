package reconcile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/bookshop-client/internal/bus"
	"github.com/example/bookshop-client/internal/cart"
	"github.com/example/bookshop-client/internal/storage"
)

func fixedOwner(owner string) func(ctx context.Context) string {
	return func(ctx context.Context) string { return owner }
}

func TestCheck_PublishesOnExternalWrite(t *testing.T) {
	store := storage.NewMemory()
	b := bus.New()
	var got []bus.CartChanged
	b.Subscribe(func(e bus.CartChanged) { got = append(got, e) })

	p := NewPoller(store, b, fixedOwner("u1"), DefaultInterval)
	ctx := context.Background()

	p.Check(ctx) // primes the baseline
	assert.Empty(t, got)

	// A write from "another tab" that never touched this process's bus.
	require.NoError(t, store.Set(ctx, cart.Key("u1"), []byte(`[{"bookId":"7","quantity":1}]`)))

	p.Check(ctx)
	require.Len(t, got, 1)
	assert.Equal(t, "u1", got[0].OwnerKey)
	assert.Equal(t, bus.OriginPoll, got[0].Origin)

	// Unchanged storage stays silent.
	p.Check(ctx)
	assert.Len(t, got, 1)
}

func TestCheck_DeletionIsAChange(t *testing.T) {
	store := storage.NewMemory()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, cart.Key("u1"), []byte(`[]`)))

	b := bus.New()
	var got []bus.CartChanged
	b.Subscribe(func(e bus.CartChanged) { got = append(got, e) })

	p := NewPoller(store, b, fixedOwner("u1"), DefaultInterval)
	p.Check(ctx)
	require.NoError(t, store.Delete(ctx, cart.Key("u1")))
	p.Check(ctx)

	assert.Len(t, got, 1)
}

func TestCheck_OwnerSwitchRestartsBaseline(t *testing.T) {
	store := storage.NewMemory()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, cart.Key("guest-1"), []byte(`[]`)))
	require.NoError(t, store.Set(ctx, cart.Key("user-42"), []byte(`[{"bookId":"1","quantity":1}]`)))

	b := bus.New()
	var got []bus.CartChanged
	b.Subscribe(func(e bus.CartChanged) { got = append(got, e) })

	owner := "guest-1"
	p := NewPoller(store, b, func(ctx context.Context) string { return owner }, DefaultInterval)

	p.Check(ctx)
	owner = "user-42" // login switches the watched cart
	p.Check(ctx)

	assert.Empty(t, got, "switching owners primes, it does not publish")

	require.NoError(t, store.Set(ctx, cart.Key("user-42"), []byte(`[{"bookId":"1","quantity":2}]`)))
	p.Check(ctx)
	require.Len(t, got, 1)
	assert.Equal(t, "user-42", got[0].OwnerKey)
}
