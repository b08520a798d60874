package bus

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBus_PublishReachesAllSubscribers(t *testing.T) {
	b := New()

	var first, second []CartChanged
	b.Subscribe(func(e CartChanged) { first = append(first, e) })
	b.Subscribe(func(e CartChanged) { second = append(second, e) })

	b.Publish(CartChanged{OwnerKey: "u1"})

	assert.Len(t, first, 1)
	assert.Len(t, second, 1)
	assert.Equal(t, "u1", first[0].OwnerKey)
	assert.Equal(t, OriginLocal, first[0].Origin)
}

func TestBus_CancelStopsDelivery(t *testing.T) {
	b := New()

	var got []CartChanged
	cancel := b.Subscribe(func(e CartChanged) { got = append(got, e) })

	b.Publish(CartChanged{OwnerKey: "u1"})
	cancel()
	b.Publish(CartChanged{OwnerKey: "u1"})

	assert.Len(t, got, 1)
}

func TestBus_RelayOriginPreserved(t *testing.T) {
	b := New()

	var got []CartChanged
	b.Subscribe(func(e CartChanged) { got = append(got, e) })

	b.Publish(CartChanged{OwnerKey: "u1", Origin: OriginRelay})

	assert.Equal(t, OriginRelay, got[0].Origin)
}
