package relay

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/bookshop-client/internal/bus"
)

func TestHandle_RemoteMessageReachesBus(t *testing.T) {
	b := bus.New()
	r := &Relay{bus: b, instanceID: "me"}

	var got []bus.CartChanged
	b.Subscribe(func(e bus.CartChanged) { got = append(got, e) })

	data, err := json.Marshal(message{InstanceID: "other", OwnerKey: "u1", ChangedAt: time.Now()})
	require.NoError(t, err)
	r.handle(data)

	require.Len(t, got, 1)
	assert.Equal(t, "u1", got[0].OwnerKey)
	assert.Equal(t, bus.OriginRelay, got[0].Origin)
}

func TestHandle_OwnMessageIsSkipped(t *testing.T) {
	b := bus.New()
	r := &Relay{bus: b, instanceID: "me"}

	var got []bus.CartChanged
	b.Subscribe(func(e bus.CartChanged) { got = append(got, e) })

	data, err := json.Marshal(message{InstanceID: "me", OwnerKey: "u1", ChangedAt: time.Now()})
	require.NoError(t, err)
	r.handle(data)

	assert.Empty(t, got)
}

func TestHandle_MalformedMessageIsDropped(t *testing.T) {
	b := bus.New()
	r := &Relay{bus: b, instanceID: "me"}

	var got []bus.CartChanged
	b.Subscribe(func(e bus.CartChanged) { got = append(got, e) })

	r.handle([]byte("{not json"))

	assert.Empty(t, got)
}
