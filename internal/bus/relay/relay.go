package relay

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/example/bookshop-client/internal/bus"
)

// message is the wire form of a cart-changed notification.
type message struct {
	InstanceID string    `json:"instance_id"`
	OwnerKey   string    `json:"owner_key"`
	ChangedAt  time.Time `json:"changed_at"`
}

// Relay extends the in-process cart-changed signal across processes through a
// Kafka topic. Local events are published; remote events are injected back
// into the local bus tagged with OriginRelay so subscribers reload storage.
// It is an optional backstop on top of the bus, like the storage poller.
type Relay struct {
	writer     *kafka.Writer
	reader     *kafka.Reader
	bus        *bus.Bus
	instanceID string
}

func New(brokers []string, topic, groupID string, b *bus.Bus) *Relay {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	return &Relay{
		writer:     writer,
		reader:     reader,
		bus:        b,
		instanceID: uuid.New().String(),
	}
}

// Start subscribes to the local bus and launches the consume loop. The
// returned cancel function detaches the bus subscription; Close tears down
// the Kafka connections.
func (r *Relay) Start(ctx context.Context) func() {
	cancel := r.bus.Subscribe(func(e bus.CartChanged) {
		// Only locally originated changes go out; relayed ones already did.
		if e.Origin != bus.OriginLocal {
			return
		}
		if err := r.publish(ctx, e.OwnerKey); err != nil {
			log.Printf("[Relay] Failed to publish change for %s: %v", e.OwnerKey, err)
		}
	})

	go func() {
		if err := r.consume(ctx); err != nil && ctx.Err() == nil {
			log.Printf("[Relay] Consume loop stopped: %v", err)
		}
	}()

	return cancel
}

func (r *Relay) publish(ctx context.Context, ownerKey string) error {
	data, err := json.Marshal(message{
		InstanceID: r.instanceID,
		OwnerKey:   ownerKey,
		ChangedAt:  time.Now(),
	})
	if err != nil {
		return err
	}

	return r.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ownerKey),
		Value: data,
		Time:  time.Now(),
	})
}

func (r *Relay) consume(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			msg, err := r.reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				log.Printf("[Relay] Error reading message: %v", err)
				continue
			}
			r.handle(msg.Value)
		}
	}
}

func (r *Relay) handle(value []byte) {
	var m message
	if err := json.Unmarshal(value, &m); err != nil {
		log.Printf("[Relay] Dropping malformed message: %v", err)
		return
	}
	// Loop guard: skip notifications this instance produced.
	if m.InstanceID == r.instanceID {
		return
	}
	r.bus.Publish(bus.CartChanged{OwnerKey: m.OwnerKey, Origin: bus.OriginRelay})
}

func (r *Relay) Close() error {
	if err := r.writer.Close(); err != nil {
		r.reader.Close()
		return err
	}
	return r.reader.Close()
}
