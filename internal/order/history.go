package order

import (
	"context"
	"encoding/json"
	"log"

	"github.com/example/bookshop-client/internal/storage"
)

// historyKey returns the storage key for a user's order history.
func historyKey(userID string) string {
	return "orders_" + userID
}

// History is the per-user durable order list, newest first.
type History struct {
	store storage.Store
}

func NewHistory(store storage.Store) *History {
	return &History{store: store}
}

// List returns the stored history. Missing or malformed data yields an empty
// list, never an error.
func (h *History) List(ctx context.Context, userID string) []Order {
	data, ok, err := h.store.Get(ctx, historyKey(userID))
	if err != nil {
		log.Printf("[Orders] Failed to read history for %s: %v", userID, err)
		return nil
	}
	if !ok {
		return nil
	}

	var orders []Order
	if err := json.Unmarshal(data, &orders); err != nil {
		log.Printf("[Orders] Discarding malformed history for %s: %v", userID, err)
		return nil
	}
	return orders
}

// Prepend puts the order at the head of the user's history, best-effort.
func (h *History) Prepend(ctx context.Context, userID string, o Order) {
	orders := append([]Order{o}, h.List(ctx, userID)...)
	data, err := json.Marshal(orders)
	if err != nil {
		log.Printf("[Orders] Failed to encode history for %s: %v", userID, err)
		return
	}
	if err := h.store.Set(ctx, historyKey(userID), data); err != nil {
		log.Printf("[Orders] Failed to write history for %s: %v", userID, err)
	}
}
