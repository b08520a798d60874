package cart

import (
	"context"
	"encoding/json"
	"log"

	"github.com/example/bookshop-client/internal/storage"
)

// LineItem is one book-and-quantity entry in a cart. Stock is the nominal
// stock snapshot taken when the book was added; it caps quantity edits but is
// not authoritative, the catalog's current value is.
type LineItem struct {
	BookID   string  `json:"bookId"`
	Title    string  `json:"title"`
	Author   string  `json:"author"`
	Price    float64 `json:"price"`
	Stock    int     `json:"stock"`
	Quantity int     `json:"quantity"`
}

// Key returns the storage key for an owner's cart.
func Key(ownerKey string) string {
	return "cart_" + ownerKey
}

// Load reads the owner's cart. It never fails: a missing key, a storage
// error or malformed stored data all yield an empty cart.
func Load(ctx context.Context, store storage.Store, ownerKey string) []LineItem {
	data, ok, err := store.Get(ctx, Key(ownerKey))
	if err != nil {
		log.Printf("[Cart] Failed to read cart for %s: %v", ownerKey, err)
		return nil
	}
	if !ok {
		return nil
	}

	var items []LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		log.Printf("[Cart] Discarding malformed cart for %s: %v", ownerKey, err)
		return nil
	}
	return sanitize(items)
}

// Save persists the owner's cart, best-effort. Callers broadcast the changed
// signal after Save returns; Save itself never publishes.
func Save(ctx context.Context, store storage.Store, ownerKey string, items []LineItem) {
	data, err := json.Marshal(sanitize(items))
	if err != nil {
		log.Printf("[Cart] Failed to encode cart for %s: %v", ownerKey, err)
		return
	}
	if err := store.Set(ctx, Key(ownerKey), data); err != nil {
		log.Printf("[Cart] Failed to write cart for %s: %v", ownerKey, err)
	}
}

// sanitize enforces the cart invariants on data of unknown provenance: one
// line item per book id, every quantity at least 1.
func sanitize(items []LineItem) []LineItem {
	if len(items) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(items))
	out := make([]LineItem, 0, len(items))
	for _, item := range items {
		if item.BookID == "" || item.Quantity < 1 || seen[item.BookID] {
			continue
		}
		seen[item.BookID] = true
		out = append(out, item)
	}
	return out
}

// Total is the sum of price times quantity across the cart.
func Total(items []LineItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// Count is the total number of units in the cart.
func Count(items []LineItem) int {
	var n int
	for _, item := range items {
		n += item.Quantity
	}
	return n
}
