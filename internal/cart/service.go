package cart

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/example/bookshop-client/internal/bus"
	"github.com/example/bookshop-client/internal/catalog"
	"github.com/example/bookshop-client/internal/storage"
)

var ErrOutOfStock = errors.New("book is out of stock")

// StockLimitError rejects a mutation that would exceed a line item's stock
// ceiling; Limit carries the ceiling for the user-facing message.
type StockLimitError struct {
	Limit int
}

func (e *StockLimitError) Error() string {
	return fmt.Sprintf("only %d items available in stock", e.Limit)
}

// Mirror is the best-effort remote cart write path. The local cart is
// authoritative; mirror failures are logged and otherwise ignored.
type Mirror interface {
	AddToCart(ctx context.Context, userID, bookID string) error
}

// Service is the cart mutation API. Every operation loads the owner's cart,
// computes the new state, persists it and broadcasts the changed signal, in
// that order. All operations complete locally; none require the network.
type Service struct {
	store  storage.Store
	bus    *bus.Bus
	mirror Mirror // nil for guest sessions
}

func NewService(store storage.Store, b *bus.Bus, mirror Mirror) *Service {
	return &Service{store: store, bus: b, mirror: mirror}
}

// Items returns the owner's current cart.
func (s *Service) Items(ctx context.Context, ownerKey string) []LineItem {
	return Load(ctx, s.store, ownerKey)
}

// AddItem puts one unit of the book in the cart: a new line item with a stock
// snapshot, or an increment of exactly 1 on an existing one. It rejects the
// add when no stock is left to commit.
func (s *Service) AddItem(ctx context.Context, ownerKey string, book catalog.Book) error {
	items := Load(ctx, s.store, ownerKey)

	if AvailableToAdd(book, items) <= 0 {
		return ErrOutOfStock
	}

	updated := false
	for i, item := range items {
		if item.BookID != book.ID {
			continue
		}
		if item.Quantity >= item.Stock {
			return &StockLimitError{Limit: item.Stock}
		}
		items[i].Quantity++
		updated = true
		break
	}
	if !updated {
		items = append(items, LineItem{
			BookID:   book.ID,
			Title:    book.Title,
			Author:   book.Author,
			Price:    book.Price,
			Stock:    book.Stock,
			Quantity: 1,
		})
	}

	Save(ctx, s.store, ownerKey, items)
	s.mirrorAdd(ctx, ownerKey, book.ID)
	s.bus.Publish(bus.CartChanged{OwnerKey: ownerKey})
	return nil
}

// mirrorAdd reflects the add to the backend, fire-and-forget.
func (s *Service) mirrorAdd(ctx context.Context, ownerKey, bookID string) {
	if s.mirror == nil {
		return
	}
	if err := s.mirror.AddToCart(ctx, ownerKey, bookID); err != nil {
		log.Printf("[Cart] Mirror add failed, cart updated locally only: %v", err)
	}
}

// SetQuantity replaces a line item's quantity. Zero or less removes the item;
// a value above the item's stock ceiling is rejected with the ceiling.
// Setting quantity on a book that is not in the cart is a no-op.
func (s *Service) SetQuantity(ctx context.Context, ownerKey, bookID string, quantity int) error {
	if quantity <= 0 {
		return s.RemoveItem(ctx, ownerKey, bookID)
	}

	items := Load(ctx, s.store, ownerKey)
	for i, item := range items {
		if item.BookID != bookID {
			continue
		}
		if quantity > item.Stock {
			return &StockLimitError{Limit: item.Stock}
		}
		items[i].Quantity = quantity
		Save(ctx, s.store, ownerKey, items)
		s.bus.Publish(bus.CartChanged{OwnerKey: ownerKey})
		return nil
	}
	return nil
}

// IncrementQuantity adds one unit to an existing line item.
func (s *Service) IncrementQuantity(ctx context.Context, ownerKey, bookID string) error {
	current := quantityOf(Load(ctx, s.store, ownerKey), bookID)
	if current == 0 {
		return nil
	}
	return s.SetQuantity(ctx, ownerKey, bookID, current+1)
}

// DecrementQuantity removes one unit; reaching zero removes the item.
func (s *Service) DecrementQuantity(ctx context.Context, ownerKey, bookID string) error {
	current := quantityOf(Load(ctx, s.store, ownerKey), bookID)
	if current == 0 {
		return nil
	}
	return s.SetQuantity(ctx, ownerKey, bookID, current-1)
}

// RemoveItem deletes the matching line item. Removing an absent book id is a
// no-op, not an error, and broadcasts nothing.
func (s *Service) RemoveItem(ctx context.Context, ownerKey, bookID string) error {
	items := Load(ctx, s.store, ownerKey)
	kept := items[:0]
	for _, item := range items {
		if item.BookID != bookID {
			kept = append(kept, item)
		}
	}
	if len(kept) == len(items) {
		return nil
	}

	Save(ctx, s.store, ownerKey, kept)
	s.bus.Publish(bus.CartChanged{OwnerKey: ownerKey})
	return nil
}

// Clear erases the owner's cart without confirmation. Checkout uses this.
func (s *Service) Clear(ctx context.Context, ownerKey string) {
	if err := s.store.Delete(ctx, Key(ownerKey)); err != nil {
		log.Printf("[Cart] Failed to clear cart for %s: %v", ownerKey, err)
	}
	s.bus.Publish(bus.CartChanged{OwnerKey: ownerKey})
}

// ClearConfirmed erases the cart after the confirmation callback approves,
// backing the explicit "empty my cart" user action. A nil callback confirms.
func (s *Service) ClearConfirmed(ctx context.Context, ownerKey string, confirm func() bool) bool {
	if confirm != nil && !confirm() {
		return false
	}
	s.Clear(ctx, ownerKey)
	return true
}
