package cart

import "github.com/example/bookshop-client/internal/catalog"

// AvailableToAdd is the number of units of a book that can still be added to
// the cart: nominal catalog stock minus the quantity already committed,
// floored at zero. This value, not raw stock, is what displays report and
// what gates add-to-cart controls.
func AvailableToAdd(book catalog.Book, items []LineItem) int {
	nominal := book.Stock
	if nominal < 0 {
		nominal = 0
	}
	available := nominal - quantityOf(items, book.ID)
	if available < 0 {
		return 0
	}
	return available
}

// quantityOf returns the in-cart quantity for a book id, zero when absent.
func quantityOf(items []LineItem, bookID string) int {
	for _, item := range items {
		if item.BookID == bookID {
			return item.Quantity
		}
	}
	return 0
}
