package catalog

import (
	"context"
	"errors"
	"log"
	"strings"
)

var ErrBookNotFound = errors.New("book not found")

// Lister fetches the live catalog. Satisfied by the backend client.
type Lister interface {
	ListBooks(ctx context.Context) ([]Book, error)
}

// Service serves the book catalog, falling back to the bundled static list
// whenever the backend read fails. Catalog reads never error out to the UI;
// only a lookup of a missing id surfaces ErrBookNotFound.
type Service struct {
	lister Lister
}

func NewService(lister Lister) *Service {
	return &Service{lister: lister}
}

// List returns the live catalog, or the static fallback on any failure.
func (s *Service) List(ctx context.Context) []Book {
	if s.lister != nil {
		books, err := s.lister.ListBooks(ctx)
		if err == nil {
			return books
		}
		log.Printf("[Catalog] Falling back to bundled book list: %v", err)
	}
	return StaticBooks()
}

// Get looks a book up by id in the current catalog.
func (s *Service) Get(ctx context.Context, id string) (Book, error) {
	for _, b := range s.List(ctx) {
		if b.ID == id {
			return b, nil
		}
	}
	return Book{}, ErrBookNotFound
}

// Search filters books by a case-insensitive title/author substring and an
// optional exact category. Empty arguments match everything.
func Search(books []Book, query, category string) []Book {
	query = strings.ToLower(strings.TrimSpace(query))
	out := make([]Book, 0, len(books))
	for _, b := range books {
		if category != "" && !strings.EqualFold(b.Category, category) {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(b.Title), query) &&
			!strings.Contains(strings.ToLower(b.Author), query) {
			continue
		}
		out = append(out, b)
	}
	return out
}
