package order

import (
	"context"
	"log"
)

// Fetcher retrieves a user's orders from the backend.
type Fetcher interface {
	FetchOrders(ctx context.Context, userID string) ([]Order, error)
}

// Service serves order history, preferring the backend and falling back to
// the locally archived list when the read fails.
type Service struct {
	fetcher Fetcher
	history *History
}

func NewService(fetcher Fetcher, history *History) *Service {
	return &Service{fetcher: fetcher, history: history}
}

// Orders returns the user's order history, newest first.
func (s *Service) Orders(ctx context.Context, userID string) []Order {
	if s.fetcher != nil {
		orders, err := s.fetcher.FetchOrders(ctx, userID)
		if err == nil {
			return orders
		}
		log.Printf("[Orders] Falling back to local history for %s: %v", userID, err)
	}
	return s.history.List(ctx, userID)
}
