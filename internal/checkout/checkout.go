package checkout

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/example/bookshop-client/internal/auth"
	"github.com/example/bookshop-client/internal/cart"
	"github.com/example/bookshop-client/internal/order"
)

var (
	// ErrEmptyCart rejects checkout of an empty cart.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrLoginRequired is the redirect-to-login signal for guest checkout.
	ErrLoginRequired = errors.New("login required to checkout")
)

// State of the materializer. It is Submitting only while a checkout is in
// flight; both terminal outcomes return it to Idle.
type State string

const (
	StateIdle       State = "idle"
	StateSubmitting State = "submitting"
)

// Placement says how the order record came to be.
type Placement string

const (
	// Completed means the backend accepted the order and assigned its id.
	Completed Placement = "completed"
	// LocalFallback means the backend was unreachable and the order was
	// synthesized locally. Not an error: the user is told the order was
	// recorded offline.
	LocalFallback Placement = "local_fallback"
)

// Result carries the archived order and how it was placed.
type Result struct {
	Order     order.Order
	Placement Placement
}

// Placer submits an order to the backend.
type Placer interface {
	PlaceOrder(ctx context.Context, payload order.Order) (order.Order, error)
}

// Service materializes the current cart into an order: submit (or synthesize
// locally), archive to history, then silently clear the cart. From the
// caller's perspective order production and cart clearing commit together; no
// path produces one without the other.
type Service struct {
	cart    *cart.Service
	history *order.History
	placer  Placer

	mu    sync.Mutex
	state State
}

func NewService(cartSvc *cart.Service, history *order.History, placer Placer) *Service {
	return &Service{cart: cartSvc, history: history, placer: placer, state: StateIdle}
}

// State reports whether a checkout is currently in flight.
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Service) setState(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// Checkout runs the full materialization for the signed-in user.
func (s *Service) Checkout(ctx context.Context, user auth.User) (Result, error) {
	if user.ID == "" {
		return Result{}, ErrLoginRequired
	}

	items := s.cart.Items(ctx, user.ID)
	if len(items) == 0 {
		return Result{}, ErrEmptyCart
	}

	s.setState(StateSubmitting)
	defer s.setState(StateIdle)

	payload := buildPayload(user.ID, items)

	result := Result{Placement: Completed}
	placed, err := s.placer.PlaceOrder(ctx, payload)
	if err != nil {
		// Any remote failure degrades to a locally synthesized order.
		log.Printf("[Checkout] Remote order failed, recording locally: %v", err)
		placed = payload
		placed.ID = uuid.New().String()
		result.Placement = LocalFallback
	}
	result.Order = placed

	s.history.Prepend(ctx, user.ID, placed)
	s.cart.Clear(ctx, user.ID)

	log.Printf("[Checkout] Order %s recorded (%s), total %.2f", placed.ID, result.Placement, placed.TotalAmount)
	return result, nil
}

// buildPayload converts cart line items into the order request.
func buildPayload(userID string, items []cart.LineItem) order.Order {
	orderItems := make([]order.Item, 0, len(items))
	for _, item := range items {
		orderItems = append(orderItems, order.Item{
			BookID:   item.BookID,
			Title:    item.Title,
			Price:    item.Price,
			Quantity: item.Quantity,
		})
	}
	return order.Order{
		UserID:      userID,
		OrderDate:   time.Now().Format("2006-01-02"),
		TotalAmount: cart.Total(items),
		Items:       orderItems,
	}
}
