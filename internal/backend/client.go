package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/example/bookshop-client/internal/auth"
	"github.com/example/bookshop-client/internal/catalog"
	"github.com/example/bookshop-client/internal/order"
)

// Client talks to the shop backend over HTTP. Every call is independently
// optional to the rest of the client: read paths fall back to local
// substitutes at their call sites, write paths are mirrored best-effort or
// synthesized locally. Only login and signup surface failures to the user.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// APIError is a non-success response from the backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// SetToken attaches a session token to subsequent requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

// SignupRequest is the registration request body.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// ListBooks fetches the catalog.
func (c *Client) ListBooks(ctx context.Context) ([]catalog.Book, error) {
	var books []catalog.Book
	if err := c.get(ctx, "/api/books/all", &books); err != nil {
		return nil, err
	}
	return books, nil
}

// Login authenticates and returns the user record.
func (c *Client) Login(ctx context.Context, creds Credentials) (auth.User, error) {
	var user auth.User
	if err := c.post(ctx, "/api/users/login", creds, &user); err != nil {
		return auth.User{}, err
	}
	return user, nil
}

// Signup registers a new account and returns the created user record.
func (c *Client) Signup(ctx context.Context, req SignupRequest) (auth.User, error) {
	var user auth.User
	if err := c.post(ctx, "/api/users/register", req, &user); err != nil {
		return auth.User{}, err
	}
	return user, nil
}

// AddToCart mirrors a local cart add to the backend. The response body is
// discarded; the local cart is authoritative.
func (c *Client) AddToCart(ctx context.Context, userID, bookID string) error {
	body := map[string]string{"userId": userID, "bookId": bookID}
	return c.post(ctx, "/api/cart/add", body, nil)
}

// PlaceOrder submits the order payload; the returned record carries the
// server-assigned id.
func (c *Client) PlaceOrder(ctx context.Context, payload order.Order) (order.Order, error) {
	var placed order.Order
	if err := c.post(ctx, "/api/orders/place", payload, &placed); err != nil {
		return order.Order{}, err
	}
	return placed, nil
}

// FetchOrders retrieves a user's order history.
func (c *Client) FetchOrders(ctx context.Context, userID string) ([]order.Order, error) {
	var orders []order.Order
	if err := c.get(ctx, "/api/orders/user/"+userID, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

// do executes the request, mapping non-2xx responses to *APIError and
// decoding a successful body into out when out is non-nil.
func (c *Client) do(req *http.Request, out any) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Status: resp.StatusCode, Message: errorMessage(resp)}
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", req.URL.Path, err)
	}
	return nil
}

// errorMessage extracts the backend's error message, with an HTTP status
// fallback when the body is empty or unparsable.
func errorMessage(resp *http.Response) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	return fmt.Sprintf("request failed with status %d", resp.StatusCode)
}
