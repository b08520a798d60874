package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/bookshop-client/internal/order"
)

func TestListBooks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/books/all", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":7,"title":"Thinking, Fast and Slow","price":525,"stock":6}]`))
	}))
	defer srv.Close()

	books, err := NewClient(srv.URL).ListBooks(context.Background())

	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "7", books[0].ID)
	assert.Equal(t, 6, books[0].Stock)
}

func TestLogin_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/users/login", r.URL.Path)

		var creds Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "asha@example.com", creds.Email)
		assert.Equal(t, "buyer", creds.Role)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":42,"name":"Asha","email":"asha@example.com","role":"buyer"}`))
	}))
	defer srv.Close()

	user, err := NewClient(srv.URL).Login(context.Background(), Credentials{
		Email: "asha@example.com", Password: "secret1", Role: "buyer",
	})

	require.NoError(t, err)
	assert.Equal(t, "42", user.ID)
	assert.Equal(t, "Asha", user.Name)
}

func TestLogin_FailureSurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Invalid email or password"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Login(context.Background(), Credentials{Email: "x@y.z", Password: "nope"})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "Invalid email or password", apiErr.Message)
}

func TestAddToCart_SendsMirrorPayload(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/cart/add", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	err := NewClient(srv.URL).AddToCart(context.Background(), "42", "7")

	require.NoError(t, err)
	assert.Equal(t, map[string]string{"userId": "42", "bookId": "7"}, got)
}

func TestPlaceOrder_ReturnsServerRecord(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/orders/place", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":9001,"userId":42,"orderDate":"2026-09-01","totalAmount":450,"items":[]}`))
	}))
	defer srv.Close()

	placed, err := NewClient(srv.URL).PlaceOrder(context.Background(), order.Order{UserID: "42", TotalAmount: 450})

	require.NoError(t, err)
	assert.Equal(t, "9001", placed.ID)
	assert.Equal(t, 450.0, placed.TotalAmount)
}

func TestPlaceOrder_NonSuccessStatusIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).PlaceOrder(context.Background(), order.Order{})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Contains(t, apiErr.Message, "500")
}

func TestFetchOrders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/orders/user/42", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":1,"userId":42,"totalAmount":100,"items":[]}]`))
	}))
	defer srv.Close()

	orders, err := NewClient(srv.URL).FetchOrders(context.Background(), "42")

	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "1", orders[0].ID)
}

func TestSetToken_AddsAuthorizationHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	c.SetToken("tok-123")
	_, err := c.ListBooks(context.Background())

	require.NoError(t, err)
}
