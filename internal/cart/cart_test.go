package cart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/bookshop-client/internal/storage"
)

func TestLoad_MissingKeyYieldsEmptyCart(t *testing.T) {
	store := storage.NewMemory()

	items := Load(context.Background(), store, "u1")

	assert.Empty(t, items)
}

func TestLoad_MalformedDataYieldsEmptyCart(t *testing.T) {
	store := storage.NewMemory()
	ctx := context.Background()

	tests := []struct {
		name string
		raw  string
	}{
		{"not json", "{{{"},
		{"not an array", `{"bookId":"7"}`},
		{"wrong element type", `["a","b"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, store.Set(ctx, Key("u1"), []byte(tt.raw)))
			assert.Empty(t, Load(ctx, store, "u1"))
		})
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	store := storage.NewMemory()
	ctx := context.Background()

	items := []LineItem{
		{BookID: "1", Title: "Clean Code", Author: "Robert C. Martin", Price: 499, Stock: 8, Quantity: 2},
		{BookID: "3", Title: "The Alchemist", Author: "Paulo Coelho", Price: 299, Stock: 20, Quantity: 1},
	}
	Save(ctx, store, "u1", items)

	got := Load(ctx, store, "u1")

	assert.Equal(t, items, got)
}

func TestLoad_SanitizesDuplicatesAndNonPositiveQuantities(t *testing.T) {
	store := storage.NewMemory()
	ctx := context.Background()

	raw := `[
		{"bookId":"7","quantity":2,"stock":3},
		{"bookId":"7","quantity":5,"stock":3},
		{"bookId":"8","quantity":0},
		{"bookId":"","quantity":1},
		{"bookId":"9","quantity":-4}
	]`
	require.NoError(t, store.Set(ctx, Key("u1"), []byte(raw)))

	items := Load(ctx, store, "u1")

	require.Len(t, items, 1)
	assert.Equal(t, "7", items[0].BookID)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestTotalAndCount(t *testing.T) {
	items := []LineItem{
		{BookID: "1", Price: 200, Quantity: 2},
		{BookID: "2", Price: 50, Quantity: 1},
	}

	assert.Equal(t, 450.0, Total(items))
	assert.Equal(t, 3, Count(items))
	assert.Equal(t, 0.0, Total(nil))
	assert.Equal(t, 0, Count(nil))
}
