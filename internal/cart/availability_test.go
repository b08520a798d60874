package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/example/bookshop-client/internal/catalog"
)

func TestAvailableToAdd(t *testing.T) {
	tests := []struct {
		name  string
		book  catalog.Book
		items []LineItem
		want  int
	}{
		{
			"empty cart, full stock",
			catalog.Book{ID: "7", Stock: 3},
			nil,
			3,
		},
		{
			"partially committed",
			catalog.Book{ID: "7", Stock: 3},
			[]LineItem{{BookID: "7", Quantity: 1}},
			2,
		},
		{
			"fully committed",
			catalog.Book{ID: "7", Stock: 3},
			[]LineItem{{BookID: "7", Quantity: 3}},
			0,
		},
		{
			"overcommitted clamps to zero",
			catalog.Book{ID: "7", Stock: 3},
			[]LineItem{{BookID: "7", Quantity: 5}},
			0,
		},
		{
			"negative stock clamps to zero",
			catalog.Book{ID: "7", Stock: -2},
			nil,
			0,
		},
		{
			"zero stock",
			catalog.Book{ID: "7", Stock: 0},
			nil,
			0,
		},
		{
			"other books do not count",
			catalog.Book{ID: "7", Stock: 3},
			[]LineItem{{BookID: "8", Quantity: 3}},
			3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AvailableToAdd(tt.book, tt.items)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got, 0)
			if tt.book.Stock > 0 {
				assert.LessOrEqual(t, got, tt.book.Stock)
			}
		})
	}
}
