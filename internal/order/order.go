package order

import (
	"encoding/json"

	"github.com/example/bookshop-client/internal/util"
)

// Item is one purchased book inside an order.
type Item struct {
	BookID   string  `json:"bookId"`
	Title    string  `json:"title"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// Order is created once at checkout and never mutated afterwards.
type Order struct {
	ID          string  `json:"id"`
	UserID      string  `json:"userId"`
	OrderDate   string  `json:"orderDate"` // YYYY-MM-DD
	TotalAmount float64 `json:"totalAmount"`
	Items       []Item  `json:"items"`
}

// UnmarshalJSON tolerates numeric order and user ids; the backend hands out
// numeric database ids while locally synthesized orders carry strings.
func (o *Order) UnmarshalJSON(data []byte) error {
	type alias Order
	aux := struct {
		ID     json.RawMessage `json:"id"`
		UserID json.RawMessage `json:"userId"`
		*alias
	}{alias: (*alias)(o)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	o.ID = util.FlexibleID(aux.ID)
	o.UserID = util.FlexibleID(aux.UserID)
	return nil
}
