package catalog

import (
	"encoding/json"

	"github.com/example/bookshop-client/internal/util"
)

// Book is the catalog entry as served by the shop backend. Cart logic only
// consumes ID, Price and Stock; the rest is display data.
type Book struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Stock       int     `json:"stock"`
	Description string  `json:"description,omitempty"`
	Image       string  `json:"image,omitempty"`
}

// UnmarshalJSON accepts both string and numeric book ids; the backend serves
// numeric database ids while locally stored records carry strings.
func (b *Book) UnmarshalJSON(data []byte) error {
	type alias Book
	aux := struct {
		ID json.RawMessage `json:"id"`
		*alias
	}{alias: (*alias)(b)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	b.ID = util.FlexibleID(aux.ID)
	return nil
}
