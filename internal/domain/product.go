package domain

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Product is a catalog item as served by the catalog API.
type Product struct {
	ID          int             `json:"id"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
	Rating      Rating          `json:"rating"`
}

// Rating is the aggregate customer rating of a product.
type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// productFields drops Product's methods so the encoders below can embed it.
type productFields Product

// MarshalJSON writes the price as a JSON number, matching the catalog API.
func (p Product) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		productFields
		Price json.Number `json:"price"`
	}{productFields(p), json.Number(p.Price.String())})
}
