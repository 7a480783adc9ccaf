package domain

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// CartLine is a product in the cart together with its quantity. The product
// fields are flattened into the line when encoded.
type CartLine struct {
	Product
	Quantity int `json:"quantity"`
}

// MarshalJSON keeps the quantity alongside the flattened product fields.
func (l CartLine) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		productFields
		Price    json.Number `json:"price"`
		Quantity int         `json:"quantity"`
	}{productFields(l.Product), json.Number(l.Price.String()), l.Quantity})
}

// LineTotal returns price times quantity.
func (l CartLine) LineTotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is the ordered collection of lines. Lines keep insertion order and
// hold at most one entry per product ID.
type Cart struct {
	Lines []CartLine `json:"items"`
}

// TotalPrice sums price times quantity over every line.
func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.Lines {
		total = total.Add(line.LineTotal())
	}
	return total
}

// ItemCount returns the total number of units in the cart.
func (c *Cart) ItemCount() int {
	var count int
	for _, line := range c.Lines {
		count += line.Quantity
	}
	return count
}

// FindLine returns the index of the line for productID, or -1.
func (c *Cart) FindLine(productID int) int {
	for i := range c.Lines {
		if c.Lines[i].ID == productID {
			return i
		}
	}
	return -1
}

// NormalizeLines drops lines with a non-positive quantity and merges lines
// sharing a product ID into the first occurrence. Order is preserved.
func NormalizeLines(lines []CartLine) []CartLine {
	out := make([]CartLine, 0, len(lines))
	index := make(map[int]int, len(lines))

	for _, line := range lines {
		if line.Quantity <= 0 {
			continue
		}
		if i, ok := index[line.ID]; ok {
			out[i].Quantity += line.Quantity
			continue
		}
		index[line.ID] = len(out)
		out = append(out, line)
	}

	return out
}
