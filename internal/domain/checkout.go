package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Confirmation records a simulated checkout. No payment is taken.
type Confirmation struct {
	ID          string          `json:"confirmation_id"`
	Lines       []CartLine      `json:"items"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	ItemCount   int             `json:"item_count"`
	ConfirmedAt time.Time       `json:"confirmed_at"`
}
