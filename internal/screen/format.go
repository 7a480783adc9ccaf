package screen

import "github.com/shopspring/decimal"

// FormatPrice renders an amount as dollars with two decimals, e.g. "$12.30".
func FormatPrice(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}
