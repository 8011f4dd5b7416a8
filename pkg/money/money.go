// Package money holds the few amount helpers that need exact decimal math.
// Amounts are whole XAF units; there is no minor unit.
package money

import "github.com/shopspring/decimal"

// Currency is the single settlement currency of the storefront.
const Currency = "XAF"

var hundred = decimal.NewFromInt(100)

// CompareAtPrice returns the pre-discount price implied by a selling price and a
// percentage discount, rounded half-up to a whole unit. Discounts outside 1..99
// have no meaningful compare-at price and return the selling price unchanged.
func CompareAtPrice(price int64, discountPct int) int64 {
	if discountPct <= 0 || discountPct >= 100 || price <= 0 {
		return price
	}
	remaining := hundred.Sub(decimal.NewFromInt(int64(discountPct)))
	return decimal.NewFromInt(price).Mul(hundred).Div(remaining).Round(0).IntPart()
}

// Savings is the difference between the compare-at price and the selling price.
func Savings(price int64, discountPct int) int64 {
	return CompareAtPrice(price, discountPct) - price
}
