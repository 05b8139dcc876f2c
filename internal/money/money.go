// Package money formats rupee amounts for display.
package money

import (
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

const symbol = "₹"

// Format renders a whole-rupee amount with thousands separators.
func Format(amount int64) string {
	return symbol + humanize.Comma(amount)
}

// FormatDecimal renders d without decimals when it is whole, otherwise
// with two.
func FormatDecimal(d decimal.Decimal) string {
	if d.IsInteger() {
		return Format(d.IntPart())
	}
	return symbol + humanize.CommafWithDigits(d.Round(2).InexactFloat64(), 2)
}
