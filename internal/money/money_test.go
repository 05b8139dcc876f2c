package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	assert.Equal(t, "₹0", Format(0))
	assert.Equal(t, "₹40", Format(40))
	assert.Equal(t, "₹1,200", Format(1200))
	assert.Equal(t, "₹1,234,567", Format(1234567))
}

func TestFormatDecimal(t *testing.T) {
	assert.Equal(t, "₹1,200", FormatDecimal(decimal.NewFromInt(1200)))
	assert.Equal(t, "₹12.5", FormatDecimal(decimal.RequireFromString("12.50")))
	assert.Equal(t, "₹1,000.25", FormatDecimal(decimal.RequireFromString("1000.25")))
}
