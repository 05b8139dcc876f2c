package cart

import (
	"errors"
	"fmt"
	"math"

	"poscounter/internal/catalog"
	"poscounter/internal/money"
)

// ErrInvalidQuantity is returned for negative quantities and for amounts
// that would push a line past MaxLineQuantity or overflow a cost.
var ErrInvalidQuantity = errors.New("quantity must be a non-negative integer")

// MaxLineQuantity caps the units one line may hold.
const MaxLineQuantity = 10000

// PriceLookup resolves the unit price of an item for a mode.
type PriceLookup interface {
	LookupPrice(name string, mode catalog.Mode) (int64, error)
}

// Line is the aggregated entry for one (item, mode) pair.
type Line struct {
	ItemName  string       `json:"item"`
	Quantity  int          `json:"quantity"`
	UnitPrice int64        `json:"unit_price"`
	TotalCost int64        `json:"cost"`
	Mode      catalog.Mode `json:"-"`
}

// Summary renders the line as "name (mode): qty x ₹unit = ₹cost".
func (l Line) Summary() string {
	return fmt.Sprintf("%s (%s): %d x %s = %s",
		l.ItemName, l.Mode, l.Quantity, money.Format(l.UnitPrice), money.Format(l.TotalCost))
}

// Cart keeps lines in the order their pair was first added. It is owned by
// a single session and is not safe for concurrent use.
type Cart struct {
	lines []Line
}

func New() *Cart {
	return &Cart{}
}

// Add puts quantity units of name (sold under mode) into the cart, merging
// with an existing line for the same pair. A zero quantity is ignored and
// reported with added == false.
func (c *Cart) Add(prices PriceLookup, name string, quantity int, mode catalog.Mode) (line Line, added bool, err error) {
	if quantity < 0 {
		return Line{}, false, fmt.Errorf("%w: got %d for %q", ErrInvalidQuantity, quantity, name)
	}
	if quantity == 0 {
		return Line{}, false, nil
	}
	if quantity > MaxLineQuantity {
		return Line{}, false, fmt.Errorf("%w: %d for %q exceeds %d", ErrInvalidQuantity, quantity, name, MaxLineQuantity)
	}

	price, err := prices.LookupPrice(name, mode)
	if err != nil {
		return Line{}, false, err
	}
	if price > 0 && int64(quantity) > math.MaxInt64/price {
		return Line{}, false, fmt.Errorf("%w: cost of %d x %q overflows", ErrInvalidQuantity, quantity, name)
	}
	cost := int64(quantity) * price
	if total := c.Total(); total > math.MaxInt64-cost {
		return Line{}, false, fmt.Errorf("%w: cart total overflows adding %d x %q", ErrInvalidQuantity, quantity, name)
	}

	for i, existing := range c.lines {
		if existing.ItemName == name && existing.Mode == mode {
			if existing.Quantity > MaxLineQuantity-quantity {
				return Line{}, false, fmt.Errorf("%w: %q would reach %d units, limit is %d",
					ErrInvalidQuantity, name, existing.Quantity+quantity, MaxLineQuantity)
			}
			existing.Quantity += quantity
			existing.TotalCost += cost
			c.lines[i] = existing
			return existing, true, nil
		}
	}

	line = Line{
		ItemName:  name,
		Quantity:  quantity,
		UnitPrice: price,
		TotalCost: cost,
		Mode:      mode,
	}
	c.lines = append(c.lines, line)
	return line, true, nil
}

// Total sums the line costs.
func (c *Cart) Total() int64 {
	var total int64
	for _, l := range c.lines {
		total += l.TotalCost
	}
	return total
}

// Lines returns a snapshot of the current lines.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Clone returns an independent copy, used to stage several adds.
func (c *Cart) Clone() *Cart {
	return &Cart{lines: c.Lines()}
}

func (c *Cart) Len() int {
	return len(c.lines)
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

func (c *Cart) Clear() {
	c.lines = nil
}
