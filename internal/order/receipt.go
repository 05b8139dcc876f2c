package order

import (
	"strings"
	"time"

	"poscounter/internal/cart"
	"poscounter/internal/data"
	"poscounter/internal/money"
)

// Receipt is the read-only result of a checkout.
type Receipt struct {
	Lines     []cart.Line
	Total     int64
	IssuedAt  string
	RecordIDs []int64
}

func newReceipt(lines []cart.Line, now time.Time, loc *time.Location) *Receipt {
	r := &Receipt{
		Lines:    lines,
		IssuedAt: data.FormatTimestamp(now, loc),
	}
	for _, l := range lines {
		r.Total += l.TotalCost
	}
	return r
}

// FormattedTotal renders the grand total with separators.
func (r *Receipt) FormattedTotal() string {
	return money.Format(r.Total)
}

// Text renders the receipt as plain text.
func (r *Receipt) Text() string {
	var b strings.Builder
	b.WriteString("Receipt ")
	b.WriteString(r.IssuedAt)
	b.WriteString("\n")
	for _, l := range r.Lines {
		b.WriteString(l.Summary())
		b.WriteString("\n")
	}
	b.WriteString("Grand Total: ")
	b.WriteString(r.FormattedTotal())
	b.WriteString("\n")
	return b.String()
}
