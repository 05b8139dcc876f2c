// Package history builds the read-only view of every stored transaction.
package history

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"poscounter/internal/data"
	"poscounter/internal/money"
)

// Lister reads the full transaction log in id order.
type Lister interface {
	ListAll(ctx context.Context) ([]data.TransactionRecord, error)
}

// Row is a record prepared for display.
type Row struct {
	data.TransactionRecord
	CostDisplay string
}

type View struct {
	Rows       []Row
	Count      int
	GrandTotal decimal.Decimal
}

// FormattedTotal renders the grand total with separators.
func (v View) FormattedTotal() string {
	return money.FormatDecimal(v.GrandTotal)
}

// Build keeps records in the given order and sums their costs exactly.
func Build(records []data.TransactionRecord) View {
	v := View{
		Rows:       make([]Row, 0, len(records)),
		Count:      len(records),
		GrandTotal: decimal.Zero,
	}
	for _, rec := range records {
		cost := decimal.NewFromFloat(rec.Cost)
		v.GrandTotal = v.GrandTotal.Add(cost)
		v.Rows = append(v.Rows, Row{TransactionRecord: rec, CostDisplay: money.FormatDecimal(cost)})
	}
	return v
}

type Viewer struct {
	store Lister
}

func NewViewer(store Lister) *Viewer {
	return &Viewer{store: store}
}

// Load reads the whole log and builds its view.
func (v *Viewer) Load(ctx context.Context) (View, error) {
	records, err := v.store.ListAll(ctx)
	if err != nil {
		return View{}, fmt.Errorf("failed to load transaction history: %w", err)
	}
	return Build(records), nil
}
