package history

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poscounter/internal/data"
)

type fakeLister struct {
	recs []data.TransactionRecord
	err  error
}

func (f fakeLister) ListAll(context.Context) ([]data.TransactionRecord, error) {
	return f.recs, f.err
}

func TestBuild(t *testing.T) {
	recs := []data.TransactionRecord{
		{ID: 1, Item: "Tea", Quantity: 4, Cost: 40, Mode: "Dine-in", Timestamp: "2026-10-18 12:30:00"},
		{ID: 2, Item: "Coffee", Quantity: 48, Cost: 1200, Mode: "Parcel", Timestamp: "2026-10-18 12:31:00"},
		{ID: 3, Item: "Vada", Quantity: 1, Cost: 0.1, Mode: "Parcel", Timestamp: "2026-10-18 12:32:00"},
	}

	v := Build(recs)
	assert.Equal(t, 3, v.Count)
	require.Len(t, v.Rows, 3)
	for i, row := range v.Rows {
		assert.Equal(t, recs[i], row.TransactionRecord)
	}
	assert.Equal(t, "₹1,200", v.Rows[1].CostDisplay)
	assert.True(t, v.GrandTotal.Equal(decimal.RequireFromString("1240.1")), v.GrandTotal.String())
	assert.Equal(t, "₹1,240.1", v.FormattedTotal())
}

func TestBuildEmpty(t *testing.T) {
	v := Build(nil)
	assert.Zero(t, v.Count)
	assert.Empty(t, v.Rows)
	assert.Equal(t, "₹0", v.FormattedTotal())
}

func TestViewerLoad(t *testing.T) {
	v, err := NewViewer(fakeLister{recs: []data.TransactionRecord{{ID: 1, Item: "Tea", Quantity: 1, Cost: 10}}}).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, v.Count)

	_, err = NewViewer(fakeLister{err: errors.New("locked")}).Load(context.Background())
	assert.Error(t, err)
}
