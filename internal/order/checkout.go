package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"poscounter/internal/cart"
	"poscounter/internal/data"
	"poscounter/internal/logger"
)

var (
	// ErrEmptyCart is returned when checkout is attempted with no lines.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrPersistence wraps any store failure; the cart is left as it was.
	ErrPersistence = errors.New("could not save transaction")
)

// Recorder persists a checkout's records atomically.
type Recorder interface {
	AppendBatch(ctx context.Context, recs []data.TransactionRecord) ([]int64, error)
}

// Checkout snapshots c into a receipt, stores one record per line stamped
// with now (rendered in loc), and clears c once the store has accepted
// every record.
func Checkout(ctx context.Context, c *cart.Cart, store Recorder, now time.Time, loc *time.Location) (*Receipt, error) {
	if c.IsEmpty() {
		return nil, ErrEmptyCart
	}

	receipt := newReceipt(c.Lines(), now, loc)

	stamp := data.FormatTimestamp(now, loc)
	recs := make([]data.TransactionRecord, 0, len(receipt.Lines))
	for _, l := range receipt.Lines {
		recs = append(recs, data.TransactionRecord{
			Item:      l.ItemName,
			Quantity:  l.Quantity,
			Cost:      float64(l.TotalCost),
			Mode:      l.Mode.String(),
			Timestamp: stamp,
		})
	}

	ids, err := store.AppendBatch(ctx, recs)
	if err != nil {
		logger.LogError("Checkout of %d lines failed, cart kept: %v", len(recs), err)
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	receipt.RecordIDs = ids

	c.Clear()
	logger.LogInfo("Checkout stored %d lines, grand total %d", len(recs), receipt.Total)
	return receipt, nil
}
