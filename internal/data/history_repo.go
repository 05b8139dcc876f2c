package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// TransactionRecord is one persisted, immutable checkout line.
type TransactionRecord struct {
	ID        int64   `json:"id"`
	Item      string  `json:"item"`
	Quantity  int     `json:"quantity"`
	Cost      float64 `json:"cost"`
	Mode      string  `json:"mode"`
	Timestamp string  `json:"timestamp"`
}

var errInvalidRecord = errors.New("invalid transaction record")

func (rec TransactionRecord) validate() error {
	switch {
	case strings.TrimSpace(rec.Item) == "":
		return fmt.Errorf("%w: empty item", errInvalidRecord)
	case rec.Quantity < 1:
		return fmt.Errorf("%w: quantity %d for %q", errInvalidRecord, rec.Quantity, rec.Item)
	case rec.Mode == "":
		return fmt.Errorf("%w: empty mode for %q", errInvalidRecord, rec.Item)
	case rec.Timestamp == "":
		return fmt.Errorf("%w: empty timestamp for %q", errInvalidRecord, rec.Item)
	}
	return nil
}

// =============================================================================
// HISTORY REPOSITORY
// =============================================================================

// HistoryRepository appends to and reads the history table. Rows are never
// updated or deleted.
type HistoryRepository struct {
	db *sql.DB
}

// NewHistoryRepository binds to the connection opened by InitDB.
func NewHistoryRepository() (*HistoryRepository, error) {
	conn, err := GetDB()
	if err != nil {
		return nil, err
	}
	return &HistoryRepository{db: conn}, nil
}

const insertHistoryStmt = `
	INSERT INTO history (item, quantity, cost, mode, timestamp)
	VALUES (?, ?, ?, ?, ?)`

// Append inserts one record and returns its id.
func (r *HistoryRepository) Append(ctx context.Context, rec TransactionRecord) (int64, error) {
	if err := rec.validate(); err != nil {
		return 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, insertHistoryStmt,
		rec.Item, rec.Quantity, rec.Cost, rec.Mode, rec.Timestamp)
	if err != nil {
		return 0, fmt.Errorf("failed to insert history record: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read history id: %w", err)
	}
	return id, nil
}

// AppendBatch inserts all records in one transaction; either every record
// is stored or none is.
func (r *HistoryRepository) AppendBatch(ctx context.Context, recs []TransactionRecord) ([]int64, error) {
	for _, rec := range recs {
		if err := rec.validate(); err != nil {
			return nil, err
		}
	}
	if len(recs) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin history transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, insertHistoryStmt)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare history insert: %w", err)
	}
	defer stmt.Close()

	ids := make([]int64, 0, len(recs))
	for _, rec := range recs {
		res, err := stmt.ExecContext(ctx, rec.Item, rec.Quantity, rec.Cost, rec.Mode, rec.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("failed to insert history record %q: %w", rec.Item, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("failed to read history id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit history transaction: %w", err)
	}
	return ids, nil
}

// ListAll returns every record by ascending id.
func (r *HistoryRepository) ListAll(ctx context.Context) ([]TransactionRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	const stmt = `
		SELECT id, item, quantity, cost, mode, timestamp
		FROM history
		ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var out []TransactionRecord
	for rows.Next() {
		var rec TransactionRecord
		if err := rows.Scan(&rec.ID, &rec.Item, &rec.Quantity, &rec.Cost, &rec.Mode, &rec.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating history rows: %w", err)
	}
	return out, nil
}

// Count returns the number of stored records.
func (r *HistoryRepository) Count(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM history`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count history: %w", err)
	}
	return n, nil
}
