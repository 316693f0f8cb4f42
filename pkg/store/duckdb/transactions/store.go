package transactions

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/VasiliyTop/AI-finanalitik/pkg/store/duckdb"

	"github.com/VasiliyTop/AI-finanalitik/pkg/models/store"
)

// Store supports both ingestion (Add) and read (List, GetStats) operations
// for ledger transactions in DuckDB. For read operations, bind the store to
// a specific ledger via NewLedgerStore.
// Note: Add still accepts the ledger parameter so importers can fan batches
// across ledgers through one handle.
type Store interface {
	Add(ctx context.Context, ledger string, records []store.Transaction) (int, error)
	List(ctx context.Context, from, to time.Time) ([]store.Transaction, error)
	GetStats(ctx context.Context) (*store.TransactionStats, error)
}

type transactionStore struct {
	db     *sql.DB
	ledger string // optional; required for read methods
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &transactionStore{
		db: db,
	}, nil
}

// NewLedgerStore returns a Store bound to a specific ledger for read operations
func NewLedgerStore(db *sql.DB, ledger string) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	if ledger == "" {
		return nil, fmt.Errorf("ledger is required for read store")
	}
	return &transactionStore{
		db:     db,
		ledger: ledger,
	}, nil
}

// Add inserts records and reports how many were actually stored. Records
// whose id already exists in the ledger are left untouched, which is what
// makes re-importing the same statement safe.
func (s *transactionStore) Add(ctx context.Context, ledger string, records []store.Transaction) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	tx := duckdb.GetTransaction(ctx)
	query := `
		INSERT OR IGNORE INTO transactions (
			id, ledger, booked_at, amount, category, counterparty, source_document
		) VALUES (
			?, ?, ?, ?, ?, ?, ?
		)`

	var stmt *sql.Stmt
	var err error
	if tx == nil {
		stmt, err = s.db.PrepareContext(ctx, query)
	} else {
		stmt, err = tx.PrepareContext(ctx, query)
	}

	if err != nil {
		return 0, fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, record := range records {
		res, err := stmt.ExecContext(ctx,
			record.ID,
			ledger,
			record.Date,
			record.Amount,
			record.Category,
			record.CounterpartyID,
			record.SourceDocumentID,
		)
		if err != nil {
			return inserted, fmt.Errorf("insert transaction: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return inserted, fmt.Errorf("rows affected: %w", err)
		}
		inserted += int(affected)
	}

	return inserted, nil
}

func (s *transactionStore) ensureLedger() error {
	if s.ledger == "" {
		return fmt.Errorf("read operation requires ledger-bound store; use NewLedgerStore")
	}
	return nil
}

// List returns the ledger's transactions inside the window, oldest first.
// A zero from or to leaves that side of the window open.
func (s *transactionStore) List(ctx context.Context, from, to time.Time) ([]store.Transaction, error) {
	if err := s.ensureLedger(); err != nil {
		return nil, err
	}
	query := `
		SELECT id, booked_at, amount, category, counterparty, source_document
		FROM transactions
		WHERE ledger = ?
	`
	args := []interface{}{s.ledger}
	if !from.IsZero() {
		query += " AND booked_at >= ?"
		args = append(args, from)
	}
	if !to.IsZero() {
		query += " AND booked_at <= ?"
		args = append(args, to)
	}
	query += " ORDER BY booked_at, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()
	return scanTransactionRows(rows)
}

func (s *transactionStore) GetStats(ctx context.Context) (*store.TransactionStats, error) {
	if err := s.ensureLedger(); err != nil {
		return nil, err
	}
	query := `
		SELECT COUNT(*) as total_records, MIN(booked_at) as earliest_record, MAX(booked_at) as latest_record
		FROM transactions
		WHERE ledger = ?
	`
	var total int64
	var earliest, latest sql.NullTime
	if err := s.db.QueryRowContext(ctx, query, s.ledger).Scan(&total, &earliest, &latest); err != nil {
		return nil, fmt.Errorf("get transaction stats: %w", err)
	}
	stats := &store.TransactionStats{RecordsCount: total}
	if earliest.Valid {
		t := earliest.Time
		stats.FirstRecordDate = &t
	}
	if latest.Valid {
		t := latest.Time
		stats.LastRecordDate = &t
	}
	return stats, nil
}

func scanTransactionRows(rows *sql.Rows) ([]store.Transaction, error) {
	records := make([]store.Transaction, 0)
	for rows.Next() {
		var (
			id, amount                     string
			category, counterparty, source sql.NullString
			bookedAt                       time.Time
		)
		if err := rows.Scan(&id, &bookedAt, &amount, &category, &counterparty, &source); err != nil {
			return nil, err
		}
		records = append(records, store.Transaction{
			ID:               id,
			Date:             bookedAt,
			Amount:           amount,
			Category:         category.String,
			CounterpartyID:   counterparty.String,
			SourceDocumentID: source.String,
		})
	}
	return records, rows.Err()
}
