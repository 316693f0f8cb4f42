package analysis

import (
	"database/sql"

	"github.com/VasiliyTop/AI-finanalitik/pkg/store/duckdb/runs"
	"github.com/VasiliyTop/AI-finanalitik/pkg/store/duckdb/transactions"
)

// Stores hands out ledger-bound store views. The indirection keeps the
// router testable without a live database.
type Stores interface {
	Transactions(ledger string) (transactions.Store, error)
	Runs(ledger string) (runs.Store, error)
}

type duckdbStores struct {
	db *sql.DB
}

func NewStores(db *sql.DB) Stores {
	return &duckdbStores{db: db}
}

func (s *duckdbStores) Transactions(ledger string) (transactions.Store, error) {
	return transactions.NewLedgerStore(s.db, ledger)
}

func (s *duckdbStores) Runs(ledger string) (runs.Store, error) {
	return runs.NewLedgerStore(s.db, ledger)
}
