package domain

import "github.com/shopspring/decimal"

// LedgerProfile is a named statement source from the profiles file: where
// the export lives, which vendor format it uses and the balance the ledger
// opens with.
type LedgerProfile struct {
	Name           string
	Path           string
	Format         string
	Currency       string
	OpeningBalance decimal.Decimal
}
