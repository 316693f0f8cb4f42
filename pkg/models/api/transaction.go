package api

import (
	"time"

	"github.com/shopspring/decimal"
)

type Transaction struct {
	ID               string          `json:"id,omitempty"`
	Date             time.Time       `json:"date"`
	Amount           decimal.Decimal `json:"amount"`
	Category         string          `json:"category,omitempty"`
	CounterpartyID   string          `json:"counterparty_id,omitempty"`
	SourceDocumentID string          `json:"source_document_id,omitempty"`
}

type ImportResult struct {
	Format   string `json:"format"`
	Imported int    `json:"imported"`
	Skipped  int    `json:"skipped"`
}
