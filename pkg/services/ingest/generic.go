package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/VasiliyTop/AI-finanalitik/pkg/models/domain"
	"github.com/shopspring/decimal"
)

var genericSynonyms = map[string]string{
	"date":            "date",
	"booked_at":       "date",
	"booking_date":    "date",
	"amount":          "amount",
	"value":           "amount",
	"sum":             "amount",
	"category":        "category",
	"counterparty":    "counterparty",
	"counterparty_id": "counterparty",
	"payee":           "counterparty",
	"document":        "document",
	"document_id":     "document",
	"reference":       "document",
}

// genericParser reads plain comma-separated exports with dot decimals
// and ISO dates, either date-only or full RFC3339 stamps.
type genericParser struct{}

func NewGenericParser() Parser {
	return &genericParser{}
}

func (p *genericParser) Parse(ctx context.Context, r io.Reader) ([]domain.Transaction, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read statement: %w", err)
	}

	cols := positionalColumns()
	start := 0
	if len(rows) > 0 {
		if resolved, ok := resolveColumns(rows[0], genericSynonyms); ok {
			cols = resolved
			start = 1
		}
	}

	txns := make([]domain.Transaction, 0, len(rows))
	for i := start; i < len(rows); i++ {
		row := rows[i]
		if isBlank(row) {
			continue
		}
		line := i + 1

		date, err := parseGenericDate(field(row, cols.date))
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", domain.ErrInvalidTransaction, line, err)
		}

		raw := field(row, cols.amount)
		if raw == "" {
			return nil, fmt.Errorf("%w: line %d: missing amount", domain.ErrInvalidTransaction, line)
		}
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: bad amount %q", domain.ErrInvalidTransaction, line, raw)
		}

		txns = append(txns, domain.Transaction{
			Date:             date,
			Amount:           amount,
			Category:         field(row, cols.category),
			CounterpartyID:   field(row, cols.counterparty),
			SourceDocumentID: field(row, cols.document),
		})
	}
	return txns, nil
}

func parseGenericDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, fmt.Errorf("missing date")
	}
	if date, err := time.Parse("2006-01-02", raw); err == nil {
		return date, nil
	}
	date, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad date %q", raw)
	}
	return date.UTC(), nil
}
