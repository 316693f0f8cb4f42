package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/VasiliyTop/AI-finanalitik/pkg/models/domain"
	"github.com/shopspring/decimal"
)

// adeskSynonyms covers the header variants seen across bookkeeping
// exports: semicolon-separated, Russian column names, dd.mm.yyyy dates
// and comma decimal separators.
var adeskSynonyms = map[string]string{
	"дата":            "date",
	"дата операции":   "date",
	"date":            "date",
	"сумма":           "amount",
	"сумма операции":  "amount",
	"amount":          "amount",
	"приход":          "income",
	"поступление":     "income",
	"расход":          "expense",
	"списание":        "expense",
	"тип":             "kind",
	"тип операции":    "kind",
	"категория":       "category",
	"статья":          "category",
	"контрагент":      "counterparty",
	"плательщик":      "counterparty",
	"документ":        "document",
	"номер документа": "document",
}

type adeskParser struct{}

func NewAdeskParser() Parser {
	return &adeskParser{}
}

func (p *adeskParser) Parse(ctx context.Context, r io.Reader) ([]domain.Transaction, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read adesk export: %w", err)
	}

	cols := positionalColumns()
	start := 0
	if len(rows) > 0 {
		if resolved, ok := resolveColumns(rows[0], adeskSynonyms); ok {
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

		date, err := parseAdeskDate(field(row, cols.date))
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", domain.ErrInvalidTransaction, line, err)
		}
		amount, err := adeskRowAmount(row, cols)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", domain.ErrInvalidTransaction, line, err)
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

// adeskRowAmount resolves the signed amount of one row. Exports carry
// either a signed Сумма column, possibly qualified by a Тип column, or a
// Приход/Расход pair where the expense side is recorded positive.
func adeskRowAmount(row []string, cols columns) (decimal.Decimal, error) {
	income := field(row, cols.income)
	expense := field(row, cols.expense)
	if income != "" || expense != "" {
		total := decimal.Zero
		if income != "" {
			v, err := parseAdeskAmount(income)
			if err != nil {
				return decimal.Decimal{}, fmt.Errorf("bad income amount %q", income)
			}
			total = total.Add(v)
		}
		if expense != "" {
			v, err := parseAdeskAmount(expense)
			if err != nil {
				return decimal.Decimal{}, fmt.Errorf("bad expense amount %q", expense)
			}
			total = total.Sub(v.Abs())
		}
		return total, nil
	}

	raw := field(row, cols.amount)
	if raw == "" {
		return decimal.Decimal{}, fmt.Errorf("missing amount")
	}
	v, err := parseAdeskAmount(raw)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("bad amount %q", raw)
	}
	if isExpenseKind(field(row, cols.kind)) && v.IsPositive() {
		v = v.Neg()
	}
	return v, nil
}

var adeskAmountCleaner = strings.NewReplacer(" ", "", " ", "", ",", ".")

func parseAdeskAmount(raw string) (decimal.Decimal, error) {
	cleaned := adeskAmountCleaner.Replace(strings.TrimSpace(raw))
	if cleaned == "" {
		return decimal.Decimal{}, fmt.Errorf("empty amount")
	}
	return decimal.NewFromString(cleaned)
}

func parseAdeskDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, fmt.Errorf("missing date")
	}
	token := raw
	if i := strings.IndexByte(token, ' '); i > 0 {
		token = token[:i]
	}
	date, err := time.Parse("02.01.2006", token)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad date %q", raw)
	}
	return date, nil
}

func isExpenseKind(kind string) bool {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "расход", "списание", "expense":
		return true
	}
	return false
}
