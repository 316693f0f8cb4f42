package ingest

import (
	"fmt"
	"time"

	"github.com/VasiliyTop/AI-finanalitik/pkg/models/domain"
)

type ValidationSettings struct {
	Now         time.Time
	MaxAgeYears int
}

func DefaultValidationSettings() ValidationSettings {
	return ValidationSettings{
		Now:         time.Now().UTC(),
		MaxAgeYears: 10,
	}
}

// Validate checks every parsed transaction against the same date window
// the engine enforces and drops exact duplicates, keeping the first
// occurrence. Duplicates match on date, amount, counterparty and source
// document; the category alone never distinguishes two rows. Row numbers
// in errors are 1-based over the parsed set.
//
// Non-finite amounts need no check here: they cannot survive parsing
// into a decimal in the first place.
func Validate(txns []domain.Transaction, settings ValidationSettings) ([]domain.Transaction, error) {
	oldest := settings.Now.AddDate(-settings.MaxAgeYears, 0, 0)
	newest := settings.Now.AddDate(settings.MaxAgeYears, 0, 0)

	type dupKey struct {
		date         time.Time
		amount       string
		counterparty string
		document     string
	}
	seen := make(map[dupKey]struct{}, len(txns))
	out := make([]domain.Transaction, 0, len(txns))
	for i, t := range txns {
		row := i + 1
		if t.Date.IsZero() {
			return nil, fmt.Errorf("%w: row %d has no date", domain.ErrInvalidTransaction, row)
		}
		if t.Date.Before(oldest) || t.Date.After(newest) {
			return nil, fmt.Errorf("%w: row %d dated %s is outside the accepted window",
				domain.ErrInvalidTransaction, row, t.Date.Format("2006-01-02"))
		}
		key := dupKey{t.Date, t.Amount.String(), t.CounterpartyID, t.SourceDocumentID}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t)
	}
	return out, nil
}
