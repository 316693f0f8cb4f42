package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type Granularity string

const (
	GranularityDaily   Granularity = "daily"
	GranularityWeekly  Granularity = "weekly"
	GranularityMonthly Granularity = "monthly"
)

func ParseGranularity(s string) (Granularity, error) {
	switch g := Granularity(s); g {
	case GranularityDaily, GranularityWeekly, GranularityMonthly:
		return g, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidGranularity, s)
	}
}

// Transaction is a single normalized cash movement. Amount is signed:
// inflows positive, outflows negative.
type Transaction struct {
	Date             time.Time
	Amount           decimal.Decimal
	Category         string
	CounterpartyID   string
	SourceDocumentID string
}
