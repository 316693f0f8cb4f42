package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerBucket is one period of the aggregated cash ledger. Buckets form a
// contiguous ordered sequence; periods without transactions still appear,
// with zero flows and a carried-forward balance. OutflowTotal is a positive
// magnitude, so ClosingBalance = OpeningBalance + InflowTotal - OutflowTotal.
type LedgerBucket struct {
	PeriodStart    time.Time
	PeriodEnd      time.Time
	OpeningBalance decimal.Decimal
	InflowTotal    decimal.Decimal
	OutflowTotal   decimal.Decimal
	ClosingBalance decimal.Decimal
	CategoryFlows  map[string]decimal.Decimal
}
