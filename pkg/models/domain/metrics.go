package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type CategoryShare struct {
	Category string
	Amount   decimal.Decimal
	Share    decimal.Decimal // percent of total, 0-100
}

type CounterpartyVolume struct {
	CounterpartyID string
	Inflow         decimal.Decimal
	Outflow        decimal.Decimal
}

// DashboardMetrics is the aggregate view served to the dashboard: headline
// balances, the period cash-flow series and the largest categories and
// counterparties over the selected window.
type DashboardMetrics struct {
	CurrentBalance    decimal.Decimal
	TotalInflow       decimal.Decimal
	TotalOutflow      decimal.Decimal
	NetFlow           decimal.Decimal
	DaysOfCash        decimal.Decimal
	Cashflow          []LedgerBucket
	CategoryStructure []CategoryShare
	TopCounterparties []CounterpartyVolume
}

// GapSummary condenses the gap events of one analysis run into counts
// and extremes. NearestWindow is nil when the run found no gaps.
type GapSummary struct {
	Total         int
	Critical      int
	High          int
	Medium        int
	Low           int
	NearestWindow *time.Time
	WorstMinimum  decimal.Decimal
}
