package api

import (
	"time"

	"github.com/shopspring/decimal"
)

type CategoryShare struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Share    decimal.Decimal `json:"share"`
}

type CounterpartyVolume struct {
	CounterpartyID string          `json:"counterparty_id"`
	Inflow         decimal.Decimal `json:"inflow"`
	Outflow        decimal.Decimal `json:"outflow"`
}

type GapSummary struct {
	Total         int             `json:"total"`
	Critical      int             `json:"critical"`
	High          int             `json:"high"`
	Medium        int             `json:"medium"`
	Low           int             `json:"low"`
	NearestWindow *time.Time      `json:"nearest_window,omitempty"`
	WorstMinimum  decimal.Decimal `json:"worst_minimum"`
}

type DashboardMetrics struct {
	CurrentBalance    decimal.Decimal      `json:"current_balance"`
	TotalInflow       decimal.Decimal      `json:"total_inflow"`
	TotalOutflow      decimal.Decimal      `json:"total_outflow"`
	NetFlow           decimal.Decimal      `json:"net_flow"`
	DaysOfCash        decimal.Decimal      `json:"days_of_cash"`
	Cashflow          []LedgerBucket       `json:"cashflow"`
	CategoryStructure []CategoryShare      `json:"category_structure"`
	TopCounterparties []CounterpartyVolume `json:"top_counterparties"`
	GapSummary        *GapSummary          `json:"gap_summary,omitempty"`
}
