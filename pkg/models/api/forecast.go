package api

import (
	"time"

	"github.com/shopspring/decimal"
)

type Basis string

const (
	BasisHistorical Basis = "historical"
	BasisProjected  Basis = "projected"
)

type ForecastPoint struct {
	PeriodStart      time.Time       `json:"period_start"`
	ProjectedBalance decimal.Decimal `json:"projected_balance"`
	LowerBound       decimal.Decimal `json:"lower_bound"`
	UpperBound       decimal.Decimal `json:"upper_bound"`
	Basis            Basis           `json:"basis"`
}

type CategoryFlowPoint struct {
	PeriodStart time.Time       `json:"period_start"`
	NetFlow     decimal.Decimal `json:"net_flow"`
}

type CategoryForecast struct {
	Category string              `json:"category"`
	Flows    []CategoryFlowPoint `json:"flows"`
}

type Forecast struct {
	Points     []ForecastPoint    `json:"points"`
	Categories []CategoryForecast `json:"categories,omitempty"`
}

type LedgerBucket struct {
	PeriodStart    time.Time                  `json:"period_start"`
	PeriodEnd      time.Time                  `json:"period_end"`
	OpeningBalance decimal.Decimal            `json:"opening_balance"`
	InflowTotal    decimal.Decimal            `json:"inflow_total"`
	OutflowTotal   decimal.Decimal            `json:"outflow_total"`
	ClosingBalance decimal.Decimal            `json:"closing_balance"`
	CategoryFlows  map[string]decimal.Decimal `json:"category_flows,omitempty"`
}
