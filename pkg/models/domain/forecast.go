package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Basis string

const (
	BasisHistorical Basis = "historical"
	BasisProjected  Basis = "projected"
)

// ForecastPoint is one period of the projected balance series. Historical
// points restate a known closing balance with zero-width bounds; projected
// points carry uncertainty bounds that widen with horizon distance.
type ForecastPoint struct {
	PeriodStart      time.Time
	ProjectedBalance decimal.Decimal
	LowerBound       decimal.Decimal
	UpperBound       decimal.Decimal
	Basis            Basis
}

type CategoryFlowPoint struct {
	PeriodStart time.Time
	NetFlow     decimal.Decimal
}

// CategoryForecast is the projected net flow per future period for one
// category, reconciled so category flows sum to the aggregate forecast.
type CategoryForecast struct {
	Category string
	Flows    []CategoryFlowPoint
}

type Forecast struct {
	Points     []ForecastPoint
	Categories []CategoryForecast
}
