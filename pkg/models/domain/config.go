package domain

import "github.com/shopspring/decimal"

type ForecastModel string

const (
	ModelLinear      ForecastModel = "linear"
	ModelExponential ForecastModel = "exponential"
)

type LiquidityWeights struct {
	Gap        float64
	Volatility float64
}

type CounterpartyWeights struct {
	Regularity    float64
	Concentration float64
	Overdue       float64
}

type RiskWeights struct {
	Liquidity    LiquidityWeights
	Counterparty CounterpartyWeights
}

// EngineConfig is the full configuration surface of one analysis run.
// Each weight group must sum to 1.0 and the rule table must be well formed;
// validation happens before any computation starts.
type EngineConfig struct {
	Granularity       Granularity
	ForecastHorizon   int
	LiquidityFloor    decimal.Decimal
	MinHistoryPeriods int
	Model             ForecastModel
	SmoothingFactor   float64
	CurrencyExponent  int32
	MaxTransactionAge int
	Weights           RiskWeights
	Rules             []Rule
}
