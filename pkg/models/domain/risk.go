package domain

import "github.com/shopspring/decimal"

// SubjectLiquidity is the reserved risk subject for the whole cash position;
// every other subject is a counterparty id.
const SubjectLiquidity = "liquidity"

// RiskFactor is one weighted input to a risk score. Raw is already
// normalized to the 0-100 scale, so Score = sum(Weight * Raw) rounded to
// two places reproduces the stored score exactly.
type RiskFactor struct {
	Name   string
	Weight decimal.Decimal
	Raw    decimal.Decimal
}

type RiskScore struct {
	Subject string
	Score   decimal.Decimal
	Factors []RiskFactor
}
