package risk

import (
	"github.com/VasiliyTop/AI-finanalitik/pkg/models/domain"
	"github.com/shopspring/decimal"
)

var (
	one     = decimal.New(1, 0)
	hundred = decimal.New(100, 0)
)

func severityBase(s domain.Severity) decimal.Decimal {
	switch s {
	case domain.SeverityCritical:
		return decimal.New(100, 0)
	case domain.SeverityHigh:
		return decimal.New(75, 0)
	case domain.SeverityMedium:
		return decimal.New(50, 0)
	default:
		return decimal.New(25, 0)
	}
}

// Recompute folds weighted factors back into the 0-100 score. Applying it
// to the factors carried by a RiskScore reproduces Score exactly; the fold
// is the output contract, not an implementation detail.
func Recompute(factors []domain.RiskFactor) decimal.Decimal {
	total := decimal.Zero
	for _, f := range factors {
		total = total.Add(f.Weight.Mul(f.Raw))
	}
	return clamp100(total.Round(2))
}

func clamp100(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	if d.GreaterThan(hundred) {
		return hundred
	}
	return d
}
