package risk

import (
	"math"

	"github.com/VasiliyTop/AI-finanalitik/pkg/models/domain"
	"github.com/shopspring/decimal"
)

// ScoreLiquidity rates the liquidity subject from the projected gap events
// and the volatility of historical closing balances. The gap factor takes
// the nearest event's severity, discounted by how much lead time remains;
// with no events it stays at zero and the score reflects volatility alone.
func ScoreLiquidity(buckets []domain.LedgerBucket, events []domain.GapEvent, horizon int, w domain.LiquidityWeights) domain.RiskScore {
	factors := []domain.RiskFactor{
		{Name: "gap", Weight: decimal.NewFromFloat(w.Gap), Raw: gapFactor(events, horizon)},
		{Name: "volatility", Weight: decimal.NewFromFloat(w.Volatility), Raw: volatilityFactor(buckets)},
	}
	return domain.RiskScore{
		Subject: domain.SubjectLiquidity,
		Score:   Recompute(factors),
		Factors: factors,
	}
}

func gapFactor(events []domain.GapEvent, horizon int) decimal.Decimal {
	if len(events) == 0 || horizon < 1 {
		return decimal.Zero
	}
	nearest := events[0]
	for _, e := range events[1:] {
		if e.LeadTimePeriods < nearest.LeadTimePeriods {
			nearest = e
		}
	}
	lead := decimal.NewFromInt(int64(nearest.LeadTimePeriods))
	span := decimal.NewFromInt(int64(2 * horizon))
	discount := one.Sub(lead.Div(span))
	return clamp100(severityBase(nearest.Severity).Mul(discount).Round(4))
}

// volatilityFactor maps the coefficient of variation of closing balances
// onto 0-100, saturating at cv = 0.5. A zero mean with nonzero spread is
// treated as maximal volatility.
func volatilityFactor(buckets []domain.LedgerBucket) decimal.Decimal {
	if len(buckets) < 2 {
		return decimal.Zero
	}
	closings := make([]float64, len(buckets))
	for i, b := range buckets {
		closings[i] = b.ClosingBalance.InexactFloat64()
	}
	sd := stdDev(closings)
	if sd == 0 {
		return decimal.Zero
	}
	m := mean(closings)
	if m == 0 {
		return hundred
	}
	cv := sd / math.Abs(m)
	return clamp100(decimal.NewFromFloat(200 * cv).Round(4))
}
