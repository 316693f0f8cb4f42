package risk

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/VasiliyTop/AI-finanalitik/pkg/models/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/maps"
)

// ScoreCounterparty rates one counterparty's payment behavior against the
// full transaction set: interval regularity, share of total flow, and
// payments inferred missing up to windowEnd. An id with no transactions
// is an error, not a zero score.
func ScoreCounterparty(txns []domain.Transaction, id string, windowEnd time.Time, w domain.CounterpartyWeights) (domain.RiskScore, error) {
	var own []domain.Transaction
	for _, t := range txns {
		if t.CounterpartyID == id {
			own = append(own, t)
		}
	}
	if len(own) == 0 {
		return domain.RiskScore{}, fmt.Errorf("%w: counterparty %q not present in transaction set", domain.ErrUnknownSubject, id)
	}
	sort.SliceStable(own, func(i, j int) bool { return own[i].Date.Before(own[j].Date) })

	intervals := dayIntervals(own)
	factors := []domain.RiskFactor{
		{Name: "regularity", Weight: decimal.NewFromFloat(w.Regularity), Raw: regularityFactor(intervals)},
		{Name: "concentration", Weight: decimal.NewFromFloat(w.Concentration), Raw: concentrationFactor(txns, id)},
		{Name: "overdue", Weight: decimal.NewFromFloat(w.Overdue), Raw: overdueFactor(own, intervals, windowEnd)},
	}
	return domain.RiskScore{Subject: id, Score: Recompute(factors), Factors: factors}, nil
}

// Counterparties lists the distinct non-empty counterparty ids in the set,
// sorted for stable iteration.
func Counterparties(txns []domain.Transaction) []string {
	set := make(map[string]struct{})
	for _, t := range txns {
		if t.CounterpartyID != "" {
			set[t.CounterpartyID] = struct{}{}
		}
	}
	ids := maps.Keys(set)
	sort.Strings(ids)
	return ids
}

func dayIntervals(own []domain.Transaction) []float64 {
	intervals := make([]float64, 0, len(own)-1)
	for i := 1; i < len(own); i++ {
		intervals = append(intervals, own[i].Date.Sub(own[i-1].Date).Hours()/24)
	}
	return intervals
}

// regularityFactor is the coefficient of variation of payment intervals
// scaled onto 0-100. Fewer than two intervals carries no signal.
func regularityFactor(intervals []float64) decimal.Decimal {
	if len(intervals) < 2 {
		return decimal.Zero
	}
	m := mean(intervals)
	if m <= 0 {
		return decimal.Zero
	}
	cv := stdDev(intervals) / m
	return clamp100(decimal.NewFromFloat(100 * cv).Round(4))
}

// concentrationFactor is the counterparty's share of total inflow or total
// outflow, whichever direction it predominantly occupies.
func concentrationFactor(txns []domain.Transaction, id string) decimal.Decimal {
	totalIn, totalOut := decimal.Zero, decimal.Zero
	cpIn, cpOut := decimal.Zero, decimal.Zero
	for _, t := range txns {
		if t.Amount.IsNegative() {
			v := t.Amount.Neg()
			totalOut = totalOut.Add(v)
			if t.CounterpartyID == id {
				cpOut = cpOut.Add(v)
			}
		} else {
			totalIn = totalIn.Add(t.Amount)
			if t.CounterpartyID == id {
				cpIn = cpIn.Add(t.Amount)
			}
		}
	}
	var share decimal.Decimal
	switch {
	case cpIn.GreaterThanOrEqual(cpOut) && totalIn.IsPositive():
		share = cpIn.Div(totalIn)
	case totalOut.IsPositive():
		share = cpOut.Div(totalOut)
	}
	return clamp100(share.Mul(hundred).Round(4))
}

// overdueFactor infers how many payments the counterparty's own cadence
// predicted over the observed span and charges for the shortfall. A payment
// only counts as missed once a full median interval has elapsed, so a
// counterparty observed right after paying is not penalized.
func overdueFactor(own []domain.Transaction, intervals []float64, windowEnd time.Time) decimal.Decimal {
	if len(intervals) == 0 {
		return decimal.Zero
	}
	med := median(intervals)
	if med <= 0 {
		return decimal.Zero
	}
	span := windowEnd.Sub(own[0].Date).Hours() / 24
	if span <= 0 {
		return decimal.Zero
	}
	expected := 1 + int(math.Floor(span/med))
	missed := expected - len(own)
	if missed <= 0 {
		return decimal.Zero
	}
	return clamp100(decimal.NewFromFloat(100 * float64(missed) / float64(expected)).Round(4))
}
