package ledger

import (
	"fmt"
	"time"

	"github.com/VasiliyTop/AI-finanalitik/pkg/models/domain"
	"github.com/shopspring/decimal"
)

type periodFlows struct {
	inflow     decimal.Decimal
	outflow    decimal.Decimal
	categories map[string]decimal.Decimal
}

// Aggregate buckets transactions into a contiguous fixed-period ledger
// covering the earliest to the latest transaction date inclusive. Periods
// without transactions appear with zero flows and a carried-forward
// balance. The transform is pure and insensitive to input order.
func Aggregate(
	txns []domain.Transaction,
	g domain.Granularity,
	opening decimal.Decimal,
) ([]domain.LedgerBucket, error) {
	if _, err := domain.ParseGranularity(string(g)); err != nil {
		return nil, err
	}
	if len(txns) == 0 {
		return nil, fmt.Errorf("%w: aggregation needs at least one transaction", domain.ErrEmptyInput)
	}

	first := PeriodStart(txns[0].Date, g)
	last := first
	byPeriod := make(map[time.Time]*periodFlows)
	for _, t := range txns {
		p := PeriodStart(t.Date, g)
		if p.Before(first) {
			first = p
		}
		if p.After(last) {
			last = p
		}
		f := byPeriod[p]
		if f == nil {
			f = &periodFlows{categories: make(map[string]decimal.Decimal)}
			byPeriod[p] = f
		}
		if t.Amount.IsNegative() {
			f.outflow = f.outflow.Add(t.Amount.Neg())
		} else {
			f.inflow = f.inflow.Add(t.Amount)
		}
		f.categories[t.Category] = f.categories[t.Category].Add(t.Amount)
	}

	var buckets []domain.LedgerBucket
	balance := opening
	for p := first; !p.After(last); p = NextPeriodStart(p, g) {
		b := domain.LedgerBucket{
			PeriodStart:    p,
			PeriodEnd:      PeriodEnd(p, g),
			OpeningBalance: balance,
			CategoryFlows:  map[string]decimal.Decimal{},
		}
		if f, ok := byPeriod[p]; ok {
			b.InflowTotal = f.inflow
			b.OutflowTotal = f.outflow
			b.CategoryFlows = f.categories
		}
		b.ClosingBalance = b.OpeningBalance.Add(b.InflowTotal).Sub(b.OutflowTotal)
		balance = b.ClosingBalance
		buckets = append(buckets, b)
	}
	return buckets, nil
}

// TypicalOutflow is the mean outflow magnitude across buckets. The gap
// detector scales severity against it so thresholds track the ledger's own
// flow size instead of fixed amounts.
func TypicalOutflow(buckets []domain.LedgerBucket) decimal.Decimal {
	if len(buckets) == 0 {
		return decimal.Zero
	}
	total := decimal.Zero
	for _, b := range buckets {
		total = total.Add(b.OutflowTotal)
	}
	return total.Div(decimal.NewFromInt(int64(len(buckets))))
}
