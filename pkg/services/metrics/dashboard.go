package metrics

import (
	"sort"

	"github.com/VasiliyTop/AI-finanalitik/pkg/models/domain"
	"github.com/VasiliyTop/AI-finanalitik/pkg/services/ledger"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/maps"
)

const otherCategory = "other"

var hundred = decimal.New(100, 0)

// Settings bounds the breadth of the dashboard listings, not the window;
// callers slice the transaction set before asking for metrics.
type Settings struct {
	TopCategories     int
	TopCounterparties int
}

func DefaultSettings() Settings {
	return Settings{
		TopCategories:     5,
		TopCounterparties: 5,
	}
}

// Dashboard folds a transaction window into the headline numbers served
// to the dashboard. The cash-flow series reuses the ledger aggregation,
// so its buckets obey the same balance identities as an analysis run.
func Dashboard(txns []domain.Transaction, g domain.Granularity, opening decimal.Decimal, s Settings) (domain.DashboardMetrics, error) {
	buckets, err := ledger.Aggregate(txns, g, opening)
	if err != nil {
		return domain.DashboardMetrics{}, err
	}

	totalIn, totalOut := decimal.Zero, decimal.Zero
	for _, b := range buckets {
		totalIn = totalIn.Add(b.InflowTotal)
		totalOut = totalOut.Add(b.OutflowTotal)
	}
	current := buckets[len(buckets)-1].ClosingBalance

	return domain.DashboardMetrics{
		CurrentBalance:    current,
		TotalInflow:       totalIn,
		TotalOutflow:      totalOut,
		NetFlow:           totalIn.Sub(totalOut),
		DaysOfCash:        daysOfCash(current, totalOut, buckets),
		Cashflow:          buckets,
		CategoryStructure: categoryStructure(txns, s.TopCategories),
		TopCounterparties: topCounterparties(txns, s.TopCounterparties),
	}, nil
}

// daysOfCash is the runway at the observed burn rate: closing balance
// divided by mean daily outflow across the window. A window without
// outflows has no meaningful runway and reports zero.
func daysOfCash(current, totalOut decimal.Decimal, buckets []domain.LedgerBucket) decimal.Decimal {
	if !totalOut.IsPositive() || !current.IsPositive() {
		return decimal.Zero
	}
	first := buckets[0].PeriodStart
	last := buckets[len(buckets)-1].PeriodEnd
	days := decimal.NewFromInt(int64(last.Sub(first).Hours()/24) + 1)
	if !days.IsPositive() {
		return decimal.Zero
	}
	dailyOut := totalOut.Div(days)
	return current.Div(dailyOut).Round(1)
}

// categoryStructure ranks categories by absolute flow volume and folds
// the long tail into a synthetic "other" entry. Shares are percentages
// of the total absolute volume.
func categoryStructure(txns []domain.Transaction, top int) []domain.CategoryShare {
	volumes := make(map[string]decimal.Decimal)
	for _, t := range txns {
		name := t.Category
		if name == "" {
			name = otherCategory
		}
		volumes[name] = volumes[name].Add(t.Amount.Abs())
	}
	if len(volumes) == 0 {
		return nil
	}

	total := decimal.Zero
	for _, v := range volumes {
		total = total.Add(v)
	}

	names := maps.Keys(volumes)
	sort.Slice(names, func(i, j int) bool {
		a, b := volumes[names[i]], volumes[names[j]]
		if !a.Equal(b) {
			return a.GreaterThan(b)
		}
		return names[i] < names[j]
	})

	shares := make([]domain.CategoryShare, 0, top+1)
	rest := decimal.Zero
	for i, name := range names {
		if top > 0 && i >= top {
			rest = rest.Add(volumes[name])
			continue
		}
		shares = append(shares, domain.CategoryShare{
			Category: name,
			Amount:   volumes[name],
			Share:    share(volumes[name], total),
		})
	}
	if rest.IsPositive() {
		shares = append(shares, domain.CategoryShare{
			Category: otherCategory,
			Amount:   rest,
			Share:    share(rest, total),
		})
	}
	return shares
}

func share(part, total decimal.Decimal) decimal.Decimal {
	if !total.IsPositive() {
		return decimal.Zero
	}
	return part.Mul(hundred).Div(total).Round(2)
}

// topCounterparties ranks counterparties by absolute volume across both
// directions. Transactions without a counterparty stay out of the list.
func topCounterparties(txns []domain.Transaction, top int) []domain.CounterpartyVolume {
	type volume struct {
		in  decimal.Decimal
		out decimal.Decimal
	}
	volumes := make(map[string]*volume)
	for _, t := range txns {
		if t.CounterpartyID == "" {
			continue
		}
		v, ok := volumes[t.CounterpartyID]
		if !ok {
			v = &volume{}
			volumes[t.CounterpartyID] = v
		}
		if t.Amount.IsNegative() {
			v.out = v.out.Add(t.Amount.Neg())
		} else {
			v.in = v.in.Add(t.Amount)
		}
	}
	if len(volumes) == 0 {
		return nil
	}

	ids := maps.Keys(volumes)
	sort.Slice(ids, func(i, j int) bool {
		a := volumes[ids[i]].in.Add(volumes[ids[i]].out)
		b := volumes[ids[j]].in.Add(volumes[ids[j]].out)
		if !a.Equal(b) {
			return a.GreaterThan(b)
		}
		return ids[i] < ids[j]
	})
	if top > 0 && len(ids) > top {
		ids = ids[:top]
	}

	out := make([]domain.CounterpartyVolume, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.CounterpartyVolume{
			CounterpartyID: id,
			Inflow:         volumes[id].in,
			Outflow:        volumes[id].out,
		})
	}
	return out
}
