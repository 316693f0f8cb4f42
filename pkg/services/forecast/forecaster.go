package forecast

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/VasiliyTop/AI-finanalitik/pkg/models/domain"
	"github.com/VasiliyTop/AI-finanalitik/pkg/services/ledger"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/maps"
)

type Settings struct {
	MinHistoryPeriods int
	Model             domain.ForecastModel
	SmoothingFactor   float64
	CurrencyExponent  int32
}

func DefaultSettings() Settings {
	return Settings{
		MinHistoryPeriods: 8,
		Model:             domain.ModelLinear,
		SmoothingFactor:   0.3,
		CurrencyExponent:  2,
	}
}

// Project echoes the historical ledger as zero-width forecast points and
// extends it horizon periods forward. The projection is trend plus a
// seasonal offset once history spans two full cycles; uncertainty bounds
// widen with sqrt of the horizon distance scaled by the historical delta
// volatility. Trend math runs in float64, every emitted value is
// re-quantized to the currency minor unit.
func Project(
	buckets []domain.LedgerBucket,
	g domain.Granularity,
	horizon int,
	s Settings,
) (domain.Forecast, error) {
	if horizon < 1 {
		return domain.Forecast{}, fmt.Errorf("%w: forecast horizon must be positive", domain.ErrInvalidConfiguration)
	}
	if len(buckets) == 0 || len(buckets) < s.MinHistoryPeriods {
		return domain.Forecast{}, fmt.Errorf("%w: %d periods supplied, %d required",
			domain.ErrInsufficientHistory, len(buckets), s.MinHistoryPeriods)
	}

	n := len(buckets)
	starts := make([]time.Time, n)
	ys := make([]float64, n)
	points := make([]domain.ForecastPoint, 0, n+horizon)
	for i, b := range buckets {
		starts[i] = b.PeriodStart
		ys[i] = b.ClosingBalance.InexactFloat64()
		points = append(points, domain.ForecastPoint{
			PeriodStart:      b.PeriodStart,
			ProjectedBalance: b.ClosingBalance,
			LowerBound:       b.ClosingBalance,
			UpperBound:       b.ClosingBalance,
			Basis:            domain.BasisHistorical,
		})
	}

	tm := fitTrend(ys, s.Model, s.SmoothingFactor)
	offsets := seasonalOffsets(starts, ys, tm.fitted, g)
	vol := deltaStdDev(ys)

	projStarts := make([]time.Time, horizon)
	start := buckets[n-1].PeriodStart
	for k := 1; k <= horizon; k++ {
		start = ledger.NextPeriodStart(start, g)
		projStarts[k-1] = start

		v := tm.project(k)
		if offsets != nil {
			v += offsets[ledger.CyclePosition(start, g)]
		}
		projected := decimal.NewFromFloat(v).Round(s.CurrencyExponent)
		width := decimal.NewFromFloat(vol * math.Sqrt(float64(k))).Round(s.CurrencyExponent)
		points = append(points, domain.ForecastPoint{
			PeriodStart:      start,
			ProjectedBalance: projected,
			LowerBound:       projected.Sub(width),
			UpperBound:       projected.Add(width),
			Basis:            domain.BasisProjected,
		})
	}

	return domain.Forecast{
		Points:     points,
		Categories: projectCategories(buckets, g, horizon, s, points[n:], projStarts),
	}, nil
}

// projectCategories forecasts each category's net flow independently with
// the same trend and seasonal machinery, then rescales the per-period
// values so their sum matches the aggregate forecast's net flow exactly.
func projectCategories(
	buckets []domain.LedgerBucket,
	g domain.Granularity,
	horizon int,
	s Settings,
	projected []domain.ForecastPoint,
	projStarts []time.Time,
) []domain.CategoryForecast {
	seen := make(map[string]struct{})
	for _, b := range buckets {
		for name := range b.CategoryFlows {
			seen[name] = struct{}{}
		}
	}
	names := maps.Keys(seen)
	if len(names) == 0 {
		return nil
	}
	sort.Strings(names)

	n := len(buckets)
	starts := make([]time.Time, n)
	for i, b := range buckets {
		starts[i] = b.PeriodStart
	}

	raw := make(map[string][]float64, len(names))
	for _, name := range names {
		ys := make([]float64, n)
		for i, b := range buckets {
			if v, ok := b.CategoryFlows[name]; ok {
				ys[i] = v.InexactFloat64()
			}
		}
		tm := fitTrend(ys, s.Model, s.SmoothingFactor)
		offsets := seasonalOffsets(starts, ys, tm.fitted, g)

		vals := make([]float64, horizon)
		for k := 1; k <= horizon; k++ {
			v := tm.project(k)
			if offsets != nil {
				v += offsets[ledger.CyclePosition(projStarts[k-1], g)]
			}
			vals[k-1] = v
		}
		raw[name] = vals
	}

	flows := make(map[string][]domain.CategoryFlowPoint, len(names))
	prev := buckets[n-1].ClosingBalance
	for k := 0; k < horizon; k++ {
		aggNet := projected[k].ProjectedBalance.Sub(prev)
		prev = projected[k].ProjectedBalance

		scaled := make([]decimal.Decimal, len(names))
		var rawSum float64
		for _, name := range names {
			rawSum += raw[name][k]
		}
		if rawSum != 0 {
			factor := aggNet.InexactFloat64() / rawSum
			for i, name := range names {
				scaled[i] = decimal.NewFromFloat(raw[name][k] * factor).Round(s.CurrencyExponent)
			}
		} else {
			share := aggNet.Div(decimal.NewFromInt(int64(len(names)))).Round(s.CurrencyExponent)
			for i := range names {
				scaled[i] = share
			}
		}

		// rounding residue goes to the largest flow so the sum stays exact
		total := decimal.Zero
		for _, v := range scaled {
			total = total.Add(v)
		}
		if diff := aggNet.Sub(total); !diff.IsZero() {
			li := 0
			for i := 1; i < len(scaled); i++ {
				if scaled[i].Abs().GreaterThan(scaled[li].Abs()) {
					li = i
				}
			}
			scaled[li] = scaled[li].Add(diff)
		}

		for i, name := range names {
			flows[name] = append(flows[name], domain.CategoryFlowPoint{
				PeriodStart: projStarts[k],
				NetFlow:     scaled[i],
			})
		}
	}

	out := make([]domain.CategoryForecast, 0, len(names))
	for _, name := range names {
		out = append(out, domain.CategoryForecast{Category: name, Flows: flows[name]})
	}
	return out
}
