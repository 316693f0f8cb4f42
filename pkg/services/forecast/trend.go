package forecast

import (
	"math"
	"time"

	"github.com/VasiliyTop/AI-finanalitik/pkg/models/domain"
	"github.com/VasiliyTop/AI-finanalitik/pkg/services/ledger"
)

// trendModel is a fitted trend over one series. fitted holds the in-sample
// value per history index; project extends the trend k steps past the end.
type trendModel struct {
	fitted  []float64
	project func(k int) float64
}

func fitTrend(ys []float64, m domain.ForecastModel, alpha float64) trendModel {
	if m == domain.ModelExponential {
		return fitExponential(ys, alpha)
	}
	return fitLinear(ys)
}

func fitLinear(ys []float64) trendModel {
	n := len(ys)
	fitted := make([]float64, n)
	if n < 2 {
		var level float64
		if n == 1 {
			level = ys[0]
			fitted[0] = level
		}
		return trendModel{fitted: fitted, project: func(int) float64 { return level }}
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, y := range ys {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	fn := float64(n)
	slope := (fn*sumXY - sumX*sumY) / (fn*sumXX - sumX*sumX)
	intercept := (sumY - slope*sumX) / fn
	for i := range ys {
		fitted[i] = intercept + slope*float64(i)
	}
	return trendModel{
		fitted:  fitted,
		project: func(k int) float64 { return intercept + slope*float64(n-1+k) },
	}
}

// fitExponential is simple exponential smoothing; the projection continues
// flat at the final smoothed level.
func fitExponential(ys []float64, alpha float64) trendModel {
	n := len(ys)
	fitted := make([]float64, n)
	if n == 0 {
		return trendModel{fitted: fitted, project: func(int) float64 { return 0 }}
	}
	level := ys[0]
	fitted[0] = level
	for i := 1; i < n; i++ {
		level = alpha*ys[i] + (1-alpha)*level
		fitted[i] = level
	}
	return trendModel{fitted: fitted, project: func(int) float64 { return level }}
}

// seasonalOffsets estimates the mean detrended deviation per cycle slot.
// Returns nil unless the history spans at least two full cycles.
func seasonalOffsets(starts []time.Time, ys, fitted []float64, g domain.Granularity) []float64 {
	cycle := ledger.CycleLength(g)
	if len(ys) < 2*cycle {
		return nil
	}
	sums := make([]float64, cycle)
	counts := make([]int, cycle)
	for i := range ys {
		pos := ledger.CyclePosition(starts[i], g)
		sums[pos] += ys[i] - fitted[i]
		counts[pos]++
	}
	offsets := make([]float64, cycle)
	for i := range offsets {
		if counts[i] > 0 {
			offsets[i] = sums[i] / float64(counts[i])
		}
	}
	return offsets
}

// deltaStdDev is the population standard deviation of period-over-period
// changes, the base volatility behind the uncertainty bounds.
func deltaStdDev(ys []float64) float64 {
	if len(ys) < 2 {
		return 0
	}
	deltas := make([]float64, 0, len(ys)-1)
	for i := 1; i < len(ys); i++ {
		deltas = append(deltas, ys[i]-ys[i-1])
	}
	return stdDev(deltas)
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func stdDev(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := mean(xs)
	var sq float64
	for _, x := range xs {
		sq += (x - m) * (x - m)
	}
	return math.Sqrt(sq / float64(len(xs)))
}
