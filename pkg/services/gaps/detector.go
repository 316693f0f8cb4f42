package gaps

import (
	"github.com/VasiliyTop/AI-finanalitik/pkg/models/domain"
	"github.com/shopspring/decimal"
)

var (
	twice   = decimal.New(2, 0)
	quarter = decimal.New(25, -2)
)

// Detect scans the projected portion of a forecast for maximal contiguous
// windows where the projected balance sits below the liquidity floor.
// Bounds are ignored; only the projected balance counts. Severity scales
// against typicalOutflow, the ledger's mean period outflow, and lead time
// counts periods from the first projected period to the window start.
// Events come back ordered by window start.
func Detect(points []domain.ForecastPoint, floor, typicalOutflow decimal.Decimal) []domain.GapEvent {
	firstProjected := -1
	for i, p := range points {
		if p.Basis == domain.BasisProjected {
			firstProjected = i
			break
		}
	}
	if firstProjected == -1 {
		return nil
	}

	var events []domain.GapEvent
	for i := firstProjected; i < len(points); i++ {
		p := points[i]
		if p.Basis != domain.BasisProjected || p.ProjectedBalance.GreaterThanOrEqual(floor) {
			continue
		}

		j := i
		minimum := p.ProjectedBalance
		for j+1 < len(points) &&
			points[j+1].Basis == domain.BasisProjected &&
			points[j+1].ProjectedBalance.LessThan(floor) {
			j++
			if points[j].ProjectedBalance.LessThan(minimum) {
				minimum = points[j].ProjectedBalance
			}
		}

		events = append(events, domain.GapEvent{
			WindowStart:      points[i].PeriodStart,
			WindowEnd:        points[j].PeriodStart,
			ProjectedMinimum: minimum,
			Severity:         severity(minimum, floor, typicalOutflow),
			LeadTimePeriods:  i - firstProjected,
		})
		i = j
	}
	return events
}

func severity(minimum, floor, typicalOutflow decimal.Decimal) domain.Severity {
	shortfall := floor.Sub(minimum)
	switch {
	case shortfall.GreaterThanOrEqual(typicalOutflow.Mul(twice)):
		return domain.SeverityCritical
	case shortfall.GreaterThanOrEqual(typicalOutflow):
		return domain.SeverityHigh
	case shortfall.GreaterThanOrEqual(typicalOutflow.Mul(quarter)):
		return domain.SeverityMedium
	default:
		return domain.SeverityLow
	}
}
