package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityCritical:
		return "critical"
	case SeverityHigh:
		return "high"
	case SeverityMedium:
		return "medium"
	default:
		return "low"
	}
}

// ParseSeverity inverts String. Unrecognized input maps to SeverityLow.
func ParseSeverity(s string) Severity {
	switch s {
	case "critical":
		return SeverityCritical
	case "high":
		return SeverityHigh
	case "medium":
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// GapEvent is a maximal contiguous projected window where the balance sits
// below the liquidity floor. Events are derived from a forecast and are
// recomputed whenever the forecast changes.
type GapEvent struct {
	WindowStart      time.Time
	WindowEnd        time.Time
	ProjectedMinimum decimal.Decimal
	Severity         Severity
	LeadTimePeriods  int
}
