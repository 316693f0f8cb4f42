package ledger

import (
	"time"

	"github.com/VasiliyTop/AI-finanalitik/pkg/models/domain"
)

// PeriodStart normalizes a timestamp to the UTC start of its period.
// Weekly periods run Monday to Sunday, monthly periods follow the calendar.
func PeriodStart(t time.Time, g domain.Granularity) time.Time {
	y, m, d := t.UTC().Date()
	switch g {
	case domain.GranularityWeekly:
		day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	case domain.GranularityMonthly:
		return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}
}

func NextPeriodStart(start time.Time, g domain.Granularity) time.Time {
	switch g {
	case domain.GranularityWeekly:
		return start.AddDate(0, 0, 7)
	case domain.GranularityMonthly:
		return start.AddDate(0, 1, 0)
	default:
		return start.AddDate(0, 0, 1)
	}
}

// PeriodEnd is the inclusive last day of the period beginning at start.
func PeriodEnd(start time.Time, g domain.Granularity) time.Time {
	return NextPeriodStart(start, g).AddDate(0, 0, -1)
}

// CycleLength is the seasonal cycle size per granularity: the days of the
// week, a four-week cycle, or the months of the year.
func CycleLength(g domain.Granularity) int {
	switch g {
	case domain.GranularityWeekly:
		return 4
	case domain.GranularityMonthly:
		return 12
	default:
		return 7
	}
}

// CyclePosition keys a period into its seasonal slot. Daily periods key by
// weekday and monthly by month of year; weekly periods count whole weeks
// since the Unix epoch so consecutive buckets land in consecutive slots.
func CyclePosition(start time.Time, g domain.Granularity) int {
	switch g {
	case domain.GranularityWeekly:
		weeks := int(start.Unix() / (7 * 24 * 60 * 60))
		return ((weeks % 4) + 4) % 4
	case domain.GranularityMonthly:
		return int(start.Month()) - 1
	default:
		return (int(start.Weekday()) + 6) % 7
	}
}
