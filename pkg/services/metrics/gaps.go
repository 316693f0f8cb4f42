package metrics

import (
	"github.com/VasiliyTop/AI-finanalitik/pkg/models/domain"
)

// SummarizeGaps folds the gap events of a run into severity counts, the
// earliest gap window and the deepest projected minimum.
func SummarizeGaps(events []domain.GapEvent) domain.GapSummary {
	s := domain.GapSummary{Total: len(events)}
	for i, e := range events {
		switch e.Severity {
		case domain.SeverityCritical:
			s.Critical++
		case domain.SeverityHigh:
			s.High++
		case domain.SeverityMedium:
			s.Medium++
		default:
			s.Low++
		}
		if i == 0 || e.ProjectedMinimum.LessThan(s.WorstMinimum) {
			s.WorstMinimum = e.ProjectedMinimum
		}
		if s.NearestWindow == nil || e.WindowStart.Before(*s.NearestWindow) {
			start := e.WindowStart
			s.NearestWindow = &start
		}
	}
	return s
}
