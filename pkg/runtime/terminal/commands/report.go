package commands

import (
	"fmt"
	"strings"

	"github.com/VasiliyTop/AI-finanalitik/pkg/models/domain"
	"github.com/shopspring/decimal"
)

// Reporter renders a report to the terminal. Both the table renderer and
// the plain renderer satisfy it.
type Reporter interface {
	Handle(report *domain.Report) error
}

const dateLayout = "2006-01-02"

func reportShell(view *analysisView) *domain.Report {
	buckets := view.result.Ledger
	points := view.result.Forecast.Points

	period := domain.TimePeriod{Duration: len(points)}
	if len(buckets) > 0 {
		period.Start = buckets[0].PeriodStart
	}
	if len(points) > 0 {
		period.End = points[len(points)-1].PeriodStart
	}

	closing := decimal.Zero
	if len(buckets) > 0 {
		closing = buckets[len(buckets)-1].ClosingBalance
	}

	return &domain.Report{
		Title:         fmt.Sprintf("Cash flow analysis: %s", view.profile.Name),
		Period:        period,
		ClosingAmount: closing.String(),
		Currency:      view.profile.Currency,
	}
}

// fullReport assembles every section of the analysis into one report.
func fullReport(view *analysisView) *domain.Report {
	report := reportShell(view)
	report.Sections = []domain.ReportSection{
		ledgerSection(view.result.Ledger, view.cfg.Granularity, view.profile.Currency),
		forecastSection(view.result.Forecast, view.profile.Currency),
		gapSection(view.result.Gaps, view.profile.Currency),
		riskSection(view.result.Risks),
		recommendationSection(view.result.Recommendations),
	}
	return report
}

func sectionReport(view *analysisView, section domain.ReportSection) *domain.Report {
	report := reportShell(view)
	report.Sections = []domain.ReportSection{section}
	return report
}

func ledgerSection(buckets []domain.LedgerBucket, g domain.Granularity, currency string) domain.ReportSection {
	net := decimal.Zero
	details := make([]domain.ReportDetail, 0, len(buckets))
	for _, b := range buckets {
		net = net.Add(b.InflowTotal.Sub(b.OutflowTotal))
		details = append(details, domain.ReportDetail{
			Name:        b.PeriodStart.Format(dateLayout),
			Value:       b.ClosingBalance,
			Unit:        currency,
			Description: fmt.Sprintf("in %s, out %s", b.InflowTotal, b.OutflowTotal),
		})
	}
	return domain.ReportSection{
		Title: "Ledger",
		Summary: map[string]interface{}{
			"Granularity": string(g),
			"Periods":     len(buckets),
			"Net Flow":    net,
		},
		Details: details,
	}
}

func forecastSection(fc domain.Forecast, currency string) domain.ReportSection {
	projected := 0
	details := make([]domain.ReportDetail, 0, len(fc.Points))
	for _, p := range fc.Points {
		desc := string(p.Basis)
		if p.Basis == domain.BasisProjected {
			projected++
			desc = fmt.Sprintf("projected, range %s to %s", p.LowerBound, p.UpperBound)
		}
		details = append(details, domain.ReportDetail{
			Name:        p.PeriodStart.Format(dateLayout),
			Value:       p.ProjectedBalance,
			Unit:        currency,
			Description: desc,
		})
	}
	return domain.ReportSection{
		Title: "Forecast",
		Summary: map[string]interface{}{
			"Projected Periods": projected,
		},
		Details: details,
	}
}

func gapSection(gaps []domain.GapEvent, currency string) domain.ReportSection {
	details := make([]domain.ReportDetail, 0, len(gaps))
	for _, g := range gaps {
		details = append(details, domain.ReportDetail{
			Name:        fmt.Sprintf("%s to %s", g.WindowStart.Format(dateLayout), g.WindowEnd.Format(dateLayout)),
			Value:       g.ProjectedMinimum,
			Unit:        currency,
			Description: fmt.Sprintf("%s severity, %d periods of lead time", g.Severity, g.LeadTimePeriods),
		})
	}
	return domain.ReportSection{
		Title:   "Liquidity Gaps",
		Summary: map[string]interface{}{"Total": len(gaps)},
		Details: details,
	}
}

func riskSection(risks []domain.RiskScore) domain.ReportSection {
	details := make([]domain.ReportDetail, 0, len(risks))
	for _, r := range risks {
		parts := make([]string, 0, len(r.Factors))
		for _, f := range r.Factors {
			parts = append(parts, fmt.Sprintf("%s %s", f.Name, f.Raw))
		}
		details = append(details, domain.ReportDetail{
			Name:        r.Subject,
			Value:       r.Score,
			Description: strings.Join(parts, ", "),
		})
	}
	return domain.ReportSection{
		Title:   "Risk Scores",
		Details: details,
	}
}

func recommendationSection(recs []domain.Recommendation) domain.ReportSection {
	details := make([]domain.ReportDetail, 0, len(recs))
	for _, r := range recs {
		details = append(details, domain.ReportDetail{
			Name:        r.TriggerID,
			Value:       r.Priority,
			Description: r.MessageTemplateID,
		})
	}
	return domain.ReportSection{
		Title:   "Recommendations",
		Summary: map[string]interface{}{"Total": len(recs)},
		Details: details,
	}
}
