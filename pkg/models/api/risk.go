package api

import (
	"time"

	"github.com/shopspring/decimal"
)

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

type GapEvent struct {
	WindowStart      time.Time       `json:"window_start"`
	WindowEnd        time.Time       `json:"window_end"`
	ProjectedMinimum decimal.Decimal `json:"projected_minimum"`
	Severity         Severity        `json:"severity"`
	LeadTimePeriods  int             `json:"lead_time_periods"`
}

type RiskFactor struct {
	Name     string          `json:"factor_name"`
	Weight   decimal.Decimal `json:"weight"`
	RawValue decimal.Decimal `json:"raw_value"`
}

type RiskScore struct {
	Subject             string          `json:"subject"`
	Score               decimal.Decimal `json:"score"`
	ContributingFactors []RiskFactor    `json:"contributing_factors"`
}

type Evidence struct {
	GapWindows   []time.Time `json:"gap_windows,omitempty"`
	RiskSubjects []string    `json:"risk_subjects,omitempty"`
}

type Recommendation struct {
	TriggerID          string   `json:"trigger_id"`
	Priority           int      `json:"priority"`
	MessageTemplateID  string   `json:"message_template_id"`
	SupportingEvidence Evidence `json:"supporting_evidence"`
}
