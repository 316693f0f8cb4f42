package api

import (
	"time"

	"github.com/shopspring/decimal"
)

type AnalysisResult struct {
	Ledger          []LedgerBucket   `json:"ledger"`
	Forecast        Forecast         `json:"forecast"`
	Gaps            []GapEvent       `json:"gaps"`
	Risks           []RiskScore      `json:"risks"`
	Recommendations []Recommendation `json:"recommendations"`
}

type AnalysisRun struct {
	ID          string         `json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	Granularity string         `json:"granularity"`
	Horizon     int            `json:"horizon"`
	Floor       string         `json:"floor"`
	Result      AnalysisResult `json:"result"`
}

// RunRequest carries per-run overrides on top of the configured profile.
// Zero values leave the profile setting untouched.
type RunRequest struct {
	Granularity string           `json:"granularity,omitempty"`
	Horizon     int              `json:"horizon,omitempty"`
	Floor       *decimal.Decimal `json:"floor,omitempty"`
}

type ScheduleStatus struct {
	Ledger    string     `json:"ledger"`
	Status    string     `json:"status"`
	StartedAt time.Time  `json:"started_at"`
	LastRunAt *time.Time `json:"last_run_at,omitempty"`
}
