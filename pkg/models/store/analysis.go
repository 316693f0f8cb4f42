package store

import "time"

// AnalysisRun is one persisted engine invocation: the configuration echo
// plus the full artifact set serialized as JSON.
type AnalysisRun struct {
	ID          string
	CreatedAt   time.Time
	Granularity string
	Horizon     int
	Floor       string
	Payload     []byte
}
