package domain

import "time"

type ScheduleStatus string

const (
	ScheduleStatusRunning   ScheduleStatus = "running"
	ScheduleStatusStopped   ScheduleStatus = "stopped"
	ScheduleStatusFailed    ScheduleStatus = "failed"
	ScheduleStatusCancelled ScheduleStatus = "cancelled"
)

// Schedule describes a background re-analysis loop for one ledger profile.
type Schedule struct {
	Ledger    string
	Status    ScheduleStatus
	StartedAt time.Time
	LastRunAt *time.Time
	Error     *string
}
