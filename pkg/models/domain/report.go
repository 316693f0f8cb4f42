package domain

import "time"

// Report represents a complete analysis report for terminal rendering
type Report struct {
	Title         string
	Period        TimePeriod
	Sections      []ReportSection
	ClosingAmount string
	Currency      string
}

// TimePeriod represents a time range for the report
type TimePeriod struct {
	Start    time.Time
	End      time.Time
	Duration int // in periods
}

// ReportSection represents a logical section in the report
type ReportSection struct {
	Title   string
	Summary map[string]interface{}
	Details []ReportDetail
}

// ReportDetail represents one row within a section
type ReportDetail struct {
	Name        string
	Value       interface{}
	Unit        string
	Description string
}
