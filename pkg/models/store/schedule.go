package store

import "time"

type TransactionStats struct {
	RecordsCount    int64
	FirstRecordDate *time.Time
	LastRecordDate  *time.Time
}

// Schedule is one ledger's periodic re-analysis registration.
type Schedule struct {
	Ledger    string
	Status    string
	Error     *string
	CreatedAt time.Time
	LastRunAt *time.Time
}
