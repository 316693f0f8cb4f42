package store

import "time"

// Transaction is the persisted row shape. Amount is kept as an exact
// decimal string so nothing is lost between import and analysis.
type Transaction struct {
	ID               string
	Date             time.Time
	Amount           string
	Category         string
	CounterpartyID   string
	SourceDocumentID string
}
