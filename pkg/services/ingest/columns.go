package ingest

import "strings"

// columns maps statement fields to record indices; -1 marks an absent
// column. Exports without a header row fall back to the positional layout.
type columns struct {
	date         int
	amount       int
	income       int
	expense      int
	kind         int
	category     int
	counterparty int
	document     int
}

func positionalColumns() columns {
	return columns{
		date:         0,
		amount:       1,
		category:     2,
		counterparty: 3,
		document:     4,
		income:       -1,
		expense:      -1,
		kind:         -1,
	}
}

// resolveColumns matches a candidate header row against a synonym table.
// The second return value reports whether the row is a header at all.
func resolveColumns(header []string, synonyms map[string]string) (columns, bool) {
	cols := columns{
		date: -1, amount: -1, income: -1, expense: -1,
		kind: -1, category: -1, counterparty: -1, document: -1,
	}
	matched := false
	for i, raw := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(raw, "\uFEFF")))
		field, ok := synonyms[name]
		if !ok {
			continue
		}
		matched = true
		switch field {
		case "date":
			cols.date = i
		case "amount":
			cols.amount = i
		case "income":
			cols.income = i
		case "expense":
			cols.expense = i
		case "kind":
			cols.kind = i
		case "category":
			cols.category = i
		case "counterparty":
			cols.counterparty = i
		case "document":
			cols.document = i
		}
	}
	return cols, matched
}

func field(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
