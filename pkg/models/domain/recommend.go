package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type ConditionKind string

const (
	CondLiquidityAtLeast    ConditionKind = "liquidity_at_least"
	CondGapWithin           ConditionKind = "gap_within"
	CondCounterpartyAtLeast ConditionKind = "counterparty_at_least"
	CondFactorAtLeast       ConditionKind = "factor_at_least"
	CondAllOf               ConditionKind = "all_of"
	CondAnyOf               ConditionKind = "any_of"
	CondNot                 ConditionKind = "not"
)

// Condition is a rule predicate kept as data, not code. Only the fields
// relevant to Kind are set; composite kinds nest through All, Any and Not.
type Condition struct {
	Kind        ConditionKind
	Threshold   decimal.Decimal
	MinSeverity Severity
	Periods     int
	Subject     string
	Factor      string
	All         []Condition
	Any         []Condition
	Not         *Condition
}

// Rule binds a condition to a trigger. Tables are evaluated in declaration
// order; the first rule to fire a given TriggerID wins.
type Rule struct {
	TriggerID         string
	Priority          int
	MessageTemplateID string
	Condition         Condition
}

// Evidence references the artifacts a recommendation was derived from:
// gap events by window start and risk scores by subject.
type Evidence struct {
	GapWindows   []time.Time
	RiskSubjects []string
}

type Recommendation struct {
	TriggerID         string
	Priority          int
	MessageTemplateID string
	Evidence          Evidence
}
