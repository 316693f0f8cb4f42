package recommend

import (
	"fmt"

	"github.com/VasiliyTop/AI-finanalitik/pkg/models/domain"
	"github.com/shopspring/decimal"
)

// DefaultRules is the built-in advice table. Rules are data so deployments
// can replace the table through configuration without touching the
// evaluator; priorities rank urgency, 1 being the most urgent.
func DefaultRules() []domain.Rule {
	return []domain.Rule{
		{
			TriggerID:         "urgent-credit-line",
			Priority:          1,
			MessageTemplateID: "msg.urgent_credit_line",
			Condition: domain.Condition{
				Kind: domain.CondAllOf,
				All: []domain.Condition{
					{Kind: domain.CondLiquidityAtLeast, Threshold: decimal.New(70, 0)},
					{Kind: domain.CondGapWithin, MinSeverity: domain.SeverityCritical, Periods: 3},
				},
			},
		},
		{
			TriggerID:         "open-credit-line",
			Priority:          2,
			MessageTemplateID: "msg.open_credit_line",
			Condition: domain.Condition{
				Kind: domain.CondGapWithin, MinSeverity: domain.SeverityHigh, Periods: 6,
			},
		},
		{
			TriggerID:         "accelerate-receivables",
			Priority:          3,
			MessageTemplateID: "msg.accelerate_receivables",
			Condition: domain.Condition{
				Kind: domain.CondFactorAtLeast, Factor: "overdue", Threshold: decimal.New(30, 0),
			},
		},
		{
			TriggerID:         "defer-discretionary-spend",
			Priority:          3,
			MessageTemplateID: "msg.defer_discretionary_spend",
			Condition: domain.Condition{
				Kind: domain.CondLiquidityAtLeast, Threshold: decimal.New(50, 0),
			},
		},
		{
			TriggerID:         "diversify-counterparties",
			Priority:          4,
			MessageTemplateID: "msg.diversify_counterparties",
			Condition: domain.Condition{
				Kind: domain.CondFactorAtLeast, Factor: "concentration", Threshold: decimal.New(50, 0),
			},
		},
		{
			TriggerID:         "monitor-liquidity",
			Priority:          5,
			MessageTemplateID: "msg.monitor_liquidity",
			Condition: domain.Condition{
				Kind: domain.CondLiquidityAtLeast, Threshold: decimal.New(30, 0),
			},
		},
	}
}

// ValidateRules rejects malformed tables before any evaluation happens.
func ValidateRules(rules []domain.Rule) error {
	for i, r := range rules {
		if r.TriggerID == "" {
			return fmt.Errorf("%w: rule %d has no trigger id", domain.ErrInvalidConfiguration, i)
		}
		if r.Priority < 1 {
			return fmt.Errorf("%w: rule %q has priority %d, want >= 1", domain.ErrInvalidConfiguration, r.TriggerID, r.Priority)
		}
		if r.MessageTemplateID == "" {
			return fmt.Errorf("%w: rule %q has no message template", domain.ErrInvalidConfiguration, r.TriggerID)
		}
		if err := validateCondition(r.Condition); err != nil {
			return fmt.Errorf("rule %q: %w", r.TriggerID, err)
		}
	}
	return nil
}

func validateCondition(c domain.Condition) error {
	switch c.Kind {
	case domain.CondLiquidityAtLeast, domain.CondCounterpartyAtLeast:
		return nil
	case domain.CondFactorAtLeast:
		if c.Factor == "" {
			return fmt.Errorf("%w: factor_at_least condition names no factor", domain.ErrInvalidConfiguration)
		}
		return nil
	case domain.CondGapWithin:
		if c.Periods < 1 {
			return fmt.Errorf("%w: gap_within condition needs a positive period count", domain.ErrInvalidConfiguration)
		}
		if c.MinSeverity < domain.SeverityLow || c.MinSeverity > domain.SeverityCritical {
			return fmt.Errorf("%w: gap_within condition has unknown severity", domain.ErrInvalidConfiguration)
		}
		return nil
	case domain.CondAllOf:
		if len(c.All) == 0 {
			return fmt.Errorf("%w: all_of condition has no children", domain.ErrInvalidConfiguration)
		}
		for _, child := range c.All {
			if err := validateCondition(child); err != nil {
				return err
			}
		}
		return nil
	case domain.CondAnyOf:
		if len(c.Any) == 0 {
			return fmt.Errorf("%w: any_of condition has no children", domain.ErrInvalidConfiguration)
		}
		for _, child := range c.Any {
			if err := validateCondition(child); err != nil {
				return err
			}
		}
		return nil
	case domain.CondNot:
		if c.Not == nil {
			return fmt.Errorf("%w: not condition has no child", domain.ErrInvalidConfiguration)
		}
		return validateCondition(*c.Not)
	default:
		return fmt.Errorf("%w: unknown condition kind %q", domain.ErrInvalidConfiguration, c.Kind)
	}
}
