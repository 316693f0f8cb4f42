package recommend

import (
	"testing"
	"time"

	"github.com/VasiliyTop/AI-finanalitik/pkg/models/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func liquidityScore(score string) domain.RiskScore {
	return domain.RiskScore{Subject: domain.SubjectLiquidity, Score: dec(score)}
}

func counterpartyScore(subject, score string, factors ...domain.RiskFactor) domain.RiskScore {
	return domain.RiskScore{Subject: subject, Score: dec(score), Factors: factors}
}

func TestDefaultRules(t *testing.T) {
	assert.NoError(t, ValidateRules(DefaultRules()))
}

func TestEvaluate(t *testing.T) {
	window := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	t.Run("success - calm book produces no advice", func(t *testing.T) {
		recs, err := Evaluate(DefaultRules(), nil, []domain.RiskScore{liquidityScore("0")})

		require.NoError(t, err)
		assert.Empty(t, recs)
	})

	t.Run("success - deteriorating book ordered by priority", func(t *testing.T) {
		gaps := []domain.GapEvent{
			{WindowStart: window, Severity: domain.SeverityCritical, LeadTimePeriods: 4},
		}
		risks := []domain.RiskScore{liquidityScore("69.07")}

		recs, err := Evaluate(DefaultRules(), gaps, risks)

		require.NoError(t, err)
		require.Len(t, recs, 3)
		assert.Equal(t, "open-credit-line", recs[0].TriggerID)
		assert.Equal(t, "defer-discretionary-spend", recs[1].TriggerID)
		assert.Equal(t, "monitor-liquidity", recs[2].TriggerID)
		assert.Equal(t, []time.Time{window}, recs[0].Evidence.GapWindows)
	})

	t.Run("success - imminent critical gap escalates to urgent credit line", func(t *testing.T) {
		gaps := []domain.GapEvent{
			{WindowStart: window, Severity: domain.SeverityCritical, LeadTimePeriods: 1},
		}
		risks := []domain.RiskScore{liquidityScore("82.50")}

		recs, err := Evaluate(DefaultRules(), gaps, risks)

		require.NoError(t, err)
		require.NotEmpty(t, recs)
		assert.Equal(t, "urgent-credit-line", recs[0].TriggerID)
		assert.Equal(t, 1, recs[0].Priority)
		assert.Equal(t, []time.Time{window}, recs[0].Evidence.GapWindows)
		assert.Equal(t, []string{domain.SubjectLiquidity}, recs[0].Evidence.RiskSubjects)
	})

	t.Run("success - overdue counterparty triggers receivables advice", func(t *testing.T) {
		risks := []domain.RiskScore{
			liquidityScore("10"),
			counterpartyScore("acme", "20",
				domain.RiskFactor{Name: "overdue", Weight: dec("0.3"), Raw: dec("35")}),
			counterpartyScore("globex", "5",
				domain.RiskFactor{Name: "overdue", Weight: dec("0.3"), Raw: dec("0")}),
		}

		recs, err := Evaluate(DefaultRules(), nil, risks)

		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.Equal(t, "accelerate-receivables", recs[0].TriggerID)
		assert.Equal(t, []string{"acme"}, recs[0].Evidence.RiskSubjects)
	})

	t.Run("success - first matching declaration wins the trigger", func(t *testing.T) {
		rules := []domain.Rule{
			{
				TriggerID: "watch", Priority: 2, MessageTemplateID: "msg.watch_tight",
				Condition: domain.Condition{Kind: domain.CondLiquidityAtLeast, Threshold: dec("90")},
			},
			{
				TriggerID: "watch", Priority: 2, MessageTemplateID: "msg.watch_loose",
				Condition: domain.Condition{Kind: domain.CondLiquidityAtLeast, Threshold: dec("40")},
			},
			{
				TriggerID: "watch", Priority: 1, MessageTemplateID: "msg.watch_looser",
				Condition: domain.Condition{Kind: domain.CondLiquidityAtLeast, Threshold: dec("10")},
			},
		}
		risks := []domain.RiskScore{liquidityScore("55")}

		recs, err := Evaluate(rules, nil, risks)

		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.Equal(t, "msg.watch_loose", recs[0].MessageTemplateID)
	})

	t.Run("success - equal priorities keep declaration order", func(t *testing.T) {
		rules := []domain.Rule{
			{
				TriggerID: "first", Priority: 3, MessageTemplateID: "msg.first",
				Condition: domain.Condition{Kind: domain.CondLiquidityAtLeast, Threshold: dec("10")},
			},
			{
				TriggerID: "urgent", Priority: 1, MessageTemplateID: "msg.urgent",
				Condition: domain.Condition{Kind: domain.CondLiquidityAtLeast, Threshold: dec("10")},
			},
			{
				TriggerID: "second", Priority: 3, MessageTemplateID: "msg.second",
				Condition: domain.Condition{Kind: domain.CondLiquidityAtLeast, Threshold: dec("10")},
			},
		}
		risks := []domain.RiskScore{liquidityScore("50")}

		recs, err := Evaluate(rules, nil, risks)

		require.NoError(t, err)
		require.Len(t, recs, 3)
		assert.Equal(t, "urgent", recs[0].TriggerID)
		assert.Equal(t, "first", recs[1].TriggerID)
		assert.Equal(t, "second", recs[2].TriggerID)
	})

	t.Run("success - not condition fires on absence", func(t *testing.T) {
		rules := []domain.Rule{
			{
				TriggerID: "all-clear", Priority: 9, MessageTemplateID: "msg.all_clear",
				Condition: domain.Condition{
					Kind: domain.CondNot,
					Not:  &domain.Condition{Kind: domain.CondLiquidityAtLeast, Threshold: dec("30")},
				},
			},
		}
		risks := []domain.RiskScore{liquidityScore("12")}

		recs, err := Evaluate(rules, nil, risks)

		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.Equal(t, "all-clear", recs[0].TriggerID)
		assert.Empty(t, recs[0].Evidence.GapWindows)
	})

	t.Run("success - any_of merges evidence from matched branches only", func(t *testing.T) {
		rules := []domain.Rule{
			{
				TriggerID: "composite", Priority: 2, MessageTemplateID: "msg.composite",
				Condition: domain.Condition{
					Kind: domain.CondAnyOf,
					Any: []domain.Condition{
						{Kind: domain.CondGapWithin, MinSeverity: domain.SeverityLow, Periods: 12},
						{Kind: domain.CondCounterpartyAtLeast, Threshold: dec("95")},
					},
				},
			},
		}
		gaps := []domain.GapEvent{
			{WindowStart: window, Severity: domain.SeverityMedium, LeadTimePeriods: 2},
			{WindowStart: window.AddDate(0, 3, 0), Severity: domain.SeverityLow, LeadTimePeriods: 5},
		}
		risks := []domain.RiskScore{counterpartyScore("acme", "20")}

		recs, err := Evaluate(rules, gaps, risks)

		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.Equal(t, []time.Time{window, window.AddDate(0, 3, 0)}, recs[0].Evidence.GapWindows)
		assert.Empty(t, recs[0].Evidence.RiskSubjects)
	})

	t.Run("failure - malformed table is rejected before evaluation", func(t *testing.T) {
		cases := []struct {
			name string
			rule domain.Rule
		}{
			{
				name: "missing trigger id",
				rule: domain.Rule{Priority: 1, MessageTemplateID: "msg.x",
					Condition: domain.Condition{Kind: domain.CondLiquidityAtLeast}},
			},
			{
				name: "zero priority",
				rule: domain.Rule{TriggerID: "x", MessageTemplateID: "msg.x",
					Condition: domain.Condition{Kind: domain.CondLiquidityAtLeast}},
			},
			{
				name: "unknown condition kind",
				rule: domain.Rule{TriggerID: "x", Priority: 1, MessageTemplateID: "msg.x",
					Condition: domain.Condition{Kind: "sentiment_at_least"}},
			},
			{
				name: "empty all_of",
				rule: domain.Rule{TriggerID: "x", Priority: 1, MessageTemplateID: "msg.x",
					Condition: domain.Condition{Kind: domain.CondAllOf}},
			},
			{
				name: "factor without a name",
				rule: domain.Rule{TriggerID: "x", Priority: 1, MessageTemplateID: "msg.x",
					Condition: domain.Condition{Kind: domain.CondFactorAtLeast, Threshold: dec("10")}},
			},
			{
				name: "gap window without periods",
				rule: domain.Rule{TriggerID: "x", Priority: 1, MessageTemplateID: "msg.x",
					Condition: domain.Condition{Kind: domain.CondGapWithin, MinSeverity: domain.SeverityHigh}},
			},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := Evaluate([]domain.Rule{tc.rule}, nil, nil)

				assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
			})
		}
	})
}
