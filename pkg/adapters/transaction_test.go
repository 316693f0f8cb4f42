package adapters

import (
	"testing"
	"time"

	"github.com/VasiliyTop/AI-finanalitik/pkg/models/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionID(t *testing.T) {
	base := domain.Transaction{
		Date:             time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
		Amount:           decimal.RequireFromString("150000.50"),
		Category:         "sales",
		CounterpartyID:   "acme",
		SourceDocumentID: "invoice-17",
	}

	t.Run("stable across imports", func(t *testing.T) {
		again := base
		again.Category = "renamed"

		// category is presentation only; the natural key ignores it
		assert.Equal(t, TransactionID(base), TransactionID(again))
	})

	t.Run("distinct for a different natural key", func(t *testing.T) {
		other := base
		other.SourceDocumentID = "invoice-18"

		assert.NotEqual(t, TransactionID(base), TransactionID(other))
	})

	t.Run("store mapping round-trips through the decimal string", func(t *testing.T) {
		row := MapDomainTransactionToStore(base)
		require.Equal(t, "150000.5", row.Amount)

		back, err := MapStoreTransactionToDomain(row)
		require.NoError(t, err)
		assert.True(t, back.Amount.Equal(base.Amount))
		assert.Equal(t, base.CounterpartyID, back.CounterpartyID)
	})

	t.Run("corrupt stored amount surfaces an error", func(t *testing.T) {
		row := MapDomainTransactionToStore(base)
		row.Amount = "not-a-number"

		_, err := MapStoreTransactionToDomain(row)
		assert.ErrorContains(t, err, "not-a-number")
	})
}

func TestMapAnalysisResultToStoreRun(t *testing.T) {
	result := domain.AnalysisResult{
		Gaps: []domain.GapEvent{{
			WindowStart:      time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
			WindowEnd:        time.Date(2026, 5, 31, 0, 0, 0, 0, time.UTC),
			ProjectedMinimum: decimal.RequireFromString("-4000"),
			Severity:         domain.SeverityCritical,
			LeadTimePeriods:  2,
		}},
		Risks: []domain.RiskScore{{
			Subject: domain.SubjectLiquidity,
			Score:   decimal.RequireFromString("69.07"),
		}},
	}
	cfg := domain.EngineConfig{
		Granularity:     domain.GranularityMonthly,
		ForecastHorizon: 6,
		LiquidityFloor:  decimal.Zero,
	}

	run, err := MapAnalysisResultToStoreRun(result, cfg, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, "monthly", run.Granularity)
	assert.Equal(t, 6, run.Horizon)
	assert.Equal(t, "0", run.Floor)

	replayed, err := MapStoreRunToApi(&run)
	require.NoError(t, err)
	require.Len(t, replayed.Result.Gaps, 1)
	assert.Equal(t, "critical", string(replayed.Result.Gaps[0].Severity))
	assert.True(t, replayed.Result.Gaps[0].ProjectedMinimum.Equal(decimal.RequireFromString("-4000")))
	require.Len(t, replayed.Result.Risks, 1)
	assert.Equal(t, "liquidity", replayed.Result.Risks[0].Subject)
}
