package metrics

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

func mtx(date, amount, category, counterparty string) domain.Transaction {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return domain.Transaction{
		Date:           d,
		Amount:         dec(amount),
		Category:       category,
		CounterpartyID: counterparty,
	}
}

func quarterBook() []domain.Transaction {
	return []domain.Transaction{
		mtx("2026-01-05", "150000", "sales", "acme"),
		mtx("2026-01-20", "-40000", "rent", "landlord"),
		mtx("2026-02-05", "150000", "sales", "acme"),
		mtx("2026-02-10", "-30000", "payroll", ""),
		mtx("2026-02-20", "-40000", "rent", "landlord"),
		mtx("2026-03-05", "90000", "sales", "bistro"),
		mtx("2026-03-12", "-5000", "office", "supplies-co"),
		mtx("2026-03-20", "-40000", "rent", "landlord"),
	}
}

func TestDashboard(t *testing.T) {
	t.Run("success - headline numbers over a quarter", func(t *testing.T) {
		m, err := Dashboard(quarterBook(), domain.GranularityMonthly, dec("10000"), Settings{
			TopCategories:     2,
			TopCounterparties: 2,
		})

		require.NoError(t, err)
		assert.True(t, m.CurrentBalance.Equal(dec("245000")), "got %s", m.CurrentBalance)
		assert.True(t, m.TotalInflow.Equal(dec("390000")), "got %s", m.TotalInflow)
		assert.True(t, m.TotalOutflow.Equal(dec("155000")), "got %s", m.TotalOutflow)
		assert.True(t, m.NetFlow.Equal(dec("235000")), "got %s", m.NetFlow)
		// 245000 at 155000 spent over the 90-day window.
		assert.True(t, m.DaysOfCash.Equal(dec("142.3")), "got %s", m.DaysOfCash)

		require.Len(t, m.Cashflow, 3)
		assert.True(t, m.Cashflow[0].ClosingBalance.Equal(dec("120000")))
		assert.True(t, m.Cashflow[1].ClosingBalance.Equal(dec("200000")))
		assert.True(t, m.Cashflow[2].ClosingBalance.Equal(dec("245000")))
	})

	t.Run("success - category tail folds into other", func(t *testing.T) {
		m, err := Dashboard(quarterBook(), domain.GranularityMonthly, dec("10000"), Settings{
			TopCategories:     2,
			TopCounterparties: 2,
		})

		require.NoError(t, err)
		require.Len(t, m.CategoryStructure, 3)
		assert.Equal(t, "sales", m.CategoryStructure[0].Category)
		assert.True(t, m.CategoryStructure[0].Amount.Equal(dec("390000")))
		assert.True(t, m.CategoryStructure[0].Share.Equal(dec("71.56")), "got %s", m.CategoryStructure[0].Share)
		assert.Equal(t, "rent", m.CategoryStructure[1].Category)
		assert.True(t, m.CategoryStructure[1].Share.Equal(dec("22.02")), "got %s", m.CategoryStructure[1].Share)
		assert.Equal(t, "other", m.CategoryStructure[2].Category)
		assert.True(t, m.CategoryStructure[2].Amount.Equal(dec("35000")))
		assert.True(t, m.CategoryStructure[2].Share.Equal(dec("6.42")), "got %s", m.CategoryStructure[2].Share)
	})

	t.Run("success - counterparties ranked by volume across directions", func(t *testing.T) {
		m, err := Dashboard(quarterBook(), domain.GranularityMonthly, dec("10000"), Settings{
			TopCategories:     2,
			TopCounterparties: 2,
		})

		require.NoError(t, err)
		require.Len(t, m.TopCounterparties, 2)
		assert.Equal(t, "acme", m.TopCounterparties[0].CounterpartyID)
		assert.True(t, m.TopCounterparties[0].Inflow.Equal(dec("300000")))
		assert.True(t, m.TopCounterparties[0].Outflow.IsZero())
		assert.Equal(t, "landlord", m.TopCounterparties[1].CounterpartyID)
		assert.True(t, m.TopCounterparties[1].Inflow.IsZero())
		assert.True(t, m.TopCounterparties[1].Outflow.Equal(dec("120000")))
	})

	t.Run("success - uncategorized flow reports as other", func(t *testing.T) {
		txns := []domain.Transaction{
			mtx("2026-01-05", "300", "sales", "acme"),
			mtx("2026-01-10", "100", "", "acme"),
		}

		m, err := Dashboard(txns, domain.GranularityMonthly, decimal.Zero, DefaultSettings())

		require.NoError(t, err)
		require.Len(t, m.CategoryStructure, 2)
		assert.Equal(t, "sales", m.CategoryStructure[0].Category)
		assert.Equal(t, "other", m.CategoryStructure[1].Category)
		assert.True(t, m.CategoryStructure[1].Share.Equal(dec("25")), "got %s", m.CategoryStructure[1].Share)
	})

	t.Run("success - equal volumes order alphabetically", func(t *testing.T) {
		txns := []domain.Transaction{
			mtx("2026-01-05", "100", "beta", "b"),
			mtx("2026-01-10", "100", "alpha", "a"),
		}

		m, err := Dashboard(txns, domain.GranularityMonthly, decimal.Zero, DefaultSettings())

		require.NoError(t, err)
		require.Len(t, m.CategoryStructure, 2)
		assert.Equal(t, "alpha", m.CategoryStructure[0].Category)
		assert.Equal(t, "beta", m.CategoryStructure[1].Category)
		require.Len(t, m.TopCounterparties, 2)
		assert.Equal(t, "a", m.TopCounterparties[0].CounterpartyID)
	})

	t.Run("success - runway is zero without outflows", func(t *testing.T) {
		txns := []domain.Transaction{mtx("2026-01-05", "5000", "sales", "acme")}

		m, err := Dashboard(txns, domain.GranularityMonthly, decimal.Zero, DefaultSettings())

		require.NoError(t, err)
		assert.True(t, m.DaysOfCash.IsZero(), "got %s", m.DaysOfCash)
	})

	t.Run("success - runway is zero when the balance is already negative", func(t *testing.T) {
		txns := []domain.Transaction{mtx("2026-01-05", "-5000", "rent", "landlord")}

		m, err := Dashboard(txns, domain.GranularityMonthly, dec("1000"), DefaultSettings())

		require.NoError(t, err)
		assert.True(t, m.CurrentBalance.Equal(dec("-4000")))
		assert.True(t, m.DaysOfCash.IsZero(), "got %s", m.DaysOfCash)
	})

	t.Run("failure - empty transaction set", func(t *testing.T) {
		_, err := Dashboard(nil, domain.GranularityMonthly, decimal.Zero, DefaultSettings())

		assert.ErrorIs(t, err, domain.ErrEmptyInput)
	})
}

func TestSummarizeGaps(t *testing.T) {
	t.Run("success - no gaps", func(t *testing.T) {
		s := SummarizeGaps(nil)

		assert.Zero(t, s.Total)
		assert.Nil(t, s.NearestWindow)
		assert.True(t, s.WorstMinimum.IsZero())
	})

	t.Run("success - counts and extremes across unordered events", func(t *testing.T) {
		events := []domain.GapEvent{
			{
				WindowStart:      time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
				ProjectedMinimum: dec("-4000"),
				Severity:         domain.SeverityCritical,
			},
			{
				WindowStart:      time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
				ProjectedMinimum: dec("-12000"),
				Severity:         domain.SeverityHigh,
			},
			{
				WindowStart:      time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
				ProjectedMinimum: dec("-500"),
				Severity:         domain.SeverityMedium,
			},
		}

		s := SummarizeGaps(events)

		assert.Equal(t, 3, s.Total)
		assert.Equal(t, 1, s.Critical)
		assert.Equal(t, 1, s.High)
		assert.Equal(t, 1, s.Medium)
		assert.Zero(t, s.Low)
		require.NotNil(t, s.NearestWindow)
		assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), *s.NearestWindow)
		assert.True(t, s.WorstMinimum.Equal(dec("-12000")), "got %s", s.WorstMinimum)
	})
}
