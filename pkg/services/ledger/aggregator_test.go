package ledger

import (
	"testing"
	"time"

	"github.com/VasiliyTop/AI-finanalitik/pkg/models/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tx(date, amount, category, counterparty string) domain.Transaction {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return domain.Transaction{
		Date:           d,
		Amount:         decimal.RequireFromString(amount),
		Category:       category,
		CounterpartyID: counterparty,
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestAggregate_MonthlyLedger(t *testing.T) {
	txns := []domain.Transaction{
		tx("2026-01-10", "1000", "sales", "acme"),
		tx("2026-01-20", "-400", "rent", "landlord"),
		tx("2026-03-05", "-250.50", "rent", "landlord"),
	}

	t.Run("buckets are contiguous and balance invariants hold", func(t *testing.T) {
		buckets, err := Aggregate(txns, domain.GranularityMonthly, dec("100"))

		require.NoError(t, err)
		require.Len(t, buckets, 3)

		jan, feb, mar := buckets[0], buckets[1], buckets[2]
		assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), jan.PeriodStart)
		assert.Equal(t, time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC), jan.PeriodEnd)
		assert.True(t, jan.OpeningBalance.Equal(dec("100")))
		assert.True(t, jan.InflowTotal.Equal(dec("1000")))
		assert.True(t, jan.OutflowTotal.Equal(dec("400")))
		assert.True(t, jan.ClosingBalance.Equal(dec("700")))

		// February has no transactions but still appears, balance carried
		assert.True(t, feb.InflowTotal.IsZero())
		assert.True(t, feb.OutflowTotal.IsZero())
		assert.True(t, feb.OpeningBalance.Equal(jan.ClosingBalance))
		assert.True(t, feb.ClosingBalance.Equal(jan.ClosingBalance))

		assert.True(t, mar.OpeningBalance.Equal(feb.ClosingBalance))
		assert.True(t, mar.ClosingBalance.Equal(dec("449.50")))

		for _, b := range buckets {
			expected := b.OpeningBalance.Add(b.InflowTotal).Sub(b.OutflowTotal)
			assert.True(t, b.ClosingBalance.Equal(expected))
		}
	})

	t.Run("category flows sum to the net flow", func(t *testing.T) {
		buckets, err := Aggregate(txns, domain.GranularityMonthly, decimal.Zero)

		require.NoError(t, err)
		for _, b := range buckets {
			sum := decimal.Zero
			for _, v := range b.CategoryFlows {
				sum = sum.Add(v)
			}
			assert.True(t, sum.Equal(b.InflowTotal.Sub(b.OutflowTotal)))
		}
		assert.True(t, buckets[0].CategoryFlows["sales"].Equal(dec("1000")))
		assert.True(t, buckets[0].CategoryFlows["rent"].Equal(dec("-400")))
	})

	t.Run("input order does not change the output", func(t *testing.T) {
		reordered := []domain.Transaction{txns[2], txns[0], txns[1]}

		a, err := Aggregate(txns, domain.GranularityMonthly, dec("100"))
		require.NoError(t, err)
		b, err := Aggregate(reordered, domain.GranularityMonthly, dec("100"))
		require.NoError(t, err)

		assert.Equal(t, a, b)
	})
}

func TestAggregate_Granularities(t *testing.T) {
	t.Run("daily fills every day in range", func(t *testing.T) {
		buckets, err := Aggregate([]domain.Transaction{
			tx("2026-02-01", "50", "", ""),
			tx("2026-02-04", "-20", "", ""),
		}, domain.GranularityDaily, decimal.Zero)

		require.NoError(t, err)
		require.Len(t, buckets, 4)
		assert.Equal(t, buckets[0].PeriodStart, buckets[0].PeriodEnd)
		assert.True(t, buckets[1].InflowTotal.IsZero())
		assert.True(t, buckets[3].ClosingBalance.Equal(dec("30")))
	})

	t.Run("weekly buckets start on Monday", func(t *testing.T) {
		// 2026-01-07 is a Wednesday, 2026-01-13 a Tuesday
		buckets, err := Aggregate([]domain.Transaction{
			tx("2026-01-07", "10", "", ""),
			tx("2026-01-13", "10", "", ""),
		}, domain.GranularityWeekly, decimal.Zero)

		require.NoError(t, err)
		require.Len(t, buckets, 2)
		assert.Equal(t, time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), buckets[0].PeriodStart)
		assert.Equal(t, time.Date(2026, 1, 11, 0, 0, 0, 0, time.UTC), buckets[0].PeriodEnd)
		assert.Equal(t, time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC), buckets[1].PeriodStart)
	})

	t.Run("same-day transactions are summed", func(t *testing.T) {
		buckets, err := Aggregate([]domain.Transaction{
			tx("2026-02-01", "50", "sales", ""),
			tx("2026-02-01", "-30", "rent", ""),
			tx("2026-02-01", "25", "sales", ""),
		}, domain.GranularityDaily, decimal.Zero)

		require.NoError(t, err)
		require.Len(t, buckets, 1)
		assert.True(t, buckets[0].InflowTotal.Equal(dec("75")))
		assert.True(t, buckets[0].OutflowTotal.Equal(dec("30")))
		assert.True(t, buckets[0].CategoryFlows["sales"].Equal(dec("75")))
	})
}

func TestAggregate_Preconditions(t *testing.T) {
	t.Run("empty input is rejected", func(t *testing.T) {
		_, err := Aggregate(nil, domain.GranularityMonthly, decimal.Zero)
		assert.ErrorIs(t, err, domain.ErrEmptyInput)
	})

	t.Run("unsupported granularity is rejected", func(t *testing.T) {
		_, err := Aggregate([]domain.Transaction{
			tx("2026-01-01", "1", "", ""),
		}, domain.Granularity("hourly"), decimal.Zero)
		assert.ErrorIs(t, err, domain.ErrInvalidGranularity)
	})
}

func TestTypicalOutflow(t *testing.T) {
	buckets := []domain.LedgerBucket{
		{OutflowTotal: dec("300")},
		{OutflowTotal: decimal.Zero},
		{OutflowTotal: dec("600")},
	}

	assert.True(t, TypicalOutflow(buckets).Equal(dec("300")))
	assert.True(t, TypicalOutflow(nil).IsZero())
}
