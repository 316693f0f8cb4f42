package workflow

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/VasiliyTop/AI-finanalitik/pkg/adapters"
	"github.com/VasiliyTop/AI-finanalitik/pkg/models/domain"
	"github.com/VasiliyTop/AI-finanalitik/pkg/models/store"
	"github.com/VasiliyTop/AI-finanalitik/pkg/services/analysis"
	"github.com/VasiliyTop/AI-finanalitik/pkg/services/config"
	"github.com/VasiliyTop/AI-finanalitik/pkg/store/duckdb"
	"github.com/VasiliyTop/AI-finanalitik/pkg/store/duckdb/runs"
	"github.com/VasiliyTop/AI-finanalitik/pkg/store/duckdb/schedule"
	"github.com/VasiliyTop/AI-finanalitik/pkg/store/duckdb/transactions"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type workflowFixture struct {
	db            *sql.DB
	engine        *analysis.Engine
	profiles      config.Registry
	scheduleStore schedule.Store
	runStore      runs.Store
	txnStore      transactions.Store
	controller    *DefaultController
}

func setupWorkflow(t *testing.T) *workflowFixture {
	t.Helper()

	db, err := duckdb.NewDB(duckdb.Settings{DbPath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
	})

	engine, err := analysis.NewEngine(analysis.DefaultConfig())
	require.NoError(t, err)

	profilePath := filepath.Join(t.TempDir(), "ledgers.ini")
	require.NoError(t, os.WriteFile(profilePath, []byte(`
[main]
path = exports/main.csv
opening_balance = 10000
`), 0o600))
	profiles, err := config.NewRegistry(profilePath)
	require.NoError(t, err)

	scheduleStore, err := schedule.NewStore(db)
	require.NoError(t, err)
	runStore, err := runs.NewStore(db)
	require.NoError(t, err)
	txnStore, err := transactions.NewStore(db)
	require.NoError(t, err)

	return &workflowFixture{
		db:            db,
		engine:        engine,
		profiles:      profiles,
		scheduleStore: scheduleStore,
		runStore:      runStore,
		txnStore:      txnStore,
		controller:    NewController(db, engine, profiles, scheduleStore, runStore),
	}
}

// seedLedger stores a year of steady flows so analysis has enough history.
func seedLedger(t *testing.T, f *workflowFixture, ledger string) int {
	t.Helper()

	records := make([]store.Transaction, 0, 24)
	for m := 1; m <= 12; m++ {
		records = append(records,
			adapters.MapDomainTransactionToStore(domain.Transaction{
				Date:             time.Date(2025, time.Month(m), 5, 0, 0, 0, 0, time.UTC),
				Amount:           decimal.RequireFromString("5000"),
				Category:         "sales",
				CounterpartyID:   "acme",
				SourceDocumentID: fmt.Sprintf("inv-%d", m),
			}),
			adapters.MapDomainTransactionToStore(domain.Transaction{
				Date:             time.Date(2025, time.Month(m), 20, 0, 0, 0, 0, time.UTC),
				Amount:           decimal.RequireFromString("-3000"),
				Category:         "rent",
				CounterpartyID:   "landlord",
				SourceDocumentID: fmt.Sprintf("rent-%d", m),
			}),
		)
	}

	inserted, err := f.txnStore.Add(context.Background(), ledger, records)
	require.NoError(t, err)
	require.Equal(t, len(records), inserted)
	return inserted
}

func (f *workflowFixture) newRunner(t *testing.T, ledger string) *Runner {
	t.Helper()

	profile, err := f.profiles.GetLedger(context.Background(), ledger)
	require.NoError(t, err)
	bound, err := transactions.NewLedgerStore(f.db, ledger)
	require.NoError(t, err)
	return NewRunner(profile, f.db, f.engine, bound, f.runStore, f.scheduleStore)
}

func TestRunner(t *testing.T) {
	t.Run("success - one cycle persists a run and advances the schedule", func(t *testing.T) {
		f := setupWorkflow(t)
		ctx := context.Background()
		seeded := seedLedger(t, f, "main")

		_, err := f.scheduleStore.Create(ctx, "main")
		require.NoError(t, err)

		runner := f.newRunner(t, "main")
		runCtx, cancel := context.WithCancel(ctx)
		go runner.Run(runCtx)

		select {
		case p := <-runner.Progress():
			assert.Equal(t, int64(1), p.RunsCompleted)
			assert.Equal(t, int64(seeded), p.TransactionsAnalyzed)
			assert.False(t, p.LastRunAt.IsZero())
		case <-time.After(10 * time.Second):
			t.Fatal("no progress before timeout")
		}

		cancel()
		<-runner.Done()

		bound, err := runs.NewLedgerStore(f.db, "main")
		require.NoError(t, err)
		latest, err := bound.Latest(ctx)
		require.NoError(t, err)

		replayed, err := adapters.MapStoreRunToApi(latest)
		require.NoError(t, err)
		assert.Equal(t, "monthly", replayed.Granularity)
		assert.NotEmpty(t, replayed.Result.Ledger)
		assert.NotEmpty(t, replayed.Result.Risks)

		schedules, err := f.scheduleStore.List(ctx, []string{"running"})
		require.NoError(t, err)
		require.Len(t, schedules, 1)
		assert.NotNil(t, schedules[0].LastRunAt)
	})

	t.Run("failure - empty ledger marks the schedule failed", func(t *testing.T) {
		f := setupWorkflow(t)
		ctx := context.Background()

		_, err := f.scheduleStore.Create(ctx, "main")
		require.NoError(t, err)

		runner := f.newRunner(t, "main")
		runCtx, cancel := context.WithCancel(ctx)
		go runner.Run(runCtx)

		require.Eventually(t, func() bool {
			schedules, err := f.scheduleStore.List(ctx, []string{"failed"})
			return err == nil && len(schedules) == 1 && schedules[0].Error != nil
		}, 10*time.Second, 50*time.Millisecond)

		schedules, err := f.scheduleStore.List(ctx, []string{"failed"})
		require.NoError(t, err)
		assert.Contains(t, *schedules[0].Error, "empty transaction set")

		cancel()
		<-runner.Done()
	})
}

func TestController(t *testing.T) {
	t.Run("success - start and cancel round trip", func(t *testing.T) {
		f := setupWorkflow(t)
		ctx := context.Background()
		seedLedger(t, f, "main")

		sched, err := f.controller.Start(ctx, "main")
		require.NoError(t, err)
		assert.Equal(t, "main", sched.Ledger)
		assert.Equal(t, domain.ScheduleStatusRunning, sched.Status)

		_, err = f.controller.Start(ctx, "main")
		assert.ErrorIs(t, err, ErrAlreadyScheduled)

		require.Eventually(t, func() bool {
			schedules, err := f.scheduleStore.List(ctx, []string{"running"})
			return err == nil && len(schedules) == 1 && schedules[0].LastRunAt != nil
		}, 10*time.Second, 50*time.Millisecond)

		require.NoError(t, f.controller.Cancel(ctx, "main"))

		schedules, err := f.scheduleStore.List(ctx, []string{})
		require.NoError(t, err)
		assert.Empty(t, schedules)

		assert.ErrorIs(t, f.controller.Cancel(ctx, "main"), ErrNotScheduled)
	})

	t.Run("failure - unknown profile leaves nothing behind", func(t *testing.T) {
		f := setupWorkflow(t)
		ctx := context.Background()

		_, err := f.controller.Start(ctx, "ghost")
		assert.ErrorIs(t, err, domain.ErrUnknownProfile)

		schedules, err := f.scheduleStore.List(ctx, []string{})
		require.NoError(t, err)
		assert.Empty(t, schedules)
	})

	t.Run("success - init resumes registered schedules", func(t *testing.T) {
		f := setupWorkflow(t)
		ctx := context.Background()
		seedLedger(t, f, "main")

		_, err := f.scheduleStore.Create(ctx, "main")
		require.NoError(t, err)

		require.NoError(t, f.controller.Init(ctx))

		require.Eventually(t, func() bool {
			schedules, err := f.scheduleStore.List(ctx, []string{"running"})
			return err == nil && len(schedules) == 1 && schedules[0].LastRunAt != nil
		}, 10*time.Second, 50*time.Millisecond)

		require.NoError(t, f.controller.Cancel(ctx, "main"))
	})
}
