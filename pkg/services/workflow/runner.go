package workflow

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/VasiliyTop/AI-finanalitik/pkg/adapters"
	"github.com/VasiliyTop/AI-finanalitik/pkg/models/domain"
	"github.com/VasiliyTop/AI-finanalitik/pkg/services/analysis"
	"github.com/VasiliyTop/AI-finanalitik/pkg/store/duckdb"
	"github.com/VasiliyTop/AI-finanalitik/pkg/store/duckdb/runs"
	"github.com/VasiliyTop/AI-finanalitik/pkg/store/duckdb/schedule"
	"github.com/VasiliyTop/AI-finanalitik/pkg/store/duckdb/transactions"
	"github.com/rs/zerolog"
)

// Runner re-analyzes one ledger on an interval and persists each run. A
// failed cycle marks the schedule failed and retries on a short backoff;
// the next successful cycle clears the failure.
type Runner struct {
	profile       *domain.LedgerProfile
	db            *sql.DB
	engine        *analysis.Engine
	txnStore      transactions.Store
	runStore      runs.Store
	scheduleStore schedule.Store
	done          chan struct{}
	progress      chan RunnerProgress
	config        RunnerConfig
}

type RunnerConfig struct {
	Interval      time.Duration
	RetryInterval time.Duration
}

type RunnerProgress struct {
	RunsCompleted        int64
	TransactionsAnalyzed int64
	LastRunAt            time.Time
}

func NewRunner(
	profile *domain.LedgerProfile,
	db *sql.DB,
	engine *analysis.Engine,
	txnStore transactions.Store,
	runStore runs.Store,
	scheduleStore schedule.Store,
) *Runner {
	return &Runner{
		profile:       profile,
		db:            db,
		engine:        engine,
		txnStore:      txnStore,
		runStore:      runStore,
		scheduleStore: scheduleStore,
		done:          make(chan struct{}),
		progress:      make(chan RunnerProgress, 100),
		config: RunnerConfig{
			Interval:      1 * time.Hour,
			RetryInterval: 10 * time.Second,
		},
	}
}

func (r *Runner) Done() <-chan struct{} {
	return r.done
}

func (r *Runner) Progress() <-chan RunnerProgress {
	return r.progress
}

func (r *Runner) Run(ctx context.Context) {
	logger := zerolog.Ctx(ctx).With().Str("ledger", r.profile.Name).Logger()
	ctx = logger.WithContext(ctx)
	defer close(r.done)
	defer close(r.progress)

	completed := int64(0)
	for {
		analyzed, ranAt, err := r.runOnce(ctx)
		if err != nil {
			if ctx.Err() != nil {
				logger.Info().Msg("schedule stopped")
				return
			}
			logger.Error().Err(err).Msg("scheduled analysis failed")
			r.markFailed(ctx, err)
		} else {
			completed++
			logger.Info().Int("transactions", analyzed).Msg("scheduled analysis completed")
			r.progress <- RunnerProgress{
				RunsCompleted:        completed,
				TransactionsAnalyzed: int64(analyzed),
				LastRunAt:            ranAt,
			}
		}

		wait := r.config.Interval
		if err != nil {
			wait = r.config.RetryInterval
		}
		select {
		case <-ctx.Done():
			logger.Info().Msg("schedule stopped")
			return
		case <-time.After(wait):
		}
	}
}

func (r *Runner) runOnce(ctx context.Context) (int, time.Time, error) {
	rows, err := r.txnStore.List(ctx, time.Time{}, time.Time{})
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("load transactions: %w", err)
	}
	txns, err := adapters.MapStoreTransactionsToDomain(rows)
	if err != nil {
		return 0, time.Time{}, err
	}

	result, err := r.engine.Run(ctx, analysis.Input{
		Transactions:   txns,
		OpeningBalance: r.profile.OpeningBalance,
	})
	if err != nil {
		return 0, time.Time{}, err
	}

	run, err := adapters.MapAnalysisResultToStoreRun(result, r.engine.Config(), time.Now().UTC())
	if err != nil {
		return 0, time.Time{}, err
	}

	err = duckdb.RunInTransaction(ctx, r.db, func(ctx context.Context) error {
		if err := r.runStore.Save(ctx, r.profile.Name, run); err != nil {
			return err
		}
		if err := r.scheduleStore.UpdateStatus(ctx, r.profile.Name, string(domain.ScheduleStatusRunning), nil); err != nil {
			return err
		}
		return r.scheduleStore.Progress(ctx, r.profile.Name, run.CreatedAt)
	})
	if err != nil {
		return 0, time.Time{}, err
	}
	return len(txns), run.CreatedAt, nil
}

func (r *Runner) markFailed(ctx context.Context, runErr error) {
	msg := runErr.Error()
	if err := r.scheduleStore.UpdateStatus(ctx, r.profile.Name, string(domain.ScheduleStatusFailed), &msg); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to record schedule failure")
	}
}
