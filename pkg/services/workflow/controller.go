package workflow

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/VasiliyTop/AI-finanalitik/pkg/adapters"
	"github.com/VasiliyTop/AI-finanalitik/pkg/models/domain"
	"github.com/VasiliyTop/AI-finanalitik/pkg/services/analysis"
	"github.com/VasiliyTop/AI-finanalitik/pkg/services/config"
	"github.com/VasiliyTop/AI-finanalitik/pkg/store/duckdb/runs"
	"github.com/VasiliyTop/AI-finanalitik/pkg/store/duckdb/schedule"
	"github.com/VasiliyTop/AI-finanalitik/pkg/store/duckdb/transactions"
	"github.com/rs/zerolog"
)

var (
	ErrAlreadyScheduled = errors.New("ledger already scheduled")
	ErrNotScheduled     = errors.New("ledger not scheduled")
)

type Controller interface {
	Start(ctx context.Context, ledger string) (*domain.Schedule, error)
	Cancel(ctx context.Context, ledger string) error
}

type scheduleDescriptor struct {
	cancelFunc context.CancelFunc
	runner     *Runner
}

type DefaultController struct {
	db            *sql.DB
	engine        *analysis.Engine
	profiles      config.Registry
	scheduleStore schedule.Store
	runStore      runs.Store

	mu        sync.Mutex
	schedules map[string]scheduleDescriptor
}

func NewController(
	db *sql.DB,
	engine *analysis.Engine,
	profiles config.Registry,
	scheduleStore schedule.Store,
	runStore runs.Store,
) *DefaultController {
	return &DefaultController{
		db:            db,
		engine:        engine,
		profiles:      profiles,
		scheduleStore: scheduleStore,
		runStore:      runStore,
		schedules:     make(map[string]scheduleDescriptor),
	}
}

// Init resumes every registered schedule. Rows only exist for ledgers
// whose schedule was never cancelled, so everything found here restarts.
func (ctrl *DefaultController) Init(ctx context.Context) error {
	schedules, err := ctrl.scheduleStore.List(ctx, []string{})
	if err != nil {
		return err
	}

	for _, sched := range schedules {
		if err := ctrl.startSchedule(ctx, sched.Ledger); err != nil {
			zerolog.Ctx(ctx).Error().Err(err).
				Str("ledger", sched.Ledger).
				Msg("failed to resume schedule")
		}
	}

	return nil
}

func (ctrl *DefaultController) Start(ctx context.Context, ledger string) (*domain.Schedule, error) {
	ctrl.mu.Lock()
	_, running := ctrl.schedules[ledger]
	ctrl.mu.Unlock()
	if running {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyScheduled, ledger)
	}

	sched, err := ctrl.scheduleStore.Create(ctx, ledger)
	if err != nil {
		return nil, err
	}

	if err := ctrl.startSchedule(ctx, ledger); err != nil {
		_ = ctrl.scheduleStore.Delete(ctx, ledger)
		return nil, err
	}
	return adapters.MapStoreScheduleToDomain(sched), nil
}

func (ctrl *DefaultController) Cancel(ctx context.Context, ledger string) error {
	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()

	desc, ok := ctrl.schedules[ledger]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotScheduled, ledger)
	}
	desc.cancelFunc()
	<-desc.runner.Done()

	delete(ctrl.schedules, ledger)
	return ctrl.scheduleStore.Delete(ctx, ledger)
}

func (ctrl *DefaultController) startSchedule(ctx context.Context, ledger string) error {
	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()

	if _, ok := ctrl.schedules[ledger]; ok {
		return fmt.Errorf("%w: %s", ErrAlreadyScheduled, ledger)
	}

	profile, err := ctrl.profiles.GetLedger(ctx, ledger)
	if err != nil {
		return err
	}

	txnStore, err := transactions.NewLedgerStore(ctrl.db, ledger)
	if err != nil {
		return err
	}

	// The runner outlives the request that started it; keep the logger,
	// drop the request's cancellation.
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))

	runner := NewRunner(profile, ctrl.db, ctrl.engine, txnStore, ctrl.runStore, ctrl.scheduleStore)
	ctrl.schedules[ledger] = scheduleDescriptor{
		cancelFunc: cancel,
		runner:     runner,
	}

	go runner.Run(runCtx)
	return nil
}
