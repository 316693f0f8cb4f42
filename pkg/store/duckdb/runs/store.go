package runs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/VasiliyTop/AI-finanalitik/pkg/models/store"
	"github.com/VasiliyTop/AI-finanalitik/pkg/store/duckdb"
)

var (
	ErrNoRuns      = errors.New("no analysis runs recorded")
	ErrRunNotFound = errors.New("analysis run not found")
)

// Store persists finished analysis runs per ledger. The full artifact set
// travels as an opaque JSON payload; only the knobs that identify a run
// get their own columns.
type Store interface {
	Save(ctx context.Context, ledger string, run store.AnalysisRun) error
	Latest(ctx context.Context) (*store.AnalysisRun, error)
	Get(ctx context.Context, id string) (*store.AnalysisRun, error)
}

type runStore struct {
	db     *sql.DB
	ledger string // optional; required for read methods
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &runStore{db: db}, nil
}

// NewLedgerStore returns a Store bound to a specific ledger for read operations
func NewLedgerStore(db *sql.DB, ledger string) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	if ledger == "" {
		return nil, fmt.Errorf("ledger is required for read store")
	}
	return &runStore{db: db, ledger: ledger}, nil
}

func (s *runStore) Save(ctx context.Context, ledger string, run store.AnalysisRun) error {
	tx := duckdb.GetTransaction(ctx)
	query := `
		INSERT INTO analysis_runs (
			id, ledger, created_at, granularity, horizon, floor, payload
		) VALUES (
			?, ?, ?, ?, ?, ?, ?
		)`

	var err error
	if tx == nil {
		_, err = s.db.ExecContext(ctx, query,
			run.ID, ledger, run.CreatedAt, run.Granularity, run.Horizon, run.Floor, string(run.Payload))
	} else {
		_, err = tx.ExecContext(ctx, query,
			run.ID, ledger, run.CreatedAt, run.Granularity, run.Horizon, run.Floor, string(run.Payload))
	}
	if err != nil {
		return fmt.Errorf("insert analysis run: %w", err)
	}
	return nil
}

func (s *runStore) Latest(ctx context.Context) (*store.AnalysisRun, error) {
	if s.ledger == "" {
		return nil, fmt.Errorf("read operation requires ledger-bound store; use NewLedgerStore")
	}
	query := `
		SELECT id, created_at, granularity, horizon, floor, payload
		FROM analysis_runs
		WHERE ledger = ?
		ORDER BY created_at DESC
		LIMIT 1
	`
	run, err := s.scanRun(s.db.QueryRowContext(ctx, query, s.ledger))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoRuns
	}
	if err != nil {
		return nil, fmt.Errorf("query latest analysis run: %w", err)
	}
	return run, nil
}

func (s *runStore) Get(ctx context.Context, id string) (*store.AnalysisRun, error) {
	if s.ledger == "" {
		return nil, fmt.Errorf("read operation requires ledger-bound store; use NewLedgerStore")
	}
	query := `
		SELECT id, created_at, granularity, horizon, floor, payload
		FROM analysis_runs
		WHERE ledger = ? AND id = ?
	`
	run, err := s.scanRun(s.db.QueryRowContext(ctx, query, s.ledger, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("query analysis run: %w", err)
	}
	return run, nil
}

func (s *runStore) scanRun(row *sql.Row) (*store.AnalysisRun, error) {
	var (
		run     store.AnalysisRun
		created time.Time
		payload string
	)
	err := row.Scan(&run.ID, &created, &run.Granularity, &run.Horizon, &run.Floor, &payload)
	if err != nil {
		return nil, err
	}
	run.CreatedAt = created
	run.Payload = []byte(payload)
	return &run, nil
}
