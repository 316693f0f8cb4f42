package schedule

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/VasiliyTop/AI-finanalitik/pkg/models/store"
	"github.com/VasiliyTop/AI-finanalitik/pkg/store/duckdb"
)

// Store keeps per-ledger re-analysis registrations. One row per ledger;
// registering an already scheduled ledger is an error so two schedulers
// can never race on the same book.
type Store interface {
	Create(ctx context.Context, ledger string) (*store.Schedule, error)
	List(ctx context.Context, statuses []string) ([]*store.Schedule, error)
	UpdateStatus(ctx context.Context, ledger string, status string, errMsg *string) error
	Progress(ctx context.Context, ledger string, lastRunAt time.Time) error
	Delete(ctx context.Context, ledger string) error
}

type defaultStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &defaultStore{
		db: db,
	}, nil
}

// exec runs a write through the ambient transaction when one is on the
// context, so schedule updates can commit atomically with run artifacts.
func (s *defaultStore) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if tx := duckdb.GetTransaction(ctx); tx != nil {
		return tx.ExecContext(ctx, query, args...)
	}
	return s.db.ExecContext(ctx, query, args...)
}

func (s *defaultStore) Create(ctx context.Context, ledger string) (*store.Schedule, error) {
	now := time.Now().UTC()
	_, err := s.exec(ctx,
		`INSERT INTO schedule_state (ledger, status, created_at) VALUES (?, ?, ?)`,
		ledger, "running", now,
	)
	if err != nil {
		return nil, fmt.Errorf("create schedule for %q: %w", ledger, err)
	}
	return &store.Schedule{Ledger: ledger, Status: "running", CreatedAt: now}, nil
}

func (s *defaultStore) List(ctx context.Context, statuses []string) ([]*store.Schedule, error) {
	query := `SELECT ledger, status, error, created_at, last_run_at FROM schedule_state`
	args := make([]interface{}, 0, len(statuses))
	if len(statuses) > 0 {
		placeholders := ""
		for i, status := range statuses {
			if i > 0 {
				placeholders += ","
			}
			placeholders += "?"
			args = append(args, status)
		}
		query += fmt.Sprintf(" WHERE status IN (%s)", placeholders)
	}
	query += " ORDER BY ledger"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	defer rows.Close()

	schedules := make([]*store.Schedule, 0)
	for rows.Next() {
		var (
			sched   store.Schedule
			errMsg  sql.NullString
			lastRun sql.NullTime
		)
		if err := rows.Scan(&sched.Ledger, &sched.Status, &errMsg, &sched.CreatedAt, &lastRun); err != nil {
			return nil, err
		}
		if errMsg.Valid {
			msg := errMsg.String
			sched.Error = &msg
		}
		if lastRun.Valid {
			t := lastRun.Time
			sched.LastRunAt = &t
		}
		schedules = append(schedules, &sched)
	}
	return schedules, rows.Err()
}

func (s *defaultStore) UpdateStatus(ctx context.Context, ledger string, status string, errMsg *string) error {
	res, err := s.exec(ctx,
		`UPDATE schedule_state SET status = ?, error = ? WHERE ledger = ?`,
		status, errMsg, ledger,
	)
	if err != nil {
		return fmt.Errorf("update schedule status for %q: %w", ledger, err)
	}
	return ensureScheduleTouched(res, ledger)
}

func (s *defaultStore) Progress(ctx context.Context, ledger string, lastRunAt time.Time) error {
	res, err := s.exec(ctx,
		`UPDATE schedule_state SET last_run_at = ? WHERE ledger = ?`,
		lastRunAt, ledger,
	)
	if err != nil {
		return fmt.Errorf("progress schedule for %q: %w", ledger, err)
	}
	return ensureScheduleTouched(res, ledger)
}

func (s *defaultStore) Delete(ctx context.Context, ledger string) error {
	res, err := s.exec(ctx, `DELETE FROM schedule_state WHERE ledger = ?`, ledger)
	if err != nil {
		return fmt.Errorf("delete schedule for %q: %w", ledger, err)
	}
	return ensureScheduleTouched(res, ledger)
}

func ensureScheduleTouched(res sql.Result, ledger string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("no schedule registered for ledger %q", ledger)
	}
	return nil
}
