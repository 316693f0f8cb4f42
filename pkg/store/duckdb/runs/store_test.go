package runs

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/VasiliyTop/AI-finanalitik/pkg/models/store"
	"github.com/VasiliyTop/AI-finanalitik/pkg/store/duckdb"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	db    *sql.DB
	store Store
}

func setupFixture(t *testing.T) *fixture {
	db, err := duckdb.NewDB(duckdb.Settings{DbPath: ":memory:"})
	require.NoError(t, err)
	store, err := NewStore(db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return &fixture{
		db:    db,
		store: store,
	}
}

func run(id string, createdAt time.Time) store.AnalysisRun {
	return store.AnalysisRun{
		ID:          id,
		CreatedAt:   createdAt,
		Granularity: "monthly",
		Horizon:     6,
		Floor:       "0",
		Payload:     []byte(`{"gaps":[]}`),
	}
}

func TestRunStore(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	t.Run("error - latest before any run", func(t *testing.T) {
		bound, err := NewLedgerStore(f.db, "main")
		require.NoError(t, err)

		_, err = bound.Latest(ctx)
		assert.ErrorIs(t, err, ErrNoRuns)
	})

	t.Run("success - save and read back the newest run", func(t *testing.T) {
		older := run("run-1", time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC))
		newer := run("run-2", time.Date(2026, 2, 2, 9, 0, 0, 0, time.UTC))

		require.NoError(t, f.store.Save(ctx, "main", older))
		require.NoError(t, f.store.Save(ctx, "main", newer))

		bound, err := NewLedgerStore(f.db, "main")
		require.NoError(t, err)

		latest, err := bound.Latest(ctx)
		require.NoError(t, err)
		assert.Equal(t, "run-2", latest.ID)
		assert.Equal(t, "monthly", latest.Granularity)
		assert.Equal(t, 6, latest.Horizon)
		assert.JSONEq(t, `{"gaps":[]}`, string(latest.Payload))
	})

	t.Run("success - ledgers do not leak into each other", func(t *testing.T) {
		require.NoError(t, f.store.Save(ctx, "backup",
			run("run-3", time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))))

		bound, err := NewLedgerStore(f.db, "main")
		require.NoError(t, err)

		latest, err := bound.Latest(ctx)
		require.NoError(t, err)
		assert.Equal(t, "run-2", latest.ID)
	})

	t.Run("success - fetch a historical run by id", func(t *testing.T) {
		bound, err := NewLedgerStore(f.db, "main")
		require.NoError(t, err)

		got, err := bound.Get(ctx, "run-1")
		require.NoError(t, err)
		assert.Equal(t, "run-1", got.ID)
		assert.JSONEq(t, `{"gaps":[]}`, string(got.Payload))
	})

	t.Run("error - run id from another ledger is not visible", func(t *testing.T) {
		bound, err := NewLedgerStore(f.db, "main")
		require.NoError(t, err)

		_, err = bound.Get(ctx, "run-3")
		assert.ErrorIs(t, err, ErrRunNotFound)
	})

	t.Run("error - unbound store cannot read", func(t *testing.T) {
		_, err := f.store.Latest(ctx)
		assert.Error(t, err)

		_, err = f.store.Get(ctx, "run-1")
		assert.Error(t, err)
	})
}
