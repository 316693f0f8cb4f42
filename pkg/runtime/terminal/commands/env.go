package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/VasiliyTop/AI-finanalitik/pkg/adapters"
	"github.com/VasiliyTop/AI-finanalitik/pkg/models/domain"
	"github.com/VasiliyTop/AI-finanalitik/pkg/services/analysis"
	"github.com/VasiliyTop/AI-finanalitik/pkg/services/config"
	"github.com/VasiliyTop/AI-finanalitik/pkg/services/ingest"
	"github.com/VasiliyTop/AI-finanalitik/pkg/store/duckdb"
	"github.com/VasiliyTop/AI-finanalitik/pkg/store/duckdb/transactions"
	"github.com/spf13/cobra"
)

// env carries the flags every ledger-facing command shares: where the
// profiles file and the database live, which ledger to operate on and an
// optional engine profile overriding the built-in defaults.
type env struct {
	profilesPath string
	dbPath       string
	ledger       string
	enginePath   string
}

func (e *env) bindFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&e.profilesPath, "profiles", "ledgers.ini", "Path to the ledger profiles file")
	cmd.Flags().StringVar(&e.dbPath, "db", "finanalitik.db", "Path to the DuckDB database file")
	cmd.Flags().StringVar(&e.ledger, "ledger", "main", "Ledger profile to operate on")
	cmd.Flags().StringVar(&e.enginePath, "engine-profile", "", "Path to an engine configuration profile")
}

func (e *env) engineConfig() (domain.EngineConfig, error) {
	if e.enginePath == "" {
		return analysis.DefaultConfig(), nil
	}
	return analysis.LoadConfig(e.enginePath)
}

func (e *env) loadProfile(ctx context.Context) (*domain.LedgerProfile, error) {
	registry, err := config.NewRegistry(e.profilesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger profiles from %s: %w", e.profilesPath, err)
	}
	return registry.GetLedger(ctx, e.ledger)
}

func (e *env) storedTransactions(ctx context.Context) ([]domain.Transaction, error) {
	db, err := duckdb.NewDB(duckdb.Settings{DbPath: e.dbPath})
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", e.dbPath, err)
	}
	defer db.Close()

	txnStore, err := transactions.NewLedgerStore(db, e.ledger)
	if err != nil {
		return nil, err
	}
	records, err := txnStore.List(ctx, time.Time{}, time.Time{})
	if err != nil {
		return nil, err
	}
	return adapters.MapStoreTransactionsToDomain(records)
}

func (e *env) parseStatement(ctx context.Context, formats ingest.Registry, format, path string) ([]domain.Transaction, error) {
	parser, err := formats.Create(ctx, format)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open statement %s: %w", path, err)
	}
	defer file.Close()

	parsed, err := parser.Parse(ctx, file)
	if err != nil {
		return nil, err
	}
	return ingest.Validate(parsed, ingest.DefaultValidationSettings())
}

// analysisView bundles everything a rendered report needs.
type analysisView struct {
	result  domain.AnalysisResult
	profile *domain.LedgerProfile
	cfg     domain.EngineConfig
}

// analyzeStore runs the engine over every transaction stored for the ledger.
func (e *env) analyzeStore(ctx context.Context) (*analysisView, error) {
	profile, err := e.loadProfile(ctx)
	if err != nil {
		return nil, err
	}
	txns, err := e.storedTransactions(ctx)
	if err != nil {
		return nil, err
	}
	return e.analyze(ctx, profile, txns)
}

// analyzeStatement runs the engine over a statement file without touching
// the store. An empty format falls back to the profile's vendor format.
func (e *env) analyzeStatement(ctx context.Context, formats ingest.Registry, format, path string) (*analysisView, error) {
	profile, err := e.loadProfile(ctx)
	if err != nil {
		return nil, err
	}
	if format == "" {
		format = profile.Format
	}
	txns, err := e.parseStatement(ctx, formats, format, path)
	if err != nil {
		return nil, err
	}
	return e.analyze(ctx, profile, txns)
}

func (e *env) analyze(ctx context.Context, profile *domain.LedgerProfile, txns []domain.Transaction) (*analysisView, error) {
	cfg, err := e.engineConfig()
	if err != nil {
		return nil, err
	}
	engine, err := analysis.NewEngine(cfg)
	if err != nil {
		return nil, err
	}
	result, err := engine.Run(ctx, analysis.Input{
		Transactions:   txns,
		OpeningBalance: profile.OpeningBalance,
	})
	if err != nil {
		return nil, err
	}
	return &analysisView{result: result, profile: profile, cfg: cfg}, nil
}
