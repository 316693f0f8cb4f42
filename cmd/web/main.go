package main

import (
	"fmt"
	"net"
	"os"

	"github.com/VasiliyTop/AI-finanalitik/pkg/handlers/analysis"
	"github.com/VasiliyTop/AI-finanalitik/pkg/server"
	analysisservice "github.com/VasiliyTop/AI-finanalitik/pkg/services/analysis"
	"github.com/VasiliyTop/AI-finanalitik/pkg/services/config"
	"github.com/VasiliyTop/AI-finanalitik/pkg/services/ingest"
	"github.com/VasiliyTop/AI-finanalitik/pkg/services/workflow"
	"github.com/VasiliyTop/AI-finanalitik/pkg/store/duckdb"
	duckdbruns "github.com/VasiliyTop/AI-finanalitik/pkg/store/duckdb/runs"
	duckdbschedule "github.com/VasiliyTop/AI-finanalitik/pkg/store/duckdb/schedule"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	profilesPath string
	dbPath       string
	enginePath   string
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for the cash flow analyzer",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&profilesPath, "profiles", "c", "ledgers.ini",
		"Path to the ledger profiles file")
	rootCmd.Flags().StringVar(&dbPath, "db", "finanalitik.db",
		"Path to the DuckDB database file")
	rootCmd.Flags().StringVar(&enginePath, "engine-profile", "",
		"Path to an engine configuration profile")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	engineConfig := analysisservice.DefaultConfig()
	if enginePath != "" {
		var err error
		engineConfig, err = analysisservice.LoadConfig(enginePath)
		if err != nil {
			return fmt.Errorf("failed to load engine profile: %w", err)
		}
	}

	registry, err := config.NewRegistry(profilesPath)
	if err != nil {
		return fmt.Errorf("failed to create profile registry: %w", err)
	}

	db, err := duckdb.NewDB(duckdb.Settings{
		DbPath: dbPath,
	})
	if err != nil {
		return fmt.Errorf("failed to create DuckDB instance: %w", err)
	}

	engine, err := analysisservice.NewEngine(engineConfig)
	if err != nil {
		return fmt.Errorf("failed to create analysis engine: %w", err)
	}
	scheduleStore, err := duckdbschedule.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to create schedule store: %w", err)
	}
	runStore, err := duckdbruns.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to create run store: %w", err)
	}
	workflowCtrl := workflow.NewController(db, engine, registry, scheduleStore, runStore)
	err = workflowCtrl.Init(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize workflow controller: %w", err)
	}

	logger.Info().Msgf("Ledger profiles found at `%s` successfully loaded.", profilesPath)
	logger.Info().Msgf("Found the following ledgers:")
	profiles, _ := registry.GetProfiles(ctx)
	for _, profile := range profiles {
		logger.Info().Msgf("Name: `%s`, Format: `%s`, Currency: `%s`", profile.Name, profile.Format, profile.Currency)
	}

	host := os.Getenv("SERVER_HOST")
	port := os.Getenv("SERVER_PORT")

	if host == "" || port == "" {
		logger.Error().Msgf("Missing server configuration from .env file")
		os.Exit(1)
	}

	api := server.NewWebAPI(server.Config{
		Addr: net.JoinHostPort(host, port),
		Dependencies: server.Dependencies{
			EngineConfig: engineConfig,
			Formats:      ingest.DefaultRegistry(),
			Profiles:     registry,
			Controller:   workflowCtrl,
			Stores:       analysis.NewStores(db),
			Logger:       logger,
		},
	})

	return api.Start()
}
