package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	handlers "github.com/VasiliyTop/AI-finanalitik/pkg/handlers/analysis"
	"github.com/VasiliyTop/AI-finanalitik/pkg/models/domain"
	finanalitikmiddleware "github.com/VasiliyTop/AI-finanalitik/pkg/server/middleware"
	"github.com/VasiliyTop/AI-finanalitik/pkg/services/config"
	"github.com/VasiliyTop/AI-finanalitik/pkg/services/ingest"
	"github.com/VasiliyTop/AI-finanalitik/pkg/services/workflow"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

const defaultShutdownTimeout = 10 * time.Second

type WebAPI struct {
	router          *chi.Mux
	logger          *zerolog.Logger
	server          *http.Server
	shutdownTimeout time.Duration
}

type Dependencies struct {
	EngineConfig domain.EngineConfig
	Formats      ingest.Registry
	Profiles     config.Registry
	Controller   workflow.Controller
	Stores       handlers.Stores
	Logger       zerolog.Logger
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	Dependencies    Dependencies
}

// ConfigureRouter builds the full route table. Split from NewWebAPI so
// tests can mount the routes on httptest servers.
func ConfigureRouter(config Config) *chi.Mux {
	deps := config.Dependencies
	analysisRouter := handlers.NewAnalysisRouter(
		deps.EngineConfig,
		deps.Formats,
		deps.Profiles,
		deps.Controller,
		deps.Stores,
	)

	router := chi.NewRouter()

	router.Use(finanalitikmiddleware.Logger(&deps.Logger))
	router.Use(middleware.Recoverer)

	router.Route("/api/v1", func(r chi.Router) {
		r.Post("/transactions/import", analysisRouter.ImportTransactions)
		r.Get("/transactions", analysisRouter.ListTransactions)
		r.Post("/analysis/run", analysisRouter.RunAnalysis)
		r.Get("/analysis/latest", analysisRouter.GetLatestRun)
		r.Get("/analysis/runs/{run}", analysisRouter.GetRun)
		r.Post("/analysis/schedule", analysisRouter.StartSchedule)
		r.Delete("/analysis/schedule", analysisRouter.CancelSchedule)
		r.Get("/forecast", analysisRouter.GetForecast)
		r.Get("/risks", analysisRouter.GetRisks)
		r.Get("/recommendations", analysisRouter.GetRecommendations)
		r.Get("/dashboard/metrics", analysisRouter.GetDashboardMetrics)
	})

	return router
}

func NewWebAPI(config Config) *WebAPI {
	router := ConfigureRouter(config)
	logger := config.Dependencies.Logger

	timeout := config.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}

	return &WebAPI{
		router: router,
		logger: &logger,
		server: &http.Server{
			Addr:    config.Addr,
			Handler: router,
		},
		shutdownTimeout: timeout,
	}
}

func (w *WebAPI) Start() error {
	serverErrors := make(chan error, 1)
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-shutdown:
		w.logger.Info().Msg("shutdown initiated")

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), w.shutdownTimeout)
		defer cancel()

		err := w.server.Shutdown(ctx)
		if err != nil {
			w.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = w.server.Close()
		}

		if err != nil {
			return err
		}
	}

	return nil
}
