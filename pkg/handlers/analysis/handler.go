package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/VasiliyTop/AI-finanalitik/pkg/adapters"
	"github.com/VasiliyTop/AI-finanalitik/pkg/models/api"
	"github.com/VasiliyTop/AI-finanalitik/pkg/models/domain"
	"github.com/VasiliyTop/AI-finanalitik/pkg/models/store"
	"github.com/VasiliyTop/AI-finanalitik/pkg/services/analysis"
	"github.com/VasiliyTop/AI-finanalitik/pkg/services/config"
	"github.com/VasiliyTop/AI-finanalitik/pkg/services/ingest"
	"github.com/VasiliyTop/AI-finanalitik/pkg/services/metrics"
	"github.com/VasiliyTop/AI-finanalitik/pkg/services/workflow"
	"github.com/VasiliyTop/AI-finanalitik/pkg/store/duckdb/runs"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

const (
	defaultLedger   = "main"
	dateParamLayout = "02-01-2006"
)

type Router struct {
	cfg        domain.EngineConfig
	formats    ingest.Registry
	profiles   config.Registry
	controller workflow.Controller
	stores     Stores
}

func NewAnalysisRouter(
	cfg domain.EngineConfig,
	formats ingest.Registry,
	profiles config.Registry,
	controller workflow.Controller,
	stores Stores,
) *Router {
	return &Router{
		cfg:        cfg,
		formats:    formats,
		profiles:   profiles,
		controller: controller,
		stores:     stores,
	}
}

// ImportTransactions parses the statement in the request body with the
// parser named by the format query parameter and stores the result.
// Duplicate records are counted as skipped, not errors.
func (router *Router) ImportTransactions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	format := r.URL.Query().Get("format")
	ledger := ledgerParam(r)

	parser, err := router.formats.Create(ctx, format)
	if err != nil {
		writeError(w, r, err)
		return
	}

	parsed, err := parser.Parse(ctx, r.Body)
	if err != nil {
		writeError(w, r, err)
		return
	}

	txns, err := ingest.Validate(parsed, ingest.DefaultValidationSettings())
	if err != nil {
		writeError(w, r, err)
		return
	}

	txnStore, err := router.stores.Transactions(ledger)
	if err != nil {
		writeError(w, r, err)
		return
	}

	records := make([]store.Transaction, 0, len(txns))
	for _, txn := range txns {
		records = append(records, adapters.MapDomainTransactionToStore(txn))
	}
	imported, err := txnStore.Add(ctx, ledger, records)
	if err != nil {
		writeError(w, r, err)
		return
	}

	zerolog.Ctx(ctx).Info().
		Str("ledger", ledger).
		Str("format", format).
		Int("imported", imported).
		Int("skipped", len(records)-imported).
		Msg("statement imported")

	writeJSON(w, r, http.StatusOK, api.ImportResult{
		Format:   format,
		Imported: imported,
		Skipped:  len(records) - imported,
	})
}

func (router *Router) ListTransactions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ledger := ledgerParam(r)

	from, err := parseDateParam(r, "from", time.Time{})
	if err != nil {
		writeErrorStatus(w, r, http.StatusBadRequest, err)
		return
	}
	to, err := parseDateParam(r, "to", time.Time{})
	if err != nil {
		writeErrorStatus(w, r, http.StatusBadRequest, err)
		return
	}

	txnStore, err := router.stores.Transactions(ledger)
	if err != nil {
		writeError(w, r, err)
		return
	}
	rows, err := txnStore.List(ctx, from, to)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response := make([]api.Transaction, 0, len(rows))
	for _, row := range rows {
		txn, err := adapters.MapStoreTransactionToApi(row)
		if err != nil {
			writeError(w, r, err)
			return
		}
		response = append(response, txn)
	}
	writeJSON(w, r, http.StatusOK, response)
}

// RunAnalysis executes the full pipeline over the ledger and persists the
// result as a new run. The optional request body overrides granularity,
// horizon and liquidity floor for this run only.
func (router *Router) RunAnalysis(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ledger := ledgerParam(r)

	var req api.RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeErrorStatus(w, r, http.StatusBadRequest, fmt.Errorf("decode run request: %w", err))
		return
	}

	engine, err := analysis.NewEngine(overrideConfig(router.cfg, req))
	if err != nil {
		writeError(w, r, err)
		return
	}

	result, err := router.analyze(ctx, ledger, engine)
	if err != nil {
		writeError(w, r, err)
		return
	}

	run, err := adapters.MapAnalysisResultToStoreRun(result, engine.Config(), time.Now().UTC())
	if err != nil {
		writeError(w, r, err)
		return
	}
	runStore, err := router.stores.Runs(ledger)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := runStore.Save(ctx, ledger, run); err != nil {
		writeError(w, r, err)
		return
	}

	response, err := adapters.MapStoreRunToApi(&run)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, response)
}

func (router *Router) GetLatestRun(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	runStore, err := router.stores.Runs(ledgerParam(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	latest, err := runStore.Latest(ctx)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response, err := adapters.MapStoreRunToApi(latest)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, response)
}

func (router *Router) GetRun(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "run")

	runStore, err := router.stores.Runs(ledgerParam(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	run, err := runStore.Get(ctx, id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response, err := adapters.MapStoreRunToApi(run)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, response)
}

func (router *Router) GetForecast(w http.ResponseWriter, r *http.Request) {
	result, ok := router.freshResult(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, adapters.MapForecastDomainToApi(result.Forecast))
}

func (router *Router) GetRisks(w http.ResponseWriter, r *http.Request) {
	result, ok := router.freshResult(w, r)
	if !ok {
		return
	}
	response := make([]api.RiskScore, 0, len(result.Risks))
	for _, s := range result.Risks {
		response = append(response, adapters.MapRiskScoreDomainToApi(s))
	}
	writeJSON(w, r, http.StatusOK, response)
}

func (router *Router) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	result, ok := router.freshResult(w, r)
	if !ok {
		return
	}
	response := make([]api.Recommendation, 0, len(result.Recommendations))
	for _, rec := range result.Recommendations {
		response = append(response, adapters.MapRecommendationDomainToApi(rec))
	}
	writeJSON(w, r, http.StatusOK, response)
}

func (router *Router) GetDashboardMetrics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ledger := ledgerParam(r)

	from, err := parseDateParam(r, "from", time.Time{})
	if err != nil {
		writeErrorStatus(w, r, http.StatusBadRequest, err)
		return
	}
	to, err := parseDateParam(r, "to", time.Time{})
	if err != nil {
		writeErrorStatus(w, r, http.StatusBadRequest, err)
		return
	}

	profile, err := router.profiles.GetLedger(ctx, ledger)
	if err != nil {
		writeError(w, r, err)
		return
	}
	txnStore, err := router.stores.Transactions(ledger)
	if err != nil {
		writeError(w, r, err)
		return
	}
	rows, err := txnStore.List(ctx, from, to)
	if err != nil {
		writeError(w, r, err)
		return
	}
	txns, err := adapters.MapStoreTransactionsToDomain(rows)
	if err != nil {
		writeError(w, r, err)
		return
	}

	dashboard, err := metrics.Dashboard(txns, router.cfg.Granularity, profile.OpeningBalance, metrics.DefaultSettings())
	if err != nil {
		writeError(w, r, err)
		return
	}

	response := adapters.MapDashboardMetricsDomainToApi(dashboard)
	router.attachGapSummary(ctx, ledger, &response)
	writeJSON(w, r, http.StatusOK, response)
}

func (router *Router) StartSchedule(w http.ResponseWriter, r *http.Request) {
	sched, err := router.controller.Start(r.Context(), ledgerParam(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, adapters.MapScheduleDomainToApi(sched))
}

func (router *Router) CancelSchedule(w http.ResponseWriter, r *http.Request) {
	if err := router.controller.Cancel(r.Context(), ledgerParam(r)); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (router *Router) analyze(
	ctx context.Context,
	ledger string,
	engine *analysis.Engine,
) (domain.AnalysisResult, error) {
	profile, err := router.profiles.GetLedger(ctx, ledger)
	if err != nil {
		return domain.AnalysisResult{}, err
	}
	txnStore, err := router.stores.Transactions(ledger)
	if err != nil {
		return domain.AnalysisResult{}, err
	}
	rows, err := txnStore.List(ctx, time.Time{}, time.Time{})
	if err != nil {
		return domain.AnalysisResult{}, err
	}
	txns, err := adapters.MapStoreTransactionsToDomain(rows)
	if err != nil {
		return domain.AnalysisResult{}, err
	}
	return engine.Run(ctx, analysis.Input{
		Transactions:   txns,
		OpeningBalance: profile.OpeningBalance,
	})
}

func (router *Router) freshResult(w http.ResponseWriter, r *http.Request) (domain.AnalysisResult, bool) {
	engine, err := analysis.NewEngine(router.cfg)
	if err != nil {
		writeError(w, r, err)
		return domain.AnalysisResult{}, false
	}
	result, err := router.analyze(r.Context(), ledgerParam(r), engine)
	if err != nil {
		writeError(w, r, err)
		return domain.AnalysisResult{}, false
	}
	return result, true
}

// attachGapSummary decorates dashboard metrics with the gap counts of the
// latest persisted run. A ledger with no runs yet simply has no summary.
func (router *Router) attachGapSummary(ctx context.Context, ledger string, response *api.DashboardMetrics) {
	runStore, err := router.stores.Runs(ledger)
	if err != nil {
		return
	}
	latest, err := runStore.Latest(ctx)
	switch {
	case errors.Is(err, runs.ErrNoRuns):
		return
	case err != nil:
		zerolog.Ctx(ctx).Warn().Err(err).Msg("failed to load latest run for gap summary")
		return
	}
	replay, err := adapters.MapStoreRunToApi(latest)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("failed to decode latest run for gap summary")
		return
	}
	summary := adapters.MapGapSummaryDomainToApi(
		metrics.SummarizeGaps(adapters.MapApiGapEventsToDomain(replay.Result.Gaps)),
	)
	response.GapSummary = &summary
}

func overrideConfig(base domain.EngineConfig, req api.RunRequest) domain.EngineConfig {
	if req.Granularity != "" {
		base.Granularity = domain.Granularity(req.Granularity)
	}
	if req.Horizon > 0 {
		base.ForecastHorizon = req.Horizon
	}
	if req.Floor != nil {
		base.LiquidityFloor = *req.Floor
	}
	return base
}

func ledgerParam(r *http.Request) string {
	if ledger := r.URL.Query().Get("ledger"); ledger != "" {
		return ledger
	}
	return defaultLedger
}

func parseDateParam(r *http.Request, name string, defaultDate time.Time) (time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return defaultDate, nil
	}
	parsed, err := time.Parse(dateParamLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s date %q, expected dd-mm-yyyy", name, raw)
	}
	return parsed, nil
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to encode response")
	}
}
