package adapters

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/VasiliyTop/AI-finanalitik/pkg/models/api"
	"github.com/VasiliyTop/AI-finanalitik/pkg/models/domain"
	"github.com/VasiliyTop/AI-finanalitik/pkg/models/store"
	"github.com/google/uuid"
)

func MapLedgerBucketDomainToApi(b domain.LedgerBucket) api.LedgerBucket {
	return api.LedgerBucket{
		PeriodStart:    b.PeriodStart,
		PeriodEnd:      b.PeriodEnd,
		OpeningBalance: b.OpeningBalance,
		InflowTotal:    b.InflowTotal,
		OutflowTotal:   b.OutflowTotal,
		ClosingBalance: b.ClosingBalance,
		CategoryFlows:  b.CategoryFlows,
	}
}

func MapForecastDomainToApi(f domain.Forecast) api.Forecast {
	out := api.Forecast{
		Points: make([]api.ForecastPoint, 0, len(f.Points)),
	}
	for _, p := range f.Points {
		out.Points = append(out.Points, api.ForecastPoint{
			PeriodStart:      p.PeriodStart,
			ProjectedBalance: p.ProjectedBalance,
			LowerBound:       p.LowerBound,
			UpperBound:       p.UpperBound,
			Basis:            api.Basis(p.Basis),
		})
	}
	for _, c := range f.Categories {
		flows := make([]api.CategoryFlowPoint, 0, len(c.Flows))
		for _, fl := range c.Flows {
			flows = append(flows, api.CategoryFlowPoint{
				PeriodStart: fl.PeriodStart,
				NetFlow:     fl.NetFlow,
			})
		}
		out.Categories = append(out.Categories, api.CategoryForecast{
			Category: c.Category,
			Flows:    flows,
		})
	}
	return out
}

func MapGapEventDomainToApi(e domain.GapEvent) api.GapEvent {
	return api.GapEvent{
		WindowStart:      e.WindowStart,
		WindowEnd:        e.WindowEnd,
		ProjectedMinimum: e.ProjectedMinimum,
		Severity:         api.Severity(e.Severity.String()),
		LeadTimePeriods:  e.LeadTimePeriods,
	}
}

// MapApiGapEventsToDomain rehydrates gap events from a persisted run payload.
func MapApiGapEventsToDomain(events []api.GapEvent) []domain.GapEvent {
	out := make([]domain.GapEvent, 0, len(events))
	for _, e := range events {
		out = append(out, domain.GapEvent{
			WindowStart:      e.WindowStart,
			WindowEnd:        e.WindowEnd,
			ProjectedMinimum: e.ProjectedMinimum,
			Severity:         domain.ParseSeverity(string(e.Severity)),
			LeadTimePeriods:  e.LeadTimePeriods,
		})
	}
	return out
}

func MapRiskScoreDomainToApi(s domain.RiskScore) api.RiskScore {
	factors := make([]api.RiskFactor, 0, len(s.Factors))
	for _, f := range s.Factors {
		factors = append(factors, api.RiskFactor{
			Name:     f.Name,
			Weight:   f.Weight,
			RawValue: f.Raw,
		})
	}
	return api.RiskScore{
		Subject:             s.Subject,
		Score:               s.Score,
		ContributingFactors: factors,
	}
}

func MapRecommendationDomainToApi(r domain.Recommendation) api.Recommendation {
	return api.Recommendation{
		TriggerID:         r.TriggerID,
		Priority:          r.Priority,
		MessageTemplateID: r.MessageTemplateID,
		SupportingEvidence: api.Evidence{
			GapWindows:   r.Evidence.GapWindows,
			RiskSubjects: r.Evidence.RiskSubjects,
		},
	}
}

func MapAnalysisResultDomainToApi(r domain.AnalysisResult) api.AnalysisResult {
	out := api.AnalysisResult{
		Ledger:          make([]api.LedgerBucket, 0, len(r.Ledger)),
		Forecast:        MapForecastDomainToApi(r.Forecast),
		Gaps:            make([]api.GapEvent, 0, len(r.Gaps)),
		Risks:           make([]api.RiskScore, 0, len(r.Risks)),
		Recommendations: make([]api.Recommendation, 0, len(r.Recommendations)),
	}
	for _, b := range r.Ledger {
		out.Ledger = append(out.Ledger, MapLedgerBucketDomainToApi(b))
	}
	for _, e := range r.Gaps {
		out.Gaps = append(out.Gaps, MapGapEventDomainToApi(e))
	}
	for _, s := range r.Risks {
		out.Risks = append(out.Risks, MapRiskScoreDomainToApi(s))
	}
	for _, rec := range r.Recommendations {
		out.Recommendations = append(out.Recommendations, MapRecommendationDomainToApi(rec))
	}
	return out
}

// MapAnalysisResultToStoreRun freezes one engine invocation for persistence.
// The payload is the API shape of the result, so stored runs replay through
// the same JSON contract the live endpoints serve.
func MapAnalysisResultToStoreRun(r domain.AnalysisResult, cfg domain.EngineConfig, now time.Time) (store.AnalysisRun, error) {
	payload, err := json.Marshal(MapAnalysisResultDomainToApi(r))
	if err != nil {
		return store.AnalysisRun{}, fmt.Errorf("serialize analysis result: %w", err)
	}
	return store.AnalysisRun{
		ID:          uuid.NewString(),
		CreatedAt:   now.UTC(),
		Granularity: string(cfg.Granularity),
		Horizon:     cfg.ForecastHorizon,
		Floor:       cfg.LiquidityFloor.String(),
		Payload:     payload,
	}, nil
}

func MapStoreRunToApi(run *store.AnalysisRun) (api.AnalysisRun, error) {
	var result api.AnalysisResult
	if err := json.Unmarshal(run.Payload, &result); err != nil {
		return api.AnalysisRun{}, fmt.Errorf("deserialize analysis run %s: %w", run.ID, err)
	}
	return api.AnalysisRun{
		ID:          run.ID,
		CreatedAt:   run.CreatedAt,
		Granularity: run.Granularity,
		Horizon:     run.Horizon,
		Floor:       run.Floor,
		Result:      result,
	}, nil
}
