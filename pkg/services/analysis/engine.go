package analysis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/VasiliyTop/AI-finanalitik/pkg/models/domain"
	"github.com/VasiliyTop/AI-finanalitik/pkg/services/forecast"
	"github.com/VasiliyTop/AI-finanalitik/pkg/services/gaps"
	"github.com/VasiliyTop/AI-finanalitik/pkg/services/ledger"
	"github.com/VasiliyTop/AI-finanalitik/pkg/services/recommend"
	"github.com/VasiliyTop/AI-finanalitik/pkg/services/risk"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Engine runs the full analysis pipeline: aggregation, forecasting, gap
// detection, risk scoring and advice. It holds validated configuration
// only; every run is a pure function of its input.
type Engine struct {
	cfg domain.EngineConfig
}

// NewEngine validates the configuration up front so a misconfigured
// engine can never produce a partial result.
func NewEngine(cfg domain.EngineConfig) (*Engine, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg}, nil
}

func (e *Engine) Config() domain.EngineConfig {
	return e.cfg
}

// Input carries one analysis window. Now anchors transaction date
// validation and defaults to the current time when left zero.
type Input struct {
	Transactions   []domain.Transaction
	OpeningBalance decimal.Decimal
	Now            time.Time
}

// Run executes the pipeline over the given transactions. Gap detection
// with liquidity scoring and counterparty scoring are independent once
// the forecast exists, so the two branches run concurrently and join
// before advice is evaluated.
func (e *Engine) Run(ctx context.Context, in Input) (domain.AnalysisResult, error) {
	now := in.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}
	if err := validateTransactions(in.Transactions, now, e.cfg.MaxTransactionAge); err != nil {
		return domain.AnalysisResult{}, err
	}

	buckets, err := ledger.Aggregate(in.Transactions, e.cfg.Granularity, in.OpeningBalance)
	if err != nil {
		return domain.AnalysisResult{}, err
	}

	fc, err := forecast.Project(buckets, e.cfg.Granularity, e.cfg.ForecastHorizon, forecast.Settings{
		MinHistoryPeriods: e.cfg.MinHistoryPeriods,
		Model:             e.cfg.Model,
		SmoothingFactor:   e.cfg.SmoothingFactor,
		CurrencyExponent:  e.cfg.CurrencyExponent,
	})
	if err != nil {
		return domain.AnalysisResult{}, err
	}

	windowEnd := buckets[len(buckets)-1].PeriodEnd

	var (
		wg        sync.WaitGroup
		events    []domain.GapEvent
		liquidity domain.RiskScore
		cpScores  []domain.RiskScore
		cpErr     error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		events = gaps.Detect(fc.Points, e.cfg.LiquidityFloor, ledger.TypicalOutflow(buckets))
		liquidity = risk.ScoreLiquidity(buckets, events, e.cfg.ForecastHorizon, e.cfg.Weights.Liquidity)
	}()
	go func() {
		defer wg.Done()
		for _, id := range risk.Counterparties(in.Transactions) {
			score, scoreErr := risk.ScoreCounterparty(in.Transactions, id, windowEnd, e.cfg.Weights.Counterparty)
			if scoreErr != nil {
				cpErr = scoreErr
				return
			}
			cpScores = append(cpScores, score)
		}
	}()
	wg.Wait()
	if cpErr != nil {
		return domain.AnalysisResult{}, cpErr
	}

	risks := append([]domain.RiskScore{liquidity}, cpScores...)

	recs, err := recommend.Evaluate(e.cfg.Rules, events, risks)
	if err != nil {
		return domain.AnalysisResult{}, err
	}

	zerolog.Ctx(ctx).Debug().
		Int("buckets", len(buckets)).
		Int("gap_events", len(events)).
		Int("risk_scores", len(risks)).
		Int("recommendations", len(recs)).
		Msg("analysis run complete")

	return domain.AnalysisResult{
		Ledger:          buckets,
		Forecast:        fc,
		Gaps:            events,
		Risks:           risks,
		Recommendations: recs,
	}, nil
}

// SubjectScore picks one subject's score out of a finished result.
func SubjectScore(res domain.AnalysisResult, subject string) (domain.RiskScore, error) {
	for _, rs := range res.Risks {
		if rs.Subject == subject {
			return rs, nil
		}
	}
	return domain.RiskScore{}, fmt.Errorf("%w: %q", domain.ErrUnknownSubject, subject)
}

func validateConfig(cfg domain.EngineConfig) error {
	if _, err := domain.ParseGranularity(string(cfg.Granularity)); err != nil {
		return err
	}
	if cfg.ForecastHorizon < 1 {
		return fmt.Errorf("%w: forecast horizon %d, want >= 1", domain.ErrInvalidConfiguration, cfg.ForecastHorizon)
	}
	if cfg.MinHistoryPeriods < 2 {
		return fmt.Errorf("%w: minimum history %d, want >= 2", domain.ErrInvalidConfiguration, cfg.MinHistoryPeriods)
	}
	switch cfg.Model {
	case domain.ModelLinear:
	case domain.ModelExponential:
		if cfg.SmoothingFactor <= 0 || cfg.SmoothingFactor >= 1 {
			return fmt.Errorf("%w: smoothing factor %v, want inside (0, 1)", domain.ErrInvalidConfiguration, cfg.SmoothingFactor)
		}
	default:
		return fmt.Errorf("%w: unknown forecast model %q", domain.ErrInvalidConfiguration, cfg.Model)
	}
	if cfg.CurrencyExponent < 0 {
		return fmt.Errorf("%w: currency exponent %d, want >= 0", domain.ErrInvalidConfiguration, cfg.CurrencyExponent)
	}
	if cfg.MaxTransactionAge < 1 {
		return fmt.Errorf("%w: max transaction age %d years, want >= 1", domain.ErrInvalidConfiguration, cfg.MaxTransactionAge)
	}
	if err := validateWeights(cfg.Weights); err != nil {
		return err
	}
	return recommend.ValidateRules(cfg.Rules)
}

// validateWeights checks each group sums to exactly 1 in decimal
// arithmetic, so no configuration can silently skew a score scale.
func validateWeights(w domain.RiskWeights) error {
	one := decimal.New(1, 0)

	all := []float64{
		w.Liquidity.Gap, w.Liquidity.Volatility,
		w.Counterparty.Regularity, w.Counterparty.Concentration, w.Counterparty.Overdue,
	}
	for _, v := range all {
		if v < 0 {
			return fmt.Errorf("%w: negative risk weight %v", domain.ErrInvalidConfiguration, v)
		}
	}

	liqSum := decimal.NewFromFloat(w.Liquidity.Gap).Add(decimal.NewFromFloat(w.Liquidity.Volatility))
	if !liqSum.Equal(one) {
		return fmt.Errorf("%w: liquidity weights sum to %s, want 1", domain.ErrInvalidConfiguration, liqSum)
	}
	cpSum := decimal.NewFromFloat(w.Counterparty.Regularity).
		Add(decimal.NewFromFloat(w.Counterparty.Concentration)).
		Add(decimal.NewFromFloat(w.Counterparty.Overdue))
	if !cpSum.Equal(one) {
		return fmt.Errorf("%w: counterparty weights sum to %s, want 1", domain.ErrInvalidConfiguration, cpSum)
	}
	return nil
}

func validateTransactions(txns []domain.Transaction, now time.Time, maxAgeYears int) error {
	oldest := now.AddDate(-maxAgeYears, 0, 0)
	newest := now.AddDate(maxAgeYears, 0, 0)
	for i, t := range txns {
		if t.Date.IsZero() {
			return fmt.Errorf("%w: transaction %d has no date", domain.ErrInvalidTransaction, i)
		}
		if t.Date.Before(oldest) || t.Date.After(newest) {
			return fmt.Errorf("%w: transaction %d dated %s is outside the accepted window",
				domain.ErrInvalidTransaction, i, t.Date.Format("2006-01-02"))
		}
	}
	return nil
}
