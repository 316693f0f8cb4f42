package analysis

import (
	"fmt"

	"github.com/VasiliyTop/AI-finanalitik/pkg/models/domain"
	"github.com/VasiliyTop/AI-finanalitik/pkg/services/recommend"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type Config struct {
	Granularity       string  `mapstructure:"granularity"`
	ForecastHorizon   int     `mapstructure:"forecast_horizon"`
	LiquidityFloor    string  `mapstructure:"liquidity_floor"`
	MinHistoryPeriods int     `mapstructure:"min_history_periods"`
	Model             string  `mapstructure:"model"`
	SmoothingFactor   float64 `mapstructure:"smoothing_factor"`
	CurrencyExponent  int32   `mapstructure:"currency_exponent"`
	MaxTransactionAge int     `mapstructure:"max_transaction_age_years"`
	Weights           struct {
		Gap           float64 `mapstructure:"gap"`
		Volatility    float64 `mapstructure:"volatility"`
		Regularity    float64 `mapstructure:"regularity"`
		Concentration float64 `mapstructure:"concentration"`
		Overdue       float64 `mapstructure:"overdue"`
	} `mapstructure:"weights"`
}

// DefaultConfig is the engine configuration used when no profile file
// overrides it. The rule table is the built-in one.
func DefaultConfig() domain.EngineConfig {
	return domain.EngineConfig{
		Granularity:       domain.GranularityMonthly,
		ForecastHorizon:   6,
		LiquidityFloor:    decimal.Zero,
		MinHistoryPeriods: 8,
		Model:             domain.ModelLinear,
		SmoothingFactor:   0.3,
		CurrencyExponent:  2,
		MaxTransactionAge: 10,
		Weights: domain.RiskWeights{
			Liquidity:    domain.LiquidityWeights{Gap: 0.6, Volatility: 0.4},
			Counterparty: domain.CounterpartyWeights{Regularity: 0.4, Concentration: 0.3, Overdue: 0.3},
		},
		Rules: recommend.DefaultRules(),
	}
}

// LoadConfig reads an engine profile from the given path. Keys absent
// from the file keep their defaults; the result still goes through
// NewEngine validation before it is used.
func LoadConfig(profilePath string) (domain.EngineConfig, error) {
	defaults := DefaultConfig()

	v := viper.New()
	v.SetConfigFile(profilePath)
	v.SetDefault("granularity", string(defaults.Granularity))
	v.SetDefault("forecast_horizon", defaults.ForecastHorizon)
	v.SetDefault("liquidity_floor", defaults.LiquidityFloor.String())
	v.SetDefault("min_history_periods", defaults.MinHistoryPeriods)
	v.SetDefault("model", string(defaults.Model))
	v.SetDefault("smoothing_factor", defaults.SmoothingFactor)
	v.SetDefault("currency_exponent", defaults.CurrencyExponent)
	v.SetDefault("max_transaction_age_years", defaults.MaxTransactionAge)
	v.SetDefault("weights.gap", defaults.Weights.Liquidity.Gap)
	v.SetDefault("weights.volatility", defaults.Weights.Liquidity.Volatility)
	v.SetDefault("weights.regularity", defaults.Weights.Counterparty.Regularity)
	v.SetDefault("weights.concentration", defaults.Weights.Counterparty.Concentration)
	v.SetDefault("weights.overdue", defaults.Weights.Counterparty.Overdue)

	if err := v.ReadInConfig(); err != nil {
		return domain.EngineConfig{}, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return domain.EngineConfig{}, fmt.Errorf("failed to parse engine config: %w", err)
	}
	return cfg.toDomain()
}

func (c Config) toDomain() (domain.EngineConfig, error) {
	granularity, err := domain.ParseGranularity(c.Granularity)
	if err != nil {
		return domain.EngineConfig{}, err
	}
	floor, err := decimal.NewFromString(c.LiquidityFloor)
	if err != nil {
		return domain.EngineConfig{}, fmt.Errorf("%w: liquidity floor %q is not a decimal",
			domain.ErrInvalidConfiguration, c.LiquidityFloor)
	}
	return domain.EngineConfig{
		Granularity:       granularity,
		ForecastHorizon:   c.ForecastHorizon,
		LiquidityFloor:    floor,
		MinHistoryPeriods: c.MinHistoryPeriods,
		Model:             domain.ForecastModel(c.Model),
		SmoothingFactor:   c.SmoothingFactor,
		CurrencyExponent:  c.CurrencyExponent,
		MaxTransactionAge: c.MaxTransactionAge,
		Weights: domain.RiskWeights{
			Liquidity: domain.LiquidityWeights{
				Gap:        c.Weights.Gap,
				Volatility: c.Weights.Volatility,
			},
			Counterparty: domain.CounterpartyWeights{
				Regularity:    c.Weights.Regularity,
				Concentration: c.Weights.Concentration,
				Overdue:       c.Weights.Overdue,
			},
		},
		Rules: recommend.DefaultRules(),
	}, nil
}
