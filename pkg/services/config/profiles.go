package config

import (
	"context"
	"fmt"

	"github.com/VasiliyTop/AI-finanalitik/pkg/models/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/ini.v1"
)

const (
	defaultFormat   = "generic"
	defaultCurrency = "RUB"
)

// Registry reads named ledger profiles from an ini file. Each section is
// one ledger: its statement path, vendor format, currency and opening
// balance.
type Registry interface {
	GetProfiles(ctx context.Context) ([]domain.LedgerProfile, error)
	GetLedger(ctx context.Context, name string) (*domain.LedgerProfile, error)
}

type profileRegistry struct {
	cfg *ini.File
}

func NewRegistry(path string) (Registry, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, err
	}
	return &profileRegistry{cfg: cfg}, nil
}

func (pr *profileRegistry) GetProfiles(_ context.Context) ([]domain.LedgerProfile, error) {
	var profiles []domain.LedgerProfile
	for _, section := range pr.cfg.Sections() {
		if section.Name() == ini.DefaultSection || len(section.Keys()) == 0 {
			continue
		}
		profile, err := profileFromSection(section)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *profile)
	}
	return profiles, nil
}

func (pr *profileRegistry) GetLedger(_ context.Context, name string) (*domain.LedgerProfile, error) {
	section, err := pr.cfg.GetSection(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownProfile, name)
	}
	return profileFromSection(section)
}

func profileFromSection(section *ini.Section) (*domain.LedgerProfile, error) {
	path := section.Key("path").String()
	if path == "" {
		return nil, fmt.Errorf("%w: profile %s has no statement path", domain.ErrInvalidConfiguration, section.Name())
	}

	opening := decimal.Zero
	if raw := section.Key("opening_balance").String(); raw != "" {
		parsed, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: profile %s opening balance %q is not a decimal", domain.ErrInvalidConfiguration, section.Name(), raw)
		}
		opening = parsed
	}

	return &domain.LedgerProfile{
		Name:           section.Name(),
		Path:           path,
		Format:         section.Key("format").MustString(defaultFormat),
		Currency:       section.Key("currency").MustString(defaultCurrency),
		OpeningBalance: opening,
	}, nil
}
