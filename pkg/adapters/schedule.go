package adapters

import (
	"github.com/VasiliyTop/AI-finanalitik/pkg/models/api"
	"github.com/VasiliyTop/AI-finanalitik/pkg/models/domain"
	"github.com/VasiliyTop/AI-finanalitik/pkg/models/store"
)

func MapStoreScheduleToDomain(s *store.Schedule) *domain.Schedule {
	if s == nil {
		return nil
	}

	return &domain.Schedule{
		Ledger:    s.Ledger,
		Status:    domain.ScheduleStatus(s.Status),
		StartedAt: s.CreatedAt,
		LastRunAt: s.LastRunAt,
		Error:     s.Error,
	}
}

func MapScheduleDomainToApi(s *domain.Schedule) api.ScheduleStatus {
	return api.ScheduleStatus{
		Ledger:    s.Ledger,
		Status:    string(s.Status),
		StartedAt: s.StartedAt,
		LastRunAt: s.LastRunAt,
	}
}
