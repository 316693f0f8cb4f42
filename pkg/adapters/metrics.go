package adapters

import (
	"github.com/VasiliyTop/AI-finanalitik/pkg/models/api"
	"github.com/VasiliyTop/AI-finanalitik/pkg/models/domain"
)

func MapDashboardMetricsDomainToApi(m domain.DashboardMetrics) api.DashboardMetrics {
	out := api.DashboardMetrics{
		CurrentBalance:    m.CurrentBalance,
		TotalInflow:       m.TotalInflow,
		TotalOutflow:      m.TotalOutflow,
		NetFlow:           m.NetFlow,
		DaysOfCash:        m.DaysOfCash,
		Cashflow:          make([]api.LedgerBucket, 0, len(m.Cashflow)),
		CategoryStructure: make([]api.CategoryShare, 0, len(m.CategoryStructure)),
		TopCounterparties: make([]api.CounterpartyVolume, 0, len(m.TopCounterparties)),
	}
	for _, b := range m.Cashflow {
		out.Cashflow = append(out.Cashflow, MapLedgerBucketDomainToApi(b))
	}
	for _, c := range m.CategoryStructure {
		out.CategoryStructure = append(out.CategoryStructure, api.CategoryShare{
			Category: c.Category,
			Amount:   c.Amount,
			Share:    c.Share,
		})
	}
	for _, c := range m.TopCounterparties {
		out.TopCounterparties = append(out.TopCounterparties, api.CounterpartyVolume{
			CounterpartyID: c.CounterpartyID,
			Inflow:         c.Inflow,
			Outflow:        c.Outflow,
		})
	}
	return out
}

func MapGapSummaryDomainToApi(s domain.GapSummary) api.GapSummary {
	return api.GapSummary{
		Total:         s.Total,
		Critical:      s.Critical,
		High:          s.High,
		Medium:        s.Medium,
		Low:           s.Low,
		NearestWindow: s.NearestWindow,
		WorstMinimum:  s.WorstMinimum,
	}
}
