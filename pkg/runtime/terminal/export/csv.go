package export

import (
	"encoding/csv"
	"io"

	"github.com/VasiliyTop/AI-finanalitik/pkg/models/domain"
)

// ForecastCSV writes the balance series as a spreadsheet-friendly table,
// one row per period, historical and projected alike.
func ForecastCSV(w io.Writer, fc domain.Forecast) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"period_start", "projected_balance", "lower_bound", "upper_bound", "basis"}); err != nil {
		return err
	}
	for _, p := range fc.Points {
		row := []string{
			p.PeriodStart.Format("2006-01-02"),
			p.ProjectedBalance.String(),
			p.LowerBound.String(),
			p.UpperBound.String(),
			string(p.Basis),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
