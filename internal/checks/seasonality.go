package checks

import (
	"go-dq-sentinel/internal/model"
)

const (
	seasonalityMinWeeks = 24 // shortest history worth an autocorrelation
	yearlyLagWeeks      = 52
)

// DetectSeasonalityBreak computes autocorrelations of the aggregated weekly
// units series at lag 1 and lag 52, as a cheap probe for whether yearly
// seasonality is present or has been flattened by an upstream bug. There is
// no historic baseline, so only the metrics are returned; the caller decides
// what to make of them. Lag 52 needs more than 52 weeks and is nil
// otherwise.
func DetectSeasonalityBreak(t *model.Table) *model.SeasonalityDiag {
	if !t.HasColumns(ColWeekStart, ColUnits) {
		return &model.SeasonalityDiag{Status: model.StatusMissingColumns}
	}

	weekly := weeklyTotals(t)
	n := len(weekly)
	if n < seasonalityMinWeeks {
		return &model.SeasonalityDiag{Status: model.StatusNotEnoughHistory, NWeeks: n}
	}

	series := make([]float64, n)
	for i, wt := range weekly {
		series[i] = wt.Total
	}

	diag := &model.SeasonalityDiag{Status: model.StatusOK, NWeeks: n}
	if acf1, ok := autocorr(series, 1); ok {
		diag.ACFLag1 = &acf1
	}
	if n > yearlyLagWeeks {
		if acf52, ok := autocorr(series, yearlyLagWeeks); ok {
			diag.ACFLag52 = &acf52
		}
	}
	return diag
}
