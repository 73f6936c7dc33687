package checks

import (
	"math"
	"sort"

	"go-dq-sentinel/internal/model"
)

const shiftExampleCap = 10

// DetectLevelShift flags (sku_id, store_id) series whose mean over the last
// window diverges from the mean over the first window by at least
// zThreshold pooled standard deviations. The series is re-sorted by
// week_start internally, so row order in the file does not matter. Series
// with fewer than 2*window non-null unit values are skipped, as are series
// with a zero or undefined standard deviation.
func DetectLevelShift(t *model.Table, window int, zThreshold float64) *model.LevelShiftDiag {
	if !t.HasColumns(ColUnits, ColWeekStart) {
		return &model.LevelShiftDiag{Status: model.StatusColumnsMissing}
	}

	keys, groups := groupBySeries(t)
	diag := &model.LevelShiftDiag{
		Status:   model.StatusOK,
		Examples: []model.ShiftExample{},
	}
	for _, k := range keys {
		units := seriesUnits(t, groups[k])
		if len(units) < window*2 {
			continue
		}
		diag.GroupsTested++
		firstMean := mean(units[:window])
		lastMean := mean(units[len(units)-window:])
		std := sampleStd(units)
		if std == 0 || math.IsNaN(std) {
			continue
		}
		z := math.Abs(lastMean-firstMean) / std
		if z >= zThreshold {
			diag.GroupsWithLevelShift++
			if len(diag.Examples) < shiftExampleCap {
				diag.Examples = append(diag.Examples, model.ShiftExample{
					SKUID:     k.SKU,
					StoreID:   k.Store,
					ZScore:    z,
					FirstMean: firstMean,
					LastMean:  lastMean,
				})
			}
		}
	}
	return diag
}

// seriesUnits returns the non-null unit values of the given rows ordered by
// week_start (rows without a parsed week_start sort last, in original row
// order).
func seriesUnits(t *model.Table, rows []int) []float64 {
	ordered := append([]int(nil), rows...)
	sort.SliceStable(ordered, func(a, b int) bool {
		wa, okA := model.Time(t.Records[ordered[a]], ColWeekStart)
		wb, okB := model.Time(t.Records[ordered[b]], ColWeekStart)
		if okA && okB {
			return wa.Before(wb)
		}
		return okA && !okB
	})
	units := make([]float64, 0, len(ordered))
	for _, i := range ordered {
		if u, ok := model.Float(t.Records[i], ColUnits); ok {
			units = append(units, u)
		}
	}
	return units
}
