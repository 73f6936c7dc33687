package checks

import (
	"sort"
	"time"

	"go-dq-sentinel/internal/model"
)

const gapExampleCap = 10

// CheckDateContinuity verifies the weekly cadence per (sku_id, store_id)
// series: consecutive distinct week_starts should be freqDays apart. A
// series "has gaps" once the number of off-cadence deltas exceeds
// allowedGaps. Series with fewer than two distinct weeks cannot gap and are
// skipped (but still counted in groups_total).
func CheckDateContinuity(t *model.Table, freqDays, allowedGaps int) *model.ContinuityDiag {
	if !t.HasColumn(ColWeekStart) {
		return &model.ContinuityDiag{Status: model.StatusNoWeekStart}
	}

	keys, groups := groupBySeries(t)
	diag := &model.ContinuityDiag{
		Status:      model.StatusOK,
		GapExamples: []model.GapExample{},
	}
	for _, k := range keys {
		diag.GroupsTotal++
		weeks := distinctWeeks(t, groups[k])
		if len(weeks) < 2 {
			continue
		}
		diffs := make([]int, 0, len(weeks)-1)
		badCount := 0
		for i := 1; i < len(weeks); i++ {
			d := dayDelta(weeks[i], weeks[i-1])
			diffs = append(diffs, d)
			if d != freqDays && d != 0 {
				badCount++
			}
		}
		if badCount > allowedGaps {
			diag.GroupsWithGaps++
			if len(diag.GapExamples) < gapExampleCap {
				sample := diffs
				if len(sample) > 5 {
					sample = sample[:5]
				}
				diag.GapExamples = append(diag.GapExamples, model.GapExample{
					SKUID:         k.SKU,
					StoreID:       k.Store,
					BadDiffSample: sample,
				})
			}
		}
	}
	return diag
}

// distinctWeeks collects the distinct parsed week_starts of the given rows,
// sorted ascending.
func distinctWeeks(t *model.Table, rows []int) []time.Time {
	seen := make(map[time.Time]struct{}, len(rows))
	for _, i := range rows {
		if wk, ok := model.Time(t.Records[i], ColWeekStart); ok {
			seen[wk] = struct{}{}
		}
	}
	weeks := make([]time.Time, 0, len(seen))
	for wk := range seen {
		weeks = append(weeks, wk)
	}
	sort.Slice(weeks, func(i, j int) bool { return weeks[i].Before(weeks[j]) })
	return weeks
}
