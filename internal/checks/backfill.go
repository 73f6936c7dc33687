package checks

import (
	"fmt"
	"math"

	"go-dq-sentinel/internal/model"
)

// backfillHintPct is the fraction of late-loaded rows above which the
// diagnostic carries a human-readable hint.
const backfillHintPct = 0.05

// DetectPartialBackfill measures how many rows were loaded more than
// thresholdDays after the week they describe. Rows whose load_ts or
// week_start did not parse are excluded from the denominator; when no row
// has both, the status is no_load_ts_parsed.
func DetectPartialBackfill(t *model.Table, thresholdDays int) *model.BackfillDiag {
	if !t.HasColumns(ColWeekStart, ColLoadTSParsed) {
		return &model.BackfillDiag{Status: model.StatusColumnsMissing}
	}

	checked := 0
	backfilled := 0
	for _, rec := range t.Records {
		wk, okW := model.Time(rec, ColWeekStart)
		lt, okL := model.Time(rec, ColLoadTSParsed)
		if !okW || !okL {
			continue
		}
		checked++
		if dayDelta(lt, wk) > thresholdDays {
			backfilled++
		}
	}
	if checked == 0 {
		return &model.BackfillDiag{Status: model.StatusNoLoadTSParsed}
	}

	pct := float64(backfilled) / float64(checked)
	hint := ""
	if pct > backfillHintPct {
		hint = fmt.Sprintf("%v%% of rows were loaded > %d days after the week_start; partial backfill likely.",
			math.Round(pct*10000)/100, thresholdDays)
	}
	return &model.BackfillDiag{
		Status:          model.StatusOK,
		CountChecked:    checked,
		CountBackfilled: backfilled,
		PctBackfilled:   pct,
		Hint:            hint,
	}
}
