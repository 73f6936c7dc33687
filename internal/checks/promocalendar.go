package checks

import (
	"fmt"
	"math"
	"time"

	"go-dq-sentinel/internal/model"
)

const promoMinWeeks = 4

// PromoCalendarDiagnostics cross-references weeks with large week-over-week
// unit swings against the optional promo and calendar side tables. It only
// produces hints: a spike that lines up with a promo week is probably real
// demand, one that lines up with nothing deserves a look. With neither side
// table supplied the status is no_data.
func PromoCalendarDiagnostics(t *model.Table, promos, calendar *model.Table, bigChangePct float64) *model.PromoCalendarDiag {
	hints := []string{}
	if promos == nil && calendar == nil {
		return &model.PromoCalendarDiag{Status: model.StatusNoData, Hints: hints}
	}
	if !t.HasColumns(ColWeekStart, ColUnits) {
		return &model.PromoCalendarDiag{Status: model.StatusMissingColumns, Hints: hints}
	}

	weekly := weeklyTotals(t)
	if len(weekly) < promoMinWeeks {
		return &model.PromoCalendarDiag{Status: model.StatusNotEnoughHistory, Hints: hints}
	}

	bigWeeks := bigChangeWeeks(weekly, bigChangePct)
	if len(bigWeeks) == 0 {
		return &model.PromoCalendarDiag{Status: model.StatusNoBigChanges, Hints: hints}
	}

	if promos != nil && promos.HasColumn(ColWeekStart) {
		if overlaps := overlapDates(bigWeeks, promos); len(overlaps) > 0 {
			hints = append(hints, fmt.Sprintf("Large weekly changes on weeks %v overlap with promo weeks.", overlaps))
		}
	}
	if calendar != nil && calendar.HasColumn(ColWeekStart) {
		if overlaps := overlapDates(bigWeeks, calendar); len(overlaps) > 0 {
			hints = append(hints, fmt.Sprintf("Large weekly changes on weeks %v overlap with calendar event weeks.", overlaps))
		}
	}
	if len(hints) == 0 {
		hints = append(hints, "Large weekly changes detected but no matching promo/calendar rows found.")
	}

	weekStrs := make([]string, 0, len(bigWeeks))
	for _, w := range bigWeeks {
		weekStrs = append(weekStrs, w.Format("2006-01-02"))
	}
	return &model.PromoCalendarDiag{
		Status:         model.StatusOK,
		Hints:          hints,
		NBigChanges:    len(bigWeeks),
		BigChangeWeeks: weekStrs,
	}
}

// bigChangeWeeks returns the weeks whose absolute week-over-week relative
// change exceeds threshold. A jump from a zero week counts as a big change.
func bigChangeWeeks(weekly []weekTotal, threshold float64) []time.Time {
	var weeks []time.Time
	for i := 1; i < len(weekly); i++ {
		prev := weekly[i-1].Total
		cur := weekly[i].Total
		var change float64
		if prev == 0 {
			if cur == 0 {
				continue
			}
			change = math.Inf(1)
		} else {
			change = math.Abs((cur - prev) / prev)
		}
		if change > threshold {
			weeks = append(weeks, weekly[i].Week)
		}
	}
	return weeks
}

// overlapDates intersects big-change weeks with the week_start dates of a
// side table, comparing calendar dates only.
func overlapDates(weeks []time.Time, side *model.Table) []string {
	sideDates := make(map[string]struct{})
	for _, rec := range side.Records {
		switch v := toNullableTime(rec[ColWeekStart]).(type) {
		case time.Time:
			sideDates[v.Format("2006-01-02")] = struct{}{}
		}
	}
	var overlaps []string
	for _, w := range weeks {
		d := w.Format("2006-01-02")
		if _, ok := sideDates[d]; ok {
			overlaps = append(overlaps, d)
		}
	}
	return overlaps
}
