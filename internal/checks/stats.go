package checks

import (
	"math"
	"sort"
	"time"

	"go-dq-sentinel/internal/model"
)

// median returns the median of vals (mean of the middle pair for even
// lengths). ok is false for an empty slice.
func median(vals []float64) (float64, bool) {
	if len(vals) == 0 {
		return 0, false
	}
	s := append([]float64(nil), vals...)
	sort.Float64s(s)
	mid := len(s) / 2
	if len(s)%2 == 1 {
		return s[mid], true
	}
	return (s[mid-1] + s[mid]) / 2, true
}

// mean of vals; 0 for empty input (callers guard lengths).
func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

// sampleStd is the sample standard deviation (n-1 denominator).
// NaN for fewer than two values.
func sampleStd(vals []float64) float64 {
	n := len(vals)
	if n < 2 {
		return math.NaN()
	}
	m := mean(vals)
	ss := 0.0
	for _, v := range vals {
		d := v - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(n-1))
}

// autocorr is the Pearson correlation between the series and itself shifted
// by lag. ok is false when the lag leaves fewer than two pairs or either
// slice is constant.
func autocorr(vals []float64, lag int) (float64, bool) {
	n := len(vals)
	if lag <= 0 || n-lag < 2 {
		return 0, false
	}
	x := vals[lag:]
	y := vals[:n-lag]
	mx, my := mean(x), mean(y)
	var sxy, sxx, syy float64
	for i := range x {
		dx := x[i] - mx
		dy := y[i] - my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx == 0 || syy == 0 {
		return 0, false
	}
	return sxy / math.Sqrt(sxx*syy), true
}

// weekTotal is the summed units for one distinct week_start.
type weekTotal struct {
	Week  time.Time
	Total float64
}

// weeklyTotals aggregates units by week_start (sum over non-nil units),
// sorted by week ascending. Rows with an unparsed week_start are excluded;
// a week whose every units cell is nil still appears, with a zero total.
func weeklyTotals(t *model.Table) []weekTotal {
	sums := make(map[time.Time]float64)
	for _, rec := range t.Records {
		wk, ok := model.Time(rec, ColWeekStart)
		if !ok {
			continue
		}
		if _, exists := sums[wk]; !exists {
			sums[wk] = 0
		}
		if u, ok := model.Float(rec, ColUnits); ok {
			sums[wk] += u
		}
	}
	out := make([]weekTotal, 0, len(sums))
	for wk, total := range sums {
		out = append(out, weekTotal{Week: wk, Total: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Week.Before(out[j].Week) })
	return out
}

// seriesKey identifies one (sku, store) time series.
type seriesKey struct {
	SKU   string
	Store string
}

// groupBySeries buckets row indices by (sku_id, store_id) and returns the
// keys in sorted order so that examples and counts are deterministic.
func groupBySeries(t *model.Table) ([]seriesKey, map[seriesKey][]int) {
	groups := make(map[seriesKey][]int)
	for i, rec := range t.Records {
		sku, _ := model.String(rec, ColSKUID)
		store, _ := model.String(rec, ColStoreID)
		k := seriesKey{SKU: sku, Store: store}
		groups[k] = append(groups[k], i)
	}
	keys := make([]seriesKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].SKU != keys[j].SKU {
			return keys[i].SKU < keys[j].SKU
		}
		return keys[i].Store < keys[j].Store
	})
	return keys, groups
}

// dayDelta is the floor of the day difference between two timestamps,
// matching integer day truncation in the upstream extracts.
func dayDelta(later, earlier time.Time) int {
	return int(math.Floor(later.Sub(earlier).Hours() / 24))
}
