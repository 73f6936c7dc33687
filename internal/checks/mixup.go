package checks

import (
	"math"

	"go-dq-sentinel/internal/model"
)

// Mixup heuristics. These are uncalibrated rules of thumb, kept as named
// constants; none of them is fitted to a historical baseline.
const (
	mixupLowPriceMedian   = 1.5 // price median below this looks like units
	mixupHighUnitsMedian  = 10  // units median above this looks like real demand
	mixupIntegerShare     = 0.9 // share of integer-valued prices for fallback rule
	mixupFallbackPriceMin = 5   // integer-like price median above this
	mixupFallbackUnitsMax = 2   // while units median sits below this
)

// DetectUnitPriceMixup suspects a swapped price/units column pair: either the
// price median is tiny while the units median is large, or prices look like
// integer counts larger than the unit counts next to them. The first
// matching heuristic wins.
func DetectUnitPriceMixup(t *model.Table) *model.MixupDiag {
	if !t.HasColumns(ColPrice, ColUnits) {
		return &model.MixupDiag{Status: model.StatusColumnsMissing}
	}

	prices := columnFloats(t, ColPrice)
	units := columnFloats(t, ColUnits)

	priceMedian, _ := median(prices) // 0 when every price is null
	unitsMedian, _ := median(units)

	var ratio *float64
	if priceMedian != 0 {
		r := unitsMedian / priceMedian
		ratio = &r
	}

	suspected := false
	hint := ""
	if priceMedian < mixupLowPriceMedian && unitsMedian > mixupHighUnitsMedian {
		suspected = true
		hint = "Median price < 1.5 while median units > 10; possible price/units mixup."
	}
	if !suspected && len(prices) > 0 {
		integer := 0
		for _, p := range prices {
			if math.Mod(p, 1) == 0 {
				integer++
			}
		}
		share := float64(integer) / float64(len(prices))
		um, haveUnits := median(units)
		if share > mixupIntegerShare && priceMedian > mixupFallbackPriceMin && haveUnits && um < mixupFallbackUnitsMax {
			suspected = true
			hint = "Price values look integer-like and larger than typical units; possible swap."
		}
	}

	return &model.MixupDiag{
		Status:            model.StatusOK,
		PriceMedian:       priceMedian,
		UnitsMedian:       unitsMedian,
		RatioUnitsToPrice: ratio,
		Suspected:         suspected,
		Hint:              hint,
	}
}

// columnFloats collects the non-null numeric values of one column.
func columnFloats(t *model.Table, col string) []float64 {
	vals := make([]float64, 0, len(t.Records))
	for _, rec := range t.Records {
		if v, ok := model.Float(rec, col); ok {
			vals = append(vals, v)
		}
	}
	return vals
}
