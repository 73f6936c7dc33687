package checks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func priceUnitsTable(pairs ...[2]interface{}) [][]interface{} {
	rows := make([][]interface{}, 0, len(pairs))
	for _, p := range pairs {
		rows = append(rows, []interface{}{p[0], p[1]})
	}
	return rows
}

func TestDetectUnitPriceMixup(t *testing.T) {
	cols := []string{ColPrice, ColUnits}

	t.Run("tiny prices next to large units look swapped", func(t *testing.T) {
		tbl := Normalize(makeTable(cols, priceUnitsTable(
			[2]interface{}{"0.5", "20"},
			[2]interface{}{"0.8", "25"},
			[2]interface{}{"1.1", "30"},
		)...))
		diag := DetectUnitPriceMixup(tbl)
		assert.True(t, diag.Suspected)
		assert.Contains(t, diag.Hint, "Median price < 1.5")
		require.NotNil(t, diag.RatioUnitsToPrice)
		assert.InDelta(t, 25.0/0.8, *diag.RatioUnitsToPrice, 1e-9)
	})

	t.Run("integer-like prices above the typical unit count look swapped", func(t *testing.T) {
		tbl := Normalize(makeTable(cols, priceUnitsTable(
			[2]interface{}{"6", "1"},
			[2]interface{}{"7", "1"},
			[2]interface{}{"8", "1"},
		)...))
		diag := DetectUnitPriceMixup(tbl)
		assert.True(t, diag.Suspected)
		assert.Contains(t, diag.Hint, "integer-like")
	})

	t.Run("integer prices with median exactly 5 are not flagged", func(t *testing.T) {
		// The fallback rule requires the median to be strictly above 5.
		tbl := Normalize(makeTable(cols, priceUnitsTable(
			[2]interface{}{"5", "1"},
			[2]interface{}{"5", "1"},
			[2]interface{}{"5", "1"},
		)...))
		diag := DetectUnitPriceMixup(tbl)
		assert.False(t, diag.Suspected)
		assert.Empty(t, diag.Hint)
		assert.Equal(t, 5.0, diag.PriceMedian)
	})

	t.Run("ordinary retail prices are fine", func(t *testing.T) {
		tbl := Normalize(makeTable(cols, priceUnitsTable(
			[2]interface{}{"9.99", "3"},
			[2]interface{}{"10.49", "4"},
			[2]interface{}{"9.49", "5"},
		)...))
		diag := DetectUnitPriceMixup(tbl)
		assert.False(t, diag.Suspected)
		assert.Empty(t, diag.Hint)
	})

	t.Run("all-null prices yield a nil ratio", func(t *testing.T) {
		tbl := Normalize(makeTable(cols, priceUnitsTable(
			[2]interface{}{"", "3"},
			[2]interface{}{"", "4"},
		)...))
		diag := DetectUnitPriceMixup(tbl)
		assert.Nil(t, diag.RatioUnitsToPrice)
		assert.False(t, diag.Suspected)
	})

	t.Run("missing columns", func(t *testing.T) {
		diag := DetectUnitPriceMixup(makeTable([]string{ColUnits}))
		assert.Equal(t, "columns_missing", diag.Status)
	})
}
