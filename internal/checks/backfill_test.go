package checks

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectPartialBackfill(t *testing.T) {
	cols := []string{ColWeekStart, ColLoadTS}

	t.Run("late loads are counted against the threshold", func(t *testing.T) {
		tbl := Normalize(makeTable(cols,
			[]interface{}{"2024-01-01", "2024-01-03T00:00:00Z"},
			[]interface{}{"2024-01-08", "2024-03-01T00:00:00Z"},
		))
		diag := DetectPartialBackfill(tbl, 30)
		assert.Equal(t, "ok", diag.Status)
		assert.Equal(t, 2, diag.CountChecked)
		assert.Equal(t, 1, diag.CountBackfilled)
		assert.InDelta(t, 0.5, diag.PctBackfilled, 1e-9)
		assert.Contains(t, diag.Hint, "50%")
	})

	t.Run("prompt loads carry no hint", func(t *testing.T) {
		tbl := Normalize(makeTable(cols,
			[]interface{}{"2024-01-01", "2024-01-03T00:00:00Z"},
		))
		diag := DetectPartialBackfill(tbl, 30)
		assert.Equal(t, 0.0, diag.PctBackfilled)
		assert.Empty(t, diag.Hint)
	})

	t.Run("rows with unparsed timestamps leave the denominator", func(t *testing.T) {
		tbl := Normalize(makeTable(cols,
			[]interface{}{"2024-01-01", "garbage"},
			[]interface{}{"2024-01-08", "2024-03-01T00:00:00Z"},
		))
		diag := DetectPartialBackfill(tbl, 30)
		assert.Equal(t, 1, diag.CountChecked)
		assert.InDelta(t, 1.0, diag.PctBackfilled, 1e-9)
	})

	t.Run("nothing parseable", func(t *testing.T) {
		tbl := Normalize(makeTable(cols,
			[]interface{}{"2024-01-01", "garbage"},
		))
		diag := DetectPartialBackfill(tbl, 30)
		assert.Equal(t, "no_load_ts_parsed", diag.Status)
	})

	t.Run("no load_ts column at all", func(t *testing.T) {
		tbl := Normalize(makeTable([]string{ColWeekStart},
			[]interface{}{"2024-01-01"},
		))
		diag := DetectPartialBackfill(tbl, 30)
		assert.Equal(t, "columns_missing", diag.Status)
	})
}
