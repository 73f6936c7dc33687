package checks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-dq-sentinel/internal/model"
)

func salesWeeks(units ...float64) *model.Table {
	cols := []string{ColWeekStart, ColSKUID, ColStoreID, ColUnits}
	rows := make([][]interface{}, 0, len(units))
	for i, u := range units {
		rows = append(rows, []interface{}{weekDate(i), "A", "S1", u})
	}
	return Normalize(makeTable(cols, rows...))
}

func sideTable(weeks ...string) *model.Table {
	rows := make([][]interface{}, 0, len(weeks))
	for _, w := range weeks {
		rows = append(rows, []interface{}{w, "event"})
	}
	return makeTable([]string{ColWeekStart, "name"}, rows...)
}

func TestPromoCalendarDiagnostics(t *testing.T) {
	t.Run("no side tables", func(t *testing.T) {
		diag := PromoCalendarDiagnostics(salesWeeks(10, 10, 10, 10), nil, nil, 0.5)
		assert.Equal(t, "no_data", diag.Status)
	})

	t.Run("missing sales columns", func(t *testing.T) {
		tbl := makeTable([]string{ColWeekStart})
		diag := PromoCalendarDiagnostics(tbl, sideTable(), nil, 0.5)
		assert.Equal(t, "missing_columns", diag.Status)
	})

	t.Run("too little history", func(t *testing.T) {
		diag := PromoCalendarDiagnostics(salesWeeks(10, 10, 30), sideTable(), nil, 0.5)
		assert.Equal(t, "not_enough_history", diag.Status)
	})

	t.Run("flat series has no big changes", func(t *testing.T) {
		diag := PromoCalendarDiagnostics(salesWeeks(10, 11, 10, 11, 10), sideTable(), nil, 0.5)
		assert.Equal(t, "no_big_changes", diag.Status)
	})

	t.Run("spike overlapping a promo week is explained", func(t *testing.T) {
		// Spike on the 4th week (index 3).
		sales := salesWeeks(10, 10, 10, 30, 10, 10)
		promos := sideTable(weekDate(3))
		diag := PromoCalendarDiagnostics(sales, promos, nil, 0.5)
		assert.Equal(t, "ok", diag.Status)
		assert.Contains(t, diag.BigChangeWeeks, "2024-01-22")
		require.NotEmpty(t, diag.Hints)
		assert.Contains(t, diag.Hints[0], "promo weeks")
	})

	t.Run("unexplained spike falls back to a warning", func(t *testing.T) {
		sales := salesWeeks(10, 10, 10, 30, 10, 10)
		promos := sideTable(weekDate(0))
		diag := PromoCalendarDiagnostics(sales, promos, nil, 0.5)
		assert.Equal(t, "ok", diag.Status)
		require.Len(t, diag.Hints, 1)
		assert.Contains(t, diag.Hints[0], "no matching promo/calendar rows")
	})

	t.Run("calendar events are cross-referenced too", func(t *testing.T) {
		sales := salesWeeks(10, 10, 10, 30, 10, 10)
		calendar := sideTable(weekDate(3), weekDate(4))
		diag := PromoCalendarDiagnostics(sales, nil, calendar, 0.5)
		assert.Equal(t, "ok", diag.Status)
		require.NotEmpty(t, diag.Hints)
		assert.Contains(t, diag.Hints[0], "calendar event weeks")
	})
}
