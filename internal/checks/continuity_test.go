package checks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func weeklyRows(sku, store string, weeks ...string) [][]interface{} {
	rows := make([][]interface{}, 0, len(weeks))
	for _, w := range weeks {
		rows = append(rows, []interface{}{w, sku, store})
	}
	return rows
}

func TestCheckDateContinuity(t *testing.T) {
	cols := []string{ColWeekStart, ColSKUID, ColStoreID}

	t.Run("clean weekly cadence has no gaps", func(t *testing.T) {
		tbl := Normalize(makeTable(cols, weeklyRows("A", "S1",
			"2024-01-01", "2024-01-08", "2024-01-15", "2024-01-22")...))
		diag := CheckDateContinuity(tbl, 7, 1)
		assert.Equal(t, 1, diag.GroupsTotal)
		assert.Equal(t, 0, diag.GroupsWithGaps)
	})

	t.Run("one off-cadence delta stays within the allowance", func(t *testing.T) {
		tbl := Normalize(makeTable(cols, weeklyRows("A", "S1",
			"2024-01-01", "2024-01-08", "2024-01-22")...))
		diag := CheckDateContinuity(tbl, 7, 1)
		assert.Equal(t, 0, diag.GroupsWithGaps)
	})

	t.Run("repeated gaps flag the series", func(t *testing.T) {
		tbl := Normalize(makeTable(cols, weeklyRows("A", "S1",
			"2024-01-01", "2024-01-08", "2024-01-22", "2024-02-05")...))
		diag := CheckDateContinuity(tbl, 7, 1)
		assert.Equal(t, 1, diag.GroupsWithGaps)
		require.Len(t, diag.GapExamples, 1)
		assert.Equal(t, "A", diag.GapExamples[0].SKUID)
		assert.Equal(t, []int{7, 14, 14}, diag.GapExamples[0].BadDiffSample)
	})

	t.Run("single-week series is counted but cannot gap", func(t *testing.T) {
		tbl := Normalize(makeTable(cols, weeklyRows("A", "S1", "2024-01-01")...))
		diag := CheckDateContinuity(tbl, 7, 1)
		assert.Equal(t, 1, diag.GroupsTotal)
		assert.Equal(t, 0, diag.GroupsWithGaps)
	})

	t.Run("duplicate weeks do not create gaps", func(t *testing.T) {
		tbl := Normalize(makeTable(cols, weeklyRows("A", "S1",
			"2024-01-01", "2024-01-01", "2024-01-08")...))
		diag := CheckDateContinuity(tbl, 7, 1)
		assert.Equal(t, 0, diag.GroupsWithGaps)
	})

	t.Run("no week_start column", func(t *testing.T) {
		diag := CheckDateContinuity(makeTable([]string{ColSKUID}), 7, 1)
		assert.Equal(t, "no_week_start_column", diag.Status)
	})
}
