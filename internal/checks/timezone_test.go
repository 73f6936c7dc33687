package checks

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectTimezoneShift(t *testing.T) {
	t.Run("single timezone variant is fine", func(t *testing.T) {
		tbl := makeTable([]string{ColLoadTS},
			[]interface{}{"2024-01-03T00:00:00Z"},
			[]interface{}{"2024-01-10T00:00:00Z"},
		)
		diag := DetectTimezoneShift(tbl)
		assert.Equal(t, []string{"Z"}, diag.TZVariants)
		assert.False(t, diag.Suspicious)
		assert.Empty(t, diag.Hint)
	})

	t.Run("mixed offsets are suspicious", func(t *testing.T) {
		tbl := makeTable([]string{ColLoadTS},
			[]interface{}{"2024-01-03T00:00:00Z"},
			[]interface{}{"2024-01-03T02:00:00+02:00"},
		)
		diag := DetectTimezoneShift(tbl)
		assert.Equal(t, []string{"Z", "+02:00"}, diag.TZVariants)
		assert.True(t, diag.Suspicious)
		assert.Contains(t, diag.Hint, "multiple timezone patterns")
	})

	t.Run("duplicate primary keys alone are suspicious", func(t *testing.T) {
		cols := []string{ColWeekStart, ColSKUID, ColStoreID, ColLoadTS}
		tbl := makeTable(cols,
			[]interface{}{"2024-01-01", "A", "S1", "2024-01-03T00:00:00Z"},
			[]interface{}{"2024-01-01", "A", "S1", "2024-01-03T01:00:00Z"},
		)
		diag := DetectTimezoneShift(tbl)
		assert.Equal(t, 2, diag.DuplicatePKCount)
		assert.True(t, diag.Suspicious)
		assert.Contains(t, diag.Hint, "duplicate primary keys")
	})

	t.Run("offset-free timestamps yield no variants", func(t *testing.T) {
		tbl := makeTable([]string{ColLoadTS},
			[]interface{}{"2024-01-03 00:00:00"},
		)
		diag := DetectTimezoneShift(tbl)
		assert.Empty(t, diag.TZVariants)
		assert.False(t, diag.Suspicious)
	})

	t.Run("no load_ts column", func(t *testing.T) {
		diag := DetectTimezoneShift(makeTable([]string{ColWeekStart}))
		assert.Equal(t, "no_load_ts_column", diag.Status)
	})
}
