package checks

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckSchema(t *testing.T) {
	t.Run("full schema in any column order passes", func(t *testing.T) {
		shuffled := []string{
			ColPrice, ColWeekStart, ColCurrency, ColSKUID, ColLoadTS,
			ColStoreID, ColSourceFile, ColInventory, ColUnits,
		}
		diag := CheckSchema(makeTable(shuffled), nil)
		assert.True(t, diag.SchemaOK)
		assert.Empty(t, diag.MissingColumns)
		assert.Empty(t, diag.ExtraColumns)
	})

	t.Run("missing columns reported in expected-schema order", func(t *testing.T) {
		cols := []string{ColWeekStart, ColSKUID, ColStoreID, ColUnits, ColPrice, ColLoadTS, ColSourceFile}
		diag := CheckSchema(makeTable(cols), nil)
		assert.False(t, diag.SchemaOK)
		assert.Equal(t, []string{ColInventory, ColCurrency}, diag.MissingColumns)
	})

	t.Run("extra columns are tolerated but listed", func(t *testing.T) {
		cols := append(ExpectedSchemaV1(), "region")
		diag := CheckSchema(makeTable(cols), nil)
		assert.True(t, diag.SchemaOK)
		assert.Equal(t, []string{"region"}, diag.ExtraColumns)
	})

	t.Run("derived load_ts_parsed shows up as extra after normalization", func(t *testing.T) {
		raw := makeTable(ExpectedSchemaV1())
		diag := CheckSchema(Normalize(raw), nil)
		assert.True(t, diag.SchemaOK)
		assert.Equal(t, []string{ColLoadTSParsed}, diag.ExtraColumns)
	})
}

func TestDetectSchemaVersioning(t *testing.T) {
	t.Run("no change", func(t *testing.T) {
		diag := DetectSchemaVersioning(makeTable(ExpectedSchemaV1()), ExpectedSchemaV1())
		assert.Equal(t, "ok", diag.Status)
		assert.False(t, diag.SchemaChanged)
		assert.Empty(t, diag.Hint)
	})

	t.Run("drift carries a hint", func(t *testing.T) {
		cols := []string{ColWeekStart, ColSKUID, ColStoreID, "region"}
		diag := DetectSchemaVersioning(makeTable(cols), ExpectedSchemaV1())
		assert.True(t, diag.SchemaChanged)
		assert.Contains(t, diag.Hint, "Missing columns:")
		assert.Contains(t, diag.Hint, "Extra columns:")
		assert.Contains(t, diag.Extra, "region")
	})
}
