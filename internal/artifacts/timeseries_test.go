package artifacts

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-dq-sentinel/internal/checks"
	"go-dq-sentinel/internal/model"
)

func writeCleaned(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestBuildCleanedTimeseries(t *testing.T) {
	cleanedDir := t.TempDir()
	outPath := filepath.Join(t.TempDir(), "cleaned_timeseries.csv")

	// Week 2024-01-08 appears in both extracts; the later load_ts must win.
	writeCleaned(t, cleanedDir, "sales_weekly_1.csv",
		`week_start,sku_id,store_id,units,load_ts
2024-01-01,A,S1,5,2024-01-03T00:00:00Z
2024-01-08,A,S1,6,2024-01-10T00:00:00Z
2024-01-08,A,S1,6,2024-01-10T00:00:00Z
`)
	writeCleaned(t, cleanedDir, "sales_weekly_2.csv",
		`week_start,sku_id,store_id,units,load_ts
2024-01-08,A,S1,7,2024-01-12T00:00:00Z
2024-01-15,A,S1,8,2024-01-17T00:00:00Z
`)

	combined, err := BuildCleanedTimeseries(cleanedDir, outPath)
	require.NoError(t, err)
	require.NotNil(t, combined)

	t.Run("source_file column is appended", func(t *testing.T) {
		assert.Equal(t, checks.ColSourceFile, combined.Columns[len(combined.Columns)-1])
	})

	t.Run("exact duplicates collapse and key collisions keep the latest load", func(t *testing.T) {
		require.Len(t, combined.Records, 3)
		byWeek := make(map[string]model.GenericRecord)
		for _, rec := range combined.Records {
			wk, _ := model.String(rec, checks.ColWeekStart)
			byWeek[wk] = rec
		}
		winner := byWeek["2024-01-08"]
		require.NotNil(t, winner)
		units, ok := model.Float(winner, checks.ColUnits)
		require.True(t, ok)
		assert.Equal(t, 7.0, units)
		sf, _ := model.String(winner, checks.ColSourceFile)
		assert.Equal(t, "sales_weekly_2.csv", sf)
	})

	t.Run("output CSV is written with the combined header", func(t *testing.T) {
		file, err := os.Open(outPath)
		require.NoError(t, err)
		defer file.Close()
		records, err := csv.NewReader(file).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 4)
		assert.Equal(t, combined.Columns, records[0])
	})
}

func TestBuildCleanedTimeseriesNoFiles(t *testing.T) {
	combined, err := BuildCleanedTimeseries(t.TempDir(), filepath.Join(t.TempDir(), "out.csv"))
	require.NoError(t, err)
	assert.Nil(t, combined)
}

func TestBuildCleanedTimeseriesWithoutLoadTS(t *testing.T) {
	cleanedDir := t.TempDir()
	outPath := filepath.Join(t.TempDir(), "cleaned_timeseries.csv")
	writeCleaned(t, cleanedDir, "sales_weekly_1.csv",
		`week_start,sku_id,store_id,units
2024-01-01,A,S1,5
2024-01-01,A,S1,9
`)

	combined, err := BuildCleanedTimeseries(cleanedDir, outPath)
	require.NoError(t, err)
	require.Len(t, combined.Records, 1)
	// Last row in file order wins without a load_ts tiebreaker.
	units, ok := model.Float(combined.Records[0], checks.ColUnits)
	require.True(t, ok)
	assert.Equal(t, 9.0, units)
}
