package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("empty path returns defaults", func(t *testing.T) {
		got, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, DefaultThresholds(), got)
	})

	t.Run("file values override defaults, the rest stay", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "thresholds.yaml")
		require.NoError(t, os.WriteFile(path, []byte(
			"cadence_days: 14\nbackfill_block_pct: 0.5\n"), 0644))

		got, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 14, got.CadenceDays)
		assert.Equal(t, 0.5, got.BackfillBlockPct)
		assert.Equal(t, DefaultThresholds().LevelShiftZ, got.LevelShiftZ)
		assert.Equal(t, DefaultThresholds().DuplicateBlockThreshold, got.DuplicateBlockThreshold)
	})

	t.Run("missing file is an error", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("invalid values are rejected", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "thresholds.yaml")
		require.NoError(t, os.WriteFile(path, []byte("cadence_days: -1\n"), 0644))
		_, err := Load(path)
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	good := DefaultThresholds()
	assert.NoError(t, good.Validate())

	bad := good
	bad.BackfillBlockPct = 1.5
	assert.Error(t, bad.Validate())

	bad = good
	bad.LevelShiftZ = 0
	assert.Error(t, bad.Validate())
}
