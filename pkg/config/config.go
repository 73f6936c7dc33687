package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Thresholds are the tunable knobs of the sentinel. The defaults are
// uncalibrated heuristic values, so every one of them can be overridden from
// a yaml config file.
type Thresholds struct {
	CadenceDays             int     `mapstructure:"cadence_days"`              // expected days between weeks
	AllowedGaps             int     `mapstructure:"allowed_gaps"`              // tolerated off-cadence deltas per series
	LevelShiftWindow        int     `mapstructure:"level_shift_window"`        // observations per comparison window
	LevelShiftZ             float64 `mapstructure:"level_shift_z"`             // z-score that flags a shift
	BackfillThresholdDays   int     `mapstructure:"backfill_threshold_days"`   // load lag that counts as backfill
	BackfillBlockPct        float64 `mapstructure:"backfill_block_pct"`        // backfilled fraction that blocks
	DuplicateBlockThreshold int     `mapstructure:"duplicate_block_threshold"` // duplicate rows that block
	LevelShiftBlockGroups   int     `mapstructure:"level_shift_block_groups"`  // shifted series that block
	BigChangePct            float64 `mapstructure:"big_change_pct"`            // week-over-week change worth cross-referencing
}

// DefaultThresholds returns the built-in defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{
		CadenceDays:             7,
		AllowedGaps:             1,
		LevelShiftWindow:        8,
		LevelShiftZ:             3.0,
		BackfillThresholdDays:   30,
		BackfillBlockPct:        0.20,
		DuplicateBlockThreshold: 1,
		LevelShiftBlockGroups:   1,
		BigChangePct:            0.5,
	}
}

// Load reads thresholds from a yaml config file, filling anything not set
// with the defaults. An empty path returns the defaults unchanged.
func Load(configPath string) (Thresholds, error) {
	defaults := DefaultThresholds()
	if configPath == "" {
		return defaults, nil
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.SetDefault("cadence_days", defaults.CadenceDays)
	v.SetDefault("allowed_gaps", defaults.AllowedGaps)
	v.SetDefault("level_shift_window", defaults.LevelShiftWindow)
	v.SetDefault("level_shift_z", defaults.LevelShiftZ)
	v.SetDefault("backfill_threshold_days", defaults.BackfillThresholdDays)
	v.SetDefault("backfill_block_pct", defaults.BackfillBlockPct)
	v.SetDefault("duplicate_block_threshold", defaults.DuplicateBlockThreshold)
	v.SetDefault("level_shift_block_groups", defaults.LevelShiftBlockGroups)
	v.SetDefault("big_change_pct", defaults.BigChangePct)

	if err := v.ReadInConfig(); err != nil {
		return defaults, fmt.Errorf("read config failed: %w", err)
	}

	var t Thresholds
	if err := v.Unmarshal(&t); err != nil {
		return defaults, fmt.Errorf("unmarshal config failed: %w", err)
	}
	if err := t.Validate(); err != nil {
		return defaults, err
	}
	return t, nil
}

// Validate rejects values the checks cannot work with.
func (t Thresholds) Validate() error {
	if t.CadenceDays <= 0 {
		return fmt.Errorf("cadence_days must be positive")
	}
	if t.LevelShiftWindow <= 0 {
		return fmt.Errorf("level_shift_window must be positive")
	}
	if t.LevelShiftZ <= 0 {
		return fmt.Errorf("level_shift_z must be positive")
	}
	if t.BackfillBlockPct < 0 || t.BackfillBlockPct > 1 {
		return fmt.Errorf("backfill_block_pct must be within [0, 1]")
	}
	return nil
}
