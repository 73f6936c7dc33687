package sentinel

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go-dq-sentinel/internal/model"
	"go-dq-sentinel/pkg/config"
)

func intPtr(n int) *int { return &n }

func TestApplyBlockingPolicy(t *testing.T) {
	cfg := config.DefaultThresholds()

	t.Run("clean report passes with empty reasons", func(t *testing.T) {
		rep := &model.FileReport{
			Schema:          &model.SchemaDiag{SchemaOK: true},
			Duplicates:      &model.DuplicatesDiag{Status: model.StatusOK, DuplicateCount: intPtr(0)},
			PartialBackfill: &model.BackfillDiag{Status: model.StatusOK, PctBackfilled: 0},
			UnitPriceMixup:  &model.MixupDiag{Status: model.StatusOK},
			LevelShift:      &model.LevelShiftDiag{Status: model.StatusOK},
			TZShift:         &model.TimezoneDiag{Status: model.StatusOK},
		}
		ApplyBlockingPolicy(rep, cfg)
		assert.Equal(t, model.VerdictPass, rep.Blocking)
		assert.NotNil(t, rep.BlockingReasons)
		assert.Empty(t, rep.BlockingReasons)
	})

	t.Run("reasons accumulate in policy order", func(t *testing.T) {
		rep := &model.FileReport{
			Schema:          &model.SchemaDiag{MissingColumns: []string{"currency"}},
			Duplicates:      &model.DuplicatesDiag{Status: model.StatusOK, DuplicateCount: intPtr(2)},
			PartialBackfill: &model.BackfillDiag{Status: model.StatusOK, PctBackfilled: 0.25},
			UnitPriceMixup:  &model.MixupDiag{Status: model.StatusOK, Suspected: true},
			LevelShift:      &model.LevelShiftDiag{Status: model.StatusOK, GroupsWithLevelShift: 3},
			TZShift:         &model.TimezoneDiag{Status: model.StatusOK, Suspicious: true},
		}
		ApplyBlockingPolicy(rep, cfg)
		assert.Equal(t, model.VerdictFail, rep.Blocking)
		assert.Equal(t, []string{
			"missing_schema_columns",
			"duplicates:2",
			"partial_backfill_pct:0.25",
			"unit_price_mixup_suspected",
			"level_shift_groups:3",
			"timezone_anomaly_or_dup_pk",
		}, rep.BlockingReasons)
	})

	t.Run("backfill percentage is rounded to three decimals", func(t *testing.T) {
		rep := &model.FileReport{
			PartialBackfill: &model.BackfillDiag{Status: model.StatusOK, PctBackfilled: 0.2345678},
		}
		ApplyBlockingPolicy(rep, cfg)
		assert.Equal(t, []string{"partial_backfill_pct:0.235"}, rep.BlockingReasons)
	})

	t.Run("skipped checks never block", func(t *testing.T) {
		rep := &model.FileReport{
			Duplicates:      &model.DuplicatesDiag{Status: model.StatusPKColumnMissing},
			PartialBackfill: &model.BackfillDiag{Status: model.StatusColumnsMissing, PctBackfilled: 0.9},
			LevelShift:      &model.LevelShiftDiag{Status: model.StatusColumnsMissing, GroupsWithLevelShift: 5},
		}
		ApplyBlockingPolicy(rep, cfg)
		assert.Equal(t, model.VerdictPass, rep.Blocking)
	})

	t.Run("thresholds are honored", func(t *testing.T) {
		lenient := cfg
		lenient.DuplicateBlockThreshold = 5
		rep := &model.FileReport{
			Duplicates: &model.DuplicatesDiag{Status: model.StatusOK, DuplicateCount: intPtr(4)},
		}
		ApplyBlockingPolicy(rep, lenient)
		assert.Equal(t, model.VerdictPass, rep.Blocking)

		rep.Duplicates.DuplicateCount = intPtr(5)
		ApplyBlockingPolicy(rep, lenient)
		assert.Equal(t, model.VerdictFail, rep.Blocking)
		assert.Equal(t, []string{"duplicates:5"}, rep.BlockingReasons)
	})

	t.Run("same diagnostics give the same verdict", func(t *testing.T) {
		rep := &model.FileReport{
			TZShift: &model.TimezoneDiag{Status: model.StatusOK, Suspicious: true},
		}
		ApplyBlockingPolicy(rep, cfg)
		first := append([]string(nil), rep.BlockingReasons...)
		ApplyBlockingPolicy(rep, cfg)
		assert.Equal(t, first, rep.BlockingReasons)
	})
}
