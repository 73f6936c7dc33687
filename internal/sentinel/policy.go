package sentinel

import (
	"fmt"
	"math"
	"strconv"

	"go-dq-sentinel/internal/model"
	"go-dq-sentinel/pkg/config"
)

// BlockingRule is one row of the blocking policy: a named predicate over the
// diagnostics that yields a reason tag when it fires. Rules are evaluated in
// a fixed order and accumulate; the verdict is FAIL iff any rule fired.
type BlockingRule struct {
	Name     string
	Evaluate func(rep *model.FileReport, cfg config.Thresholds) (reason string, blocked bool)
}

// blockingRules is the policy, conservative and explainable. The order here
// fixes the order of blocking_reasons in every report.
var blockingRules = []BlockingRule{
	{
		Name: "missing_schema_columns",
		Evaluate: func(rep *model.FileReport, _ config.Thresholds) (string, bool) {
			if rep.Schema != nil && len(rep.Schema.MissingColumns) > 0 {
				return "missing_schema_columns", true
			}
			return "", false
		},
	},
	{
		Name: "duplicates",
		Evaluate: func(rep *model.FileReport, cfg config.Thresholds) (string, bool) {
			if rep.Duplicates == nil || rep.Duplicates.DuplicateCount == nil {
				return "", false
			}
			if n := *rep.Duplicates.DuplicateCount; n >= cfg.DuplicateBlockThreshold {
				return fmt.Sprintf("duplicates:%d", n), true
			}
			return "", false
		},
	},
	{
		Name: "partial_backfill",
		Evaluate: func(rep *model.FileReport, cfg config.Thresholds) (string, bool) {
			if rep.PartialBackfill == nil || rep.PartialBackfill.Status != model.StatusOK {
				return "", false
			}
			if pct := rep.PartialBackfill.PctBackfilled; pct > cfg.BackfillBlockPct {
				rounded := math.Round(pct*1000) / 1000
				return "partial_backfill_pct:" + strconv.FormatFloat(rounded, 'g', -1, 64), true
			}
			return "", false
		},
	},
	{
		Name: "unit_price_mixup",
		Evaluate: func(rep *model.FileReport, _ config.Thresholds) (string, bool) {
			if rep.UnitPriceMixup != nil && rep.UnitPriceMixup.Suspected {
				return "unit_price_mixup_suspected", true
			}
			return "", false
		},
	},
	{
		Name: "level_shift",
		Evaluate: func(rep *model.FileReport, cfg config.Thresholds) (string, bool) {
			if rep.LevelShift == nil || rep.LevelShift.Status != model.StatusOK {
				return "", false
			}
			if n := rep.LevelShift.GroupsWithLevelShift; n >= cfg.LevelShiftBlockGroups {
				return fmt.Sprintf("level_shift_groups:%d", n), true
			}
			return "", false
		},
	},
	{
		Name: "timezone",
		Evaluate: func(rep *model.FileReport, _ config.Thresholds) (string, bool) {
			if rep.TZShift != nil && rep.TZShift.Suspicious {
				return "timezone_anomaly_or_dup_pk", true
			}
			return "", false
		},
	},
}

// ApplyBlockingPolicy evaluates the rule table against the diagnostics and
// sets the report's blocking verdict and ordered reasons. It is a pure
// function of the diagnostic records: same diagnostics, same verdict.
func ApplyBlockingPolicy(rep *model.FileReport, cfg config.Thresholds) {
	reasons := []string{}
	for _, rule := range blockingRules {
		if reason, blocked := rule.Evaluate(rep, cfg); blocked {
			reasons = append(reasons, reason)
		}
	}
	rep.BlockingReasons = reasons
	if len(reasons) > 0 {
		rep.Blocking = model.VerdictFail
	} else {
		rep.Blocking = model.VerdictPass
	}
}
