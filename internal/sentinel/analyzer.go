package sentinel

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go-dq-sentinel/internal/checks"
	"go-dq-sentinel/internal/model"
	"go-dq-sentinel/pkg/config"
	"go-dq-sentinel/pkg/utils"
)

// registeredCheck binds a check name to the function that fills its slot in
// the file report. The checks are independent and share no state, so the
// registry order only fixes how they appear in logs; the blocking policy has
// its own fixed order.
type registeredCheck struct {
	name  string
	apply func(t *model.Table, aux model.SideTables, cfg config.Thresholds, rep *model.FileReport)
}

var checkRegistry = []registeredCheck{
	{"schema", func(t *model.Table, _ model.SideTables, _ config.Thresholds, rep *model.FileReport) {
		rep.Schema = checks.CheckSchema(t, checks.ExpectedSchemaV1())
	}},
	{"schema_versioning", func(t *model.Table, _ model.SideTables, _ config.Thresholds, rep *model.FileReport) {
		rep.SchemaVersioning = checks.DetectSchemaVersioning(t, checks.ExpectedSchemaV1())
	}},
	{"duplicates", func(t *model.Table, _ model.SideTables, _ config.Thresholds, rep *model.FileReport) {
		rep.Duplicates = checks.CheckDuplicates(t)
	}},
	{"continuity", func(t *model.Table, _ model.SideTables, cfg config.Thresholds, rep *model.FileReport) {
		rep.Continuity = checks.CheckDateContinuity(t, cfg.CadenceDays, cfg.AllowedGaps)
	}},
	{"level_shift", func(t *model.Table, _ model.SideTables, cfg config.Thresholds, rep *model.FileReport) {
		rep.LevelShift = checks.DetectLevelShift(t, cfg.LevelShiftWindow, cfg.LevelShiftZ)
	}},
	{"unit_price_mixup", func(t *model.Table, _ model.SideTables, _ config.Thresholds, rep *model.FileReport) {
		rep.UnitPriceMixup = checks.DetectUnitPriceMixup(t)
	}},
	{"partial_backfill", func(t *model.Table, _ model.SideTables, cfg config.Thresholds, rep *model.FileReport) {
		rep.PartialBackfill = checks.DetectPartialBackfill(t, cfg.BackfillThresholdDays)
	}},
	{"tz_shift", func(t *model.Table, _ model.SideTables, _ config.Thresholds, rep *model.FileReport) {
		rep.TZShift = checks.DetectTimezoneShift(t)
	}},
	{"seasonality", func(t *model.Table, _ model.SideTables, _ config.Thresholds, rep *model.FileReport) {
		rep.Seasonality = checks.DetectSeasonalityBreak(t)
	}},
	{"promo_calendar", func(t *model.Table, aux model.SideTables, cfg config.Thresholds, rep *model.FileReport) {
		rep.PromoCalendar = checks.PromoCalendarDiagnostics(t, aux.Promos, aux.Calendar, cfg.BigChangePct)
	}},
}

// AnalyzeFile runs the full check battery against one file and produces
// exactly one report. An unreadable file short-circuits: the report carries
// the read error, a FAIL verdict and the read_error reason, and no checks
// run. For readable files the report is also persisted as
// <stem>_dq_report.json in outDir; re-running overwrites it.
func AnalyzeFile(path string, om *utils.OutputManager, aux model.SideTables, cfg config.Thresholds) *model.FileReport {
	rep := &model.FileReport{
		File:       filepath.Base(path),
		AnalyzedAt: time.Now().UTC().Format(time.RFC3339),
	}

	table, err := LoadCSV(path)
	if err != nil {
		rep.Error = fmt.Sprintf("read_error: %v", err)
		rep.Blocking = model.VerdictFail
		rep.BlockingReasons = []string{"read_error"}
		return rep
	}

	normalized := checks.Normalize(table)
	for _, c := range checkRegistry {
		c.apply(normalized, aux, cfg, rep)
	}

	ApplyBlockingPolicy(rep, cfg)

	if err := writeReport(rep, om); err != nil {
		// The verdict stands even if the artifact write fails; the
		// runner records the error against the batch.
		rep.Error = fmt.Sprintf("report_write_error: %v", err)
	}
	return rep
}

// writeReport persists the per-file JSON report.
func writeReport(rep *model.FileReport, om *utils.OutputManager) error {
	if err := om.EnsureOutputDirExists(); err != nil {
		return err
	}
	file, err := os.Create(om.ReportPath(rep.File))
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(rep); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}
