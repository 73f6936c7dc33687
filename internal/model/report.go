package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Verdicts for the file-level blocking decision.
const (
	VerdictPass = "PASS"
	VerdictFail = "FAIL"
)

// Status values reported by checks when their preconditions are not met.
// These are sentinel strings, distinguishable from a numeric result of zero;
// each check owns its exact wording.
const (
	StatusOK               = "ok"
	StatusColumnsMissing   = "columns_missing"
	StatusMissingColumns   = "missing_columns"
	StatusPKColumnMissing  = "pk_column_missing"
	StatusNoWeekStart      = "no_week_start_column"
	StatusNoLoadTSColumn   = "no_load_ts_column"
	StatusNoLoadTSParsed   = "no_load_ts_parsed"
	StatusNotEnoughHistory = "not_enough_history"
	StatusNoData           = "no_data"
	StatusNoBigChanges     = "no_big_changes"
)

// SchemaDiag is the result of the fixed-schema check. Extra columns are
// tolerated; only missing columns break schema_ok.
type SchemaDiag struct {
	MissingColumns []string `json:"missing_columns"`
	ExtraColumns   []string `json:"extra_columns"`
	SchemaOK       bool     `json:"schema_ok"`
}

// SchemaVersionDiag frames the same missing/extra computation as a
// "did the schema change" signal.
type SchemaVersionDiag struct {
	Status        string   `json:"status"`
	SchemaChanged bool     `json:"schema_changed"`
	Missing       []string `json:"missing"`
	Extra         []string `json:"extra"`
	Hint          string   `json:"hint"`
}

// DuplicatesDiag reports rows whose primary key triple is non-unique.
// DuplicateCount is nil (not zero) when a PK column is absent.
type DuplicatesDiag struct {
	Status         string          `json:"status"`
	PK             []string        `json:"pk"`
	DuplicateCount *int            `json:"duplicate_count"`
	Sample         []GenericRecord `json:"sample"`
}

// GapExample is one (sku, store) series with off-cadence week deltas.
type GapExample struct {
	SKUID         string `json:"sku_id"`
	StoreID       string `json:"store_id"`
	BadDiffSample []int  `json:"bad_diffs_sample"`
}

// ContinuityDiag reports per-series cadence gaps.
type ContinuityDiag struct {
	Status         string       `json:"status"`
	GroupsTotal    int          `json:"groups_total"`
	GroupsWithGaps int          `json:"groups_with_gaps"`
	GapExamples    []GapExample `json:"gap_examples"`
}

// ShiftExample is one series whose early/late window means diverge.
type ShiftExample struct {
	SKUID     string  `json:"sku_id"`
	StoreID   string  `json:"store_id"`
	ZScore    float64 `json:"z_score"`
	FirstMean float64 `json:"first_mean"`
	LastMean  float64 `json:"last_mean"`
}

// LevelShiftDiag reports sustained mean changes per series.
type LevelShiftDiag struct {
	Status               string         `json:"status"`
	GroupsTested         int            `json:"groups_tested"`
	GroupsWithLevelShift int            `json:"groups_with_level_shift"`
	Examples             []ShiftExample `json:"examples"`
}

// MixupDiag reports a suspected units/price column swap.
// RatioUnitsToPrice is nil when the price median is zero.
type MixupDiag struct {
	Status            string   `json:"status"`
	PriceMedian       float64  `json:"price_median"`
	UnitsMedian       float64  `json:"units_median"`
	RatioUnitsToPrice *float64 `json:"ratio_units_to_price"`
	Suspected         bool     `json:"suspected_unit_price_mixup"`
	Hint              string   `json:"hint"`
}

// BackfillDiag reports rows loaded long after the week they describe.
type BackfillDiag struct {
	Status          string  `json:"status"`
	CountChecked    int     `json:"count_checked,omitempty"`
	CountBackfilled int     `json:"count_backfilled,omitempty"`
	PctBackfilled   float64 `json:"pct_backfilled"`
	Hint            string  `json:"hint"`
}

// TimezoneDiag reports mixed timezone-offset patterns in load_ts and
// duplicate primary keys that often accompany tz-normalization bugs.
type TimezoneDiag struct {
	Status           string   `json:"status"`
	TZVariants       []string `json:"tz_variants"`
	DuplicatePKCount int      `json:"duplicate_pk_count"`
	Suspicious       bool     `json:"suspicious"`
	Hint             string   `json:"hint"`
}

// SeasonalityDiag carries autocorrelation metrics on the weekly series.
// There is no historic baseline, so thresholds are left to the caller.
type SeasonalityDiag struct {
	Status  string   `json:"status"`
	NWeeks  int      `json:"n_weeks"`
	ACFLag1 *float64 `json:"acf_lag1"`
	ACFLag52 *float64 `json:"acf_lag52"`
}

// PromoCalendarDiag cross-references large week-over-week swings against
// promo and calendar side tables.
type PromoCalendarDiag struct {
	Status         string   `json:"status"`
	Hints          []string `json:"hints"`
	NBigChanges    int      `json:"n_big_changes,omitempty"`
	BigChangeWeeks []string `json:"big_change_weeks,omitempty"`
}

// FileReport is the full analysis result for one input file. It is created
// once per file and immutable after it is written.
type FileReport struct {
	File       string `json:"file"`
	AnalyzedAt string `json:"analyzed_at"`
	Error      string `json:"error,omitempty"`

	Schema           *SchemaDiag        `json:"schema,omitempty"`
	SchemaVersioning *SchemaVersionDiag `json:"schema_versioning,omitempty"`
	Duplicates       *DuplicatesDiag    `json:"duplicates,omitempty"`
	Continuity       *ContinuityDiag    `json:"continuity,omitempty"`
	LevelShift       *LevelShiftDiag    `json:"level_shift,omitempty"`
	UnitPriceMixup   *MixupDiag         `json:"unit_price_mixup,omitempty"`
	PartialBackfill  *BackfillDiag      `json:"partial_backfill,omitempty"`
	TZShift          *TimezoneDiag      `json:"tz_shift,omitempty"`
	Seasonality      *SeasonalityDiag   `json:"seasonality,omitempty"`
	PromoCalendar    *PromoCalendarDiag `json:"promo_calendar,omitempty"`

	BlockingReasons []string `json:"blocking_reasons"`
	Blocking        string   `json:"blocking"`
}

// SummaryRow is the flat projection of a FileReport that lands in the batch
// summary CSV. Downstream consumers depend on these exact field names.
type SummaryRow struct {
	File            string   `json:"file"`
	Blocking        string   `json:"blocking"`
	BlockingReasons string   `json:"blocking_reasons"`
	DuplicateCount  *int     `json:"duplicate_count"`
	PctBackfilled   *float64 `json:"pct_backfilled"`
	SuspectedMixup  *bool    `json:"suspected_unit_price_mixup"`
	LevelShiftGroups *int    `json:"level_shift_groups"`
}

// SummaryColumns is the fixed header of the summary CSV.
var SummaryColumns = []string{
	"file",
	"blocking",
	"blocking_reasons",
	"duplicate_count",
	"pct_backfilled",
	"suspected_unit_price_mixup",
	"level_shift_groups",
}

// Summarize projects a report into its summary row.
func (r *FileReport) Summarize() SummaryRow {
	row := SummaryRow{
		File:            r.File,
		Blocking:        r.Blocking,
		BlockingReasons: strings.Join(r.BlockingReasons, ";"),
	}
	if r.Duplicates != nil {
		row.DuplicateCount = r.Duplicates.DuplicateCount
	}
	if r.PartialBackfill != nil && r.PartialBackfill.Status == StatusOK {
		pct := r.PartialBackfill.PctBackfilled
		row.PctBackfilled = &pct
	}
	if r.UnitPriceMixup != nil && r.UnitPriceMixup.Status == StatusOK {
		suspected := r.UnitPriceMixup.Suspected
		row.SuspectedMixup = &suspected
	}
	if r.LevelShift != nil && r.LevelShift.Status == StatusOK {
		n := r.LevelShift.GroupsWithLevelShift
		row.LevelShiftGroups = &n
	}
	return row
}

// CSVRecord renders the row for the summary CSV, with nil metrics as empty
// cells rather than zeros.
func (row SummaryRow) CSVRecord() []string {
	rec := []string{row.File, row.Blocking, row.BlockingReasons}
	if row.DuplicateCount != nil {
		rec = append(rec, strconv.Itoa(*row.DuplicateCount))
	} else {
		rec = append(rec, "")
	}
	if row.PctBackfilled != nil {
		rec = append(rec, strconv.FormatFloat(*row.PctBackfilled, 'g', -1, 64))
	} else {
		rec = append(rec, "")
	}
	if row.SuspectedMixup != nil {
		rec = append(rec, strconv.FormatBool(*row.SuspectedMixup))
	} else {
		rec = append(rec, "")
	}
	if row.LevelShiftGroups != nil {
		rec = append(rec, strconv.Itoa(*row.LevelShiftGroups))
	} else {
		rec = append(rec, "")
	}
	return rec
}

func stringify(v interface{}) string {
	return fmt.Sprintf("%v", v)
}
