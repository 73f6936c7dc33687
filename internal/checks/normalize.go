package checks

import (
	"strconv"
	"strings"
	"time"

	"go-dq-sentinel/internal/model"
)

// Column names with fixed meaning in weekly sales extracts.
const (
	ColWeekStart    = "week_start"
	ColSKUID        = "sku_id"
	ColStoreID      = "store_id"
	ColUnits        = "units"
	ColPrice        = "price"
	ColInventory    = "inventory_on_hand"
	ColCurrency     = "currency"
	ColLoadTS       = "load_ts"
	ColSourceFile   = "source_file"
	ColLoadTSParsed = "load_ts_parsed"
)

// ExpectedSchemaV1 is the fixed 9-column schema of a weekly sales extract.
func ExpectedSchemaV1() []string {
	return []string{
		ColWeekStart,
		ColSKUID,
		ColStoreID,
		ColUnits,
		ColPrice,
		ColInventory,
		ColCurrency,
		ColLoadTS,
		ColSourceFile,
	}
}

// PrimaryKey is the column triple that uniquely identifies one observation.
func PrimaryKey() []string {
	return []string{ColWeekStart, ColSKUID, ColStoreID}
}

var timestampLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05-0700",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006/01/02",
}

// Normalize coerces a raw table into typed columns: trimmed column names,
// units/price as float64, week_start as time.Time, and a derived
// load_ts_parsed column next to the raw load_ts strings. Values that do not
// parse become nil, never an error. Missing columns are tolerated; the
// input table is not modified.
func Normalize(t *model.Table) *model.Table {
	out := &model.Table{
		Columns: make([]string, 0, len(t.Columns)),
		Records: make([]model.GenericRecord, 0, len(t.Records)),
	}
	for _, c := range t.Columns {
		out.Columns = append(out.Columns, strings.TrimSpace(c))
	}

	hasUnits := out.HasColumn(ColUnits)
	hasPrice := out.HasColumn(ColPrice)
	hasWeek := out.HasColumn(ColWeekStart)
	hasLoadTS := out.HasColumn(ColLoadTS)
	if hasLoadTS {
		out.Columns = append(out.Columns, ColLoadTSParsed)
	}

	for _, rec := range t.Records {
		nr := make(model.GenericRecord, len(rec)+1)
		for k, v := range rec {
			nr[strings.TrimSpace(k)] = v
		}
		if hasUnits {
			nr[ColUnits] = toNullableFloat(nr[ColUnits])
		}
		if hasPrice {
			nr[ColPrice] = toNullableFloat(nr[ColPrice])
		}
		if hasWeek {
			nr[ColWeekStart] = toNullableTime(nr[ColWeekStart])
		}
		if hasLoadTS {
			nr[ColLoadTSParsed] = toNullableTime(nr[ColLoadTS])
		}
		out.Records = append(out.Records, nr)
	}
	return out
}

// toNullableFloat coerces a cell to float64 or nil.
func toNullableFloat(v interface{}) interface{} {
	switch val := v.(type) {
	case nil:
		return nil
	case float64:
		return val
	case float32:
		return float64(val)
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return nil
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
		return nil
	default:
		return nil
	}
}

// toNullableTime coerces a cell to time.Time or nil.
func toNullableTime(v interface{}) interface{} {
	switch val := v.(type) {
	case nil:
		return nil
	case time.Time:
		return val
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return nil
		}
		for _, layout := range timestampLayouts {
			if ts, err := time.Parse(layout, s); err == nil {
				return ts
			}
		}
		return nil
	default:
		return nil
	}
}
