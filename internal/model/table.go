package model

import (
	"time"
)

// GenericRecord is a schema-agnostic map for one row of a table.
// After normalization, values are string, float64, time.Time or nil.
type GenericRecord map[string]interface{}

// Table is an in-memory tabular dataset: the trimmed header in original
// column order plus one GenericRecord per row.
type Table struct {
	Columns []string        `json:"columns"`
	Records []GenericRecord `json:"records"`
}

// SideTables holds the optional promo and calendar inputs, loaded once per
// batch and shared read-only across all file analyses.
type SideTables struct {
	Promos   *Table
	Calendar *Table
}

// HasColumn reports whether the table header contains the named column.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// HasColumns reports whether every named column is present.
func (t *Table) HasColumns(names ...string) bool {
	for _, n := range names {
		if !t.HasColumn(n) {
			return false
		}
	}
	return true
}

// Float returns the value of col in rec as float64. The second result is
// false for nil, missing or non-numeric values; callers must treat that as
// "exclude from computation", never as zero.
func Float(rec GenericRecord, col string) (float64, bool) {
	switch v := rec[col].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

// Time returns the value of col in rec as time.Time, with ok=false for nil,
// missing or unparsed values.
func Time(rec GenericRecord, col string) (time.Time, bool) {
	v, ok := rec[col].(time.Time)
	return v, ok
}

// String returns the raw textual form of the value of col in rec, and
// ok=false when the cell is nil or absent.
func String(rec GenericRecord, col string) (string, bool) {
	switch v := rec[col].(type) {
	case nil:
		return "", false
	case string:
		return v, true
	case time.Time:
		return v.Format(time.RFC3339), true
	default:
		return stringify(v), true
	}
}
