package checks

import (
	"fmt"

	"go-dq-sentinel/internal/model"
)

// CheckSchema compares the table header against the expected schema.
// Extra columns are tolerated; schema_ok is true iff nothing is missing.
func CheckSchema(t *model.Table, expected []string) *model.SchemaDiag {
	if expected == nil {
		expected = ExpectedSchemaV1()
	}
	missing := make([]string, 0)
	for _, c := range expected {
		if !t.HasColumn(c) {
			missing = append(missing, c)
		}
	}
	extra := make([]string, 0)
	for _, c := range t.Columns {
		if !contains(expected, c) {
			extra = append(extra, c)
		}
	}
	return &model.SchemaDiag{
		MissingColumns: missing,
		ExtraColumns:   extra,
		SchemaOK:       len(missing) == 0,
	}
}

// DetectSchemaVersioning runs the same missing/extra computation but frames
// it as a schema-change signal, kept as a separate diagnostic so downstream
// consumers can alert on drift independently of the hard schema gate.
func DetectSchemaVersioning(t *model.Table, expected []string) *model.SchemaVersionDiag {
	if expected == nil {
		expected = ExpectedSchemaV1()
	}
	s := CheckSchema(t, expected)
	changed := len(s.MissingColumns) > 0 || len(s.ExtraColumns) > 0
	hint := ""
	if changed {
		hint = fmt.Sprintf("Missing columns: %v. Extra columns: %v.", s.MissingColumns, s.ExtraColumns)
	}
	return &model.SchemaVersionDiag{
		Status:        model.StatusOK,
		SchemaChanged: changed,
		Missing:       s.MissingColumns,
		Extra:         s.ExtraColumns,
		Hint:          hint,
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
