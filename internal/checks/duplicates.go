package checks

import (
	"strings"

	"go-dq-sentinel/internal/model"
)

const duplicateSampleCap = 10

// CheckDuplicates counts rows whose (week_start, sku_id, store_id) triple is
// non-unique: every row participating in a collision is counted, so two
// identical rows yield a count of 2. When any PK column is absent the count
// is nil, which is distinct from a clean zero.
func CheckDuplicates(t *model.Table) *model.DuplicatesDiag {
	pk := PrimaryKey()
	for _, c := range pk {
		if !t.HasColumn(c) {
			return &model.DuplicatesDiag{
				Status:         model.StatusPKColumnMissing,
				PK:             pk,
				DuplicateCount: nil,
				Sample:         []model.GenericRecord{},
			}
		}
	}
	count, idx := duplicatePKRows(t, pk)
	sample := make([]model.GenericRecord, 0, duplicateSampleCap)
	for _, i := range idx {
		if len(sample) == duplicateSampleCap {
			break
		}
		sample = append(sample, t.Records[i])
	}
	return &model.DuplicatesDiag{
		Status:         model.StatusOK,
		PK:             pk,
		DuplicateCount: &count,
		Sample:         sample,
	}
}

// duplicatePKRows returns the number of rows involved in a PK collision and
// their indices in row order. Shared with the timezone check, which recounts
// duplicate PKs as a tz-normalization symptom.
func duplicatePKRows(t *model.Table, pk []string) (int, []int) {
	seen := make(map[string][]int, len(t.Records))
	for i, rec := range t.Records {
		k := pkKey(rec, pk)
		seen[k] = append(seen[k], i)
	}
	var idx []int
	for i, rec := range t.Records {
		if len(seen[pkKey(rec, pk)]) > 1 {
			idx = append(idx, i)
		}
	}
	return len(idx), idx
}

// pkKey builds a canonical string key for the PK columns of one row.
// Nil cells map to a marker so that two unparsed values still collide, the
// same way null keys group together in the upstream extracts.
func pkKey(rec model.GenericRecord, pk []string) string {
	parts := make([]string, 0, len(pk))
	for _, c := range pk {
		if s, ok := model.String(rec, c); ok {
			parts = append(parts, s)
		} else {
			parts = append(parts, "\x00")
		}
	}
	return strings.Join(parts, "\x1f")
}
