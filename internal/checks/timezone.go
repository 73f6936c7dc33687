package checks

import (
	"fmt"
	"regexp"

	"go-dq-sentinel/internal/model"
)

var tzPattern = regexp.MustCompile(`([+-]\d{2}:?\d{2}|Z)`)

// DetectTimezoneShift scans the raw load_ts strings for timezone-offset
// patterns (+HH:MM, -HH:MM or Z) and recounts duplicate primary keys, which
// commonly appear when the same observation is loaded under two timezone
// normalizations. More than one distinct pattern, or any duplicate PK,
// makes the file suspicious.
func DetectTimezoneShift(t *model.Table) *model.TimezoneDiag {
	if !t.HasColumn(ColLoadTS) {
		return &model.TimezoneDiag{Status: model.StatusNoLoadTSColumn}
	}

	variants := []string{}
	seen := make(map[string]struct{})
	for _, rec := range t.Records {
		s, ok := model.String(rec, ColLoadTS)
		if !ok {
			continue
		}
		m := tzPattern.FindString(s)
		if m == "" {
			continue
		}
		if _, dup := seen[m]; !dup {
			seen[m] = struct{}{}
			variants = append(variants, m)
		}
	}

	dupPK := 0
	if t.HasColumns(PrimaryKey()...) {
		dupPK, _ = duplicatePKRows(t, PrimaryKey())
	}

	suspicious := len(variants) > 1 || dupPK > 0
	hint := ""
	if len(variants) > 1 {
		hint += fmt.Sprintf("Found multiple timezone patterns in load_ts: %v. ", variants)
	}
	if dupPK > 0 {
		hint += "Found duplicate primary keys which may be caused by timezone-normalization inconsistencies. "
	}
	return &model.TimezoneDiag{
		Status:           model.StatusOK,
		TZVariants:       variants,
		DuplicatePKCount: dupPK,
		Suspicious:       suspicious,
		Hint:             hint,
	}
}
