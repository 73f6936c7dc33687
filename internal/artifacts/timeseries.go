package artifacts

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go-dq-sentinel/internal/checks"
	"go-dq-sentinel/internal/model"
	"go-dq-sentinel/internal/sentinel"
)

// BuildCleanedTimeseries stitches the per-week cleaned extracts in cleanedDir
// into one deduplicated table and writes it to outPath. Exact duplicate rows
// are dropped first; when the full primary key and load_ts are present, key
// collisions keep the row with the latest load_ts. Returns the combined table
// (for plotting) or nil when no cleaned files exist.
func BuildCleanedTimeseries(cleanedDir, outPath string) (*model.Table, error) {
	files, err := filepath.Glob(filepath.Join(cleanedDir, "sales_weekly*.csv"))
	if err != nil {
		return nil, fmt.Errorf("bad cleaned glob: %w", err)
	}
	sort.Strings(files)
	if len(files) == 0 {
		return nil, nil
	}

	combined := &model.Table{}
	for _, f := range files {
		t, err := sentinel.LoadCSV(f)
		if err != nil {
			return nil, fmt.Errorf("failed to read cleaned file %s: %w", f, err)
		}
		appendColumns(combined, t.Columns)
		appendColumns(combined, []string{checks.ColSourceFile})
		base := filepath.Base(f)
		for _, rec := range t.Records {
			rec[checks.ColSourceFile] = base
			combined.Records = append(combined.Records, rec)
		}
	}

	combined.Records = dropExactDuplicates(combined)
	if combined.HasColumns(checks.PrimaryKey()...) {
		combined.Records = dedupeByKey(combined)
	}

	if err := writeTableCSV(combined, outPath); err != nil {
		return nil, err
	}
	return combined, nil
}

// appendColumns extends the combined header with any columns not seen yet,
// preserving first-appearance order.
func appendColumns(t *model.Table, cols []string) {
	for _, c := range cols {
		if !t.HasColumn(c) {
			t.Columns = append(t.Columns, c)
		}
	}
}

// dropExactDuplicates removes rows identical across every column.
func dropExactDuplicates(t *model.Table) []model.GenericRecord {
	seen := make(map[string]bool, len(t.Records))
	kept := make([]model.GenericRecord, 0, len(t.Records))
	for _, rec := range t.Records {
		key := rowKey(rec, t.Columns)
		if seen[key] {
			continue
		}
		seen[key] = true
		kept = append(kept, rec)
	}
	return kept
}

// dedupeByKey keeps, for each primary-key value, the last row after sorting
// by load_ts when that column exists; rows without a load_ts lose to rows
// that have one. Without load_ts the last row in file order wins.
func dedupeByKey(t *model.Table) []model.GenericRecord {
	type indexed struct {
		rec model.GenericRecord
		pos int
	}
	ordered := make([]indexed, len(t.Records))
	for i, rec := range t.Records {
		ordered[i] = indexed{rec: rec, pos: i}
	}
	if t.HasColumn(checks.ColLoadTS) {
		loadTS := func(rec model.GenericRecord) (string, bool) {
			return model.String(rec, checks.ColLoadTS)
		}
		sort.SliceStable(ordered, func(a, b int) bool {
			sa, oka := loadTS(ordered[a].rec)
			sb, okb := loadTS(ordered[b].rec)
			if oka != okb {
				return !oka
			}
			return sa < sb
		})
	}

	latest := make(map[string]indexed, len(ordered))
	for _, item := range ordered {
		latest[rowKey(item.rec, checks.PrimaryKey())] = item
	}

	kept := make([]indexed, 0, len(latest))
	for _, item := range latest {
		kept = append(kept, item)
	}
	sort.Slice(kept, func(a, b int) bool { return kept[a].pos < kept[b].pos })

	records := make([]model.GenericRecord, len(kept))
	for i, item := range kept {
		records[i] = item.rec
	}
	return records
}

// rowKey builds a canonical string over the given columns, distinguishing
// empty strings from absent values.
func rowKey(rec model.GenericRecord, cols []string) string {
	parts := make([]string, len(cols))
	for i, c := range cols {
		s, ok := model.String(rec, c)
		if !ok {
			parts[i] = "\x00"
		} else {
			parts[i] = s
		}
	}
	return strings.Join(parts, "\x1f")
}

// writeTableCSV writes the table with nil cells as empty fields.
func writeTableCSV(t *model.Table, outPath string) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return err
	}
	file, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to create timeseries file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()
	if err := writer.Write(t.Columns); err != nil {
		return err
	}
	row := make([]string, len(t.Columns))
	for _, rec := range t.Records {
		for i, c := range t.Columns {
			s, _ := model.String(rec, c)
			row[i] = s
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	return nil
}
