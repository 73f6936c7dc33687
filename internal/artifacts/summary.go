package artifacts

import (
	"archive/zip"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go-dq-sentinel/internal/model"
)

// Overall batch statuses.
const (
	StatusRed   = "red"
	StatusAmber = "amber"
	StatusGreen = "green"
)

// StatusSummary is the dq_summary.json document.
type StatusSummary struct {
	Status       string       `json:"status"`
	FilesChecked int          `json:"files_checked"`
	Counts       StatusCounts `json:"counts"`
}

// StatusCounts carries the headline numbers next to the status.
type StatusCounts struct {
	Red             int `json:"red"`
	DuplicatesTotal int `json:"duplicates_total"`
}

// FindSummary locates the batch summary CSV: first reportsDir/ci, then
// reportsDir itself, then inside the packaged archive (from which it is
// extracted into reportsDir). Empty string when nothing is found.
func FindSummary(reportsDir, archivePath string) (string, error) {
	candidates := []string{
		filepath.Join(reportsDir, "ci", "summary_report.csv"),
		filepath.Join(reportsDir, "summary_report.csv"),
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	if archivePath != "" {
		if _, err := os.Stat(archivePath); err == nil {
			return extractSummary(archivePath, reportsDir)
		}
	}
	return "", nil
}

// extractSummary pulls summary_report.csv out of a dq-reports archive.
func extractSummary(archivePath, destDir string) (string, error) {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return "", fmt.Errorf("failed to open archive: %w", err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if !strings.HasSuffix(f.Name, "summary_report.csv") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("failed to read %s from archive: %w", f.Name, err)
		}
		defer rc.Close()

		outPath := filepath.Join(destDir, filepath.Base(f.Name))
		if err := os.MkdirAll(destDir, 0755); err != nil {
			return "", err
		}
		out, err := os.Create(outPath)
		if err != nil {
			return "", err
		}
		defer out.Close()
		if _, err := io.Copy(out, rc); err != nil {
			return "", err
		}
		return outPath, nil
	}
	return "", nil
}

// ReadSummaryRows parses a summary CSV tolerantly: headers are trimmed,
// unknown columns ignored, missing or blank metric cells stay nil.
func ReadSummaryRows(path string) ([]model.SummaryRow, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open summary: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse summary: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	colIdx := make(map[string]int, len(records[0]))
	for i, h := range records[0] {
		colIdx[strings.TrimSpace(h)] = i
	}
	cell := func(rec []string, name string) string {
		i, ok := colIdx[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var rows []model.SummaryRow
	for _, rec := range records[1:] {
		row := model.SummaryRow{
			File:            cell(rec, "file"),
			Blocking:        cell(rec, "blocking"),
			BlockingReasons: cell(rec, "blocking_reasons"),
		}
		if s := cell(rec, "duplicate_count"); s != "" {
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				n := int(f)
				row.DuplicateCount = &n
			}
		}
		if s := cell(rec, "pct_backfilled"); s != "" {
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				row.PctBackfilled = &f
			}
		}
		if s := cell(rec, "suspected_unit_price_mixup"); s != "" {
			b := strings.EqualFold(s, "true")
			row.SuspectedMixup = &b
		}
		if s := cell(rec, "level_shift_groups"); s != "" {
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				n := int(f)
				row.LevelShiftGroups = &n
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// WriteFindings writes the normalized findings copy of the summary rows.
func WriteFindings(rows []model.SummaryRow, outPath string) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return err
	}
	file, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to create findings file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()
	if err := writer.Write(model.SummaryColumns); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writer.Write(row.CSVRecord()); err != nil {
			return err
		}
	}
	return nil
}

// ComputeOverallStatus folds the per-file summary rows into the batch
// traffic light: red when any file blocks; amber when nothing blocks but
// some notable non-blocking issue exists; green otherwise.
func ComputeOverallStatus(rows []model.SummaryRow) string {
	for _, row := range rows {
		if strings.EqualFold(row.Blocking, model.VerdictFail) {
			return StatusRed
		}
	}
	for _, row := range rows {
		if row.DuplicateCount != nil && *row.DuplicateCount > 0 {
			return StatusAmber
		}
		if row.PctBackfilled != nil && *row.PctBackfilled > 0 {
			return StatusAmber
		}
		if row.SuspectedMixup != nil && *row.SuspectedMixup {
			return StatusAmber
		}
		if row.LevelShiftGroups != nil && *row.LevelShiftGroups > 0 {
			return StatusAmber
		}
	}
	return StatusGreen
}

// BuildStatusSummary derives the dq_summary document from the rows.
func BuildStatusSummary(rows []model.SummaryRow) StatusSummary {
	s := StatusSummary{
		Status:       ComputeOverallStatus(rows),
		FilesChecked: len(rows),
	}
	for _, row := range rows {
		if strings.EqualFold(row.Blocking, model.VerdictFail) {
			s.Counts.Red++
		}
		if row.DuplicateCount != nil {
			s.Counts.DuplicatesTotal += *row.DuplicateCount
		}
	}
	return s
}

// WriteStatusJSON persists the status document.
func WriteStatusJSON(summary StatusSummary, outPath string) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return err
	}
	file, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to create summary json: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(summary)
}
