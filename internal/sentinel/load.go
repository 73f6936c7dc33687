package sentinel

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"go-dq-sentinel/internal/model"
	"go-dq-sentinel/pkg/utils"
)

// LoadCSV reads one CSV file into a Table. Headers are trimmed and
// unquoted; cell values are type-sniffed (int, float, string). A short row
// leaves the trailing columns absent rather than failing the file.
func LoadCSV(path string) (*model.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	csvReader := csv.NewReader(file)
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	headers, err := csvReader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	table := &model.Table{Columns: make([]string, 0, len(headers))}
	for _, h := range headers {
		cleanHeader := strings.TrimSpace(h)
		cleanHeader = strings.ReplaceAll(cleanHeader, `"`, "")
		table.Columns = append(table.Columns, cleanHeader)
	}

	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			return table, nil
		} else if err != nil {
			return nil, fmt.Errorf("CSV read error: %w", err)
		}

		rec := make(model.GenericRecord, len(table.Columns))
		for i, col := range table.Columns {
			if i < len(record) {
				rec[col] = utils.ParseValue(record[i])
			}
		}
		table.Records = append(table.Records, rec)
	}
}

// LoadOptionalCSV loads a side table, treating a missing or unreadable file
// as simply absent. The returned warning, if any, is for the caller to log;
// side-table problems never fail a run.
func LoadOptionalCSV(path string) (*model.Table, string) {
	if path == "" {
		return nil, ""
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Sprintf("optional file %s not found, skipping", path)
	}
	t, err := LoadCSV(path)
	if err != nil {
		return nil, fmt.Sprintf("failed to read %s: %v", path, err)
	}
	return t, ""
}
