package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// OutputManager organizes the sentinel's report and artifact paths under one
// base directory.
type OutputManager struct {
	BaseOutputDir string
}

// NewOutputManager creates a new output manager.
func NewOutputManager(baseOutputDir string) *OutputManager {
	return &OutputManager{BaseOutputDir: baseOutputDir}
}

// EnsureOutputDirExists ensures the base output directory exists.
func (om *OutputManager) EnsureOutputDirExists() error {
	if err := os.MkdirAll(om.BaseOutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// ReportPath returns the per-file JSON report path for an input file,
// mirroring its base name: sales_weekly_x.csv -> sales_weekly_x_dq_report.json.
func (om *OutputManager) ReportPath(inputFile string) string {
	base := filepath.Base(inputFile)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(om.BaseOutputDir, stem+"_dq_report.json")
}

// SummaryPath returns the batch summary CSV path.
func (om *OutputManager) SummaryPath() string {
	return filepath.Join(om.BaseOutputDir, "summary_report.csv")
}

// ArtifactPath returns a path under the base directory for a named artifact,
// stripping any path separators from the name.
func (om *OutputManager) ArtifactPath(fileName string) string {
	return filepath.Join(om.BaseOutputDir, filepath.Base(fileName))
}

// GetFileType determines the file type based on extension.
func (om *OutputManager) GetFileType(fileName string) string {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv":
		return "csv"
	case ".json":
		return "json"
	case ".png":
		return "image"
	case ".zip":
		return "archive"
	default:
		return "unknown"
	}
}
