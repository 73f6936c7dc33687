package artifacts

import (
	"fmt"
	"path/filepath"

	"go-dq-sentinel/pkg/logger"
)

// BuildOptions configures one artifact build.
type BuildOptions struct {
	ReportsDir     string // where summary_report.csv is searched and findings land
	CleanedDir     string // directory of cleaned per-week extracts
	ArchivePath    string // optional dq-reports.zip fallback for the summary
	TimeseriesPath string // output path for the combined cleaned timeseries
	Log            logger.Logger
}

// BuildResult reports what was produced.
type BuildResult struct {
	Status         string
	FindingsPath   string
	SummaryPath    string
	TimeseriesPath string
	PlotPaths      []string
}

// Build generates the deliverable artifacts: the findings CSV and status
// JSON derived from the batch summary, the combined cleaned timeseries, and
// the diagnostic plots. Each stage is independent; a missing input skips its
// stage with a warning instead of failing the build.
func Build(opts BuildOptions) (*BuildResult, error) {
	log := opts.Log
	if log == nil {
		log = logger.NewNop()
	}
	result := &BuildResult{}

	summaryPath, err := FindSummary(opts.ReportsDir, opts.ArchivePath)
	if err != nil {
		return nil, err
	}
	if summaryPath == "" {
		log.Warnf("no summary_report.csv found under %s; skipping findings and status", opts.ReportsDir)
	} else {
		rows, err := ReadSummaryRows(summaryPath)
		if err != nil {
			return nil, err
		}
		result.FindingsPath = filepath.Join(opts.ReportsDir, "dq_findings.csv")
		if err := WriteFindings(rows, result.FindingsPath); err != nil {
			return nil, err
		}
		fmt.Printf("📄 Wrote findings to %s\n", result.FindingsPath)

		summary := BuildStatusSummary(rows)
		result.Status = summary.Status
		result.SummaryPath = filepath.Join(opts.ReportsDir, "dq_summary.json")
		if err := WriteStatusJSON(summary, result.SummaryPath); err != nil {
			return nil, err
		}
		fmt.Printf("🚦 Overall status: %s\n", summary.Status)
	}

	combined, err := BuildCleanedTimeseries(opts.CleanedDir, opts.TimeseriesPath)
	if err != nil {
		return nil, err
	}
	if combined == nil {
		log.Warnf("no cleaned CSVs found in %s; skipping timeseries and plots", opts.CleanedDir)
		return result, nil
	}
	result.TimeseriesPath = opts.TimeseriesPath
	fmt.Printf("📈 Wrote cleaned timeseries to %s (rows: %d)\n", opts.TimeseriesPath, len(combined.Records))

	plotsDir := filepath.Join(opts.ReportsDir, "plots")
	plots := []struct {
		name string
		fn   func() error
	}{
		{"missingness.png", func() error { return PlotMissingness(combined, filepath.Join(plotsDir, "missingness.png")) }},
		{"cadence.png", func() error { return PlotCadence(combined, filepath.Join(plotsDir, "cadence.png")) }},
		{"level_shifts.png", func() error { return PlotLevelShiftRelChange(combined, filepath.Join(plotsDir, "level_shifts.png")) }},
	}
	for _, p := range plots {
		if err := p.fn(); err != nil {
			log.Warnf("plotting %s failed: %v", p.name, err)
			continue
		}
		result.PlotPaths = append(result.PlotPaths, filepath.Join(plotsDir, p.name))
	}
	return result, nil
}
