package sentinel

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"

	"go-dq-sentinel/internal/model"
	"go-dq-sentinel/internal/store"
	"go-dq-sentinel/pkg/config"
	"go-dq-sentinel/pkg/logger"
	"go-dq-sentinel/pkg/utils"
)

// Batch-level structural failures. These indicate a misconfiguration rather
// than a data-quality finding, so the CLI maps them to distinct exit codes.
var (
	ErrDataDirNotFound = errors.New("data directory does not exist")
	ErrNoFilesMatched  = errors.New("no files matched pattern")
	ErrBlockingFiles   = errors.New("one or more files are blocking")
)

// RunOptions configures one sentinel batch. RunID is optional; when empty a
// fresh one is generated, the API sets it up front so it can answer before
// the batch finishes.
type RunOptions struct {
	RunID        string
	DataDir      string
	OutDir       string
	Pattern      string
	PromosPath   string
	CalendarPath string
	Thresholds   config.Thresholds
	Log          logger.Logger
}

// RunResult is the outcome of one batch.
type RunResult struct {
	RunID        string
	Rows         []model.SummaryRow
	AnyBlocking  bool
	SummaryPath  string
	FilesChecked int
}

// Run discovers the matching CSV files in deterministic (lexicographic)
// order, analyzes each one, writes the batch summary CSV, and records the
// run in the store when one is configured. A per-file failure never stops
// the batch; structural problems (missing directory, empty glob) abort it
// with a typed error before any summary is written.
func Run(opts RunOptions) (*RunResult, error) {
	log := opts.Log
	if log == nil {
		log = logger.NewNop()
	}

	if info, err := os.Stat(opts.DataDir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrDataDirNotFound, opts.DataDir)
	}

	pattern := opts.Pattern
	if pattern == "" {
		pattern = "sales_weekly*.csv"
	}
	files, err := filepath.Glob(filepath.Join(opts.DataDir, pattern))
	if err != nil {
		return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
	}
	sort.Strings(files)
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: %s in %s", ErrNoFilesMatched, pattern, opts.DataDir)
	}

	runID := opts.RunID
	if runID == "" {
		runID = uuid.New().String()
	}
	spec := model.RunSpec{
		DataDir:      opts.DataDir,
		OutDir:       opts.OutDir,
		Pattern:      pattern,
		PromosPath:   opts.PromosPath,
		CalendarPath: opts.CalendarPath,
	}
	if err := store.SaveRun(runID, spec); err != nil {
		log.Warnf("failed to record run %s: %v", runID, err)
	}
	store.UpdateRunStatus(runID, model.RunStatusRunning)

	aux := loadSideTables(runID, opts, log)
	om := utils.NewOutputManager(opts.OutDir)

	result := &RunResult{RunID: runID}
	for _, f := range files {
		fmt.Printf("🔎 Analyzing %s ...\n", filepath.Base(f))
		rep := AnalyzeFile(f, om, aux, opts.Thresholds)
		if rep.Error != "" {
			store.SaveRunError(runID, fmt.Errorf("%s: %s", rep.File, rep.Error))
		}
		if err := store.SaveFileReport(runID, rep); err != nil {
			log.Warnf("failed to persist report for %s: %v", rep.File, err)
		}
		result.Rows = append(result.Rows, rep.Summarize())
		if rep.Blocking == model.VerdictFail {
			result.AnyBlocking = true
		}
	}
	result.FilesChecked = len(files)

	summaryPath, err := writeSummaryCSV(om, result.Rows)
	if err != nil {
		store.UpdateRunStatus(runID, model.RunStatusFailed)
		store.SaveRunError(runID, err)
		return nil, err
	}
	result.SummaryPath = summaryPath
	fmt.Printf("📄 Wrote summary to %s\n", summaryPath)

	blocking := 0
	for _, row := range result.Rows {
		if row.Blocking == model.VerdictFail {
			blocking++
		}
	}
	store.FinishRun(runID, len(files), blocking)

	if result.AnyBlocking {
		return result, ErrBlockingFiles
	}
	return result, nil
}

// loadSideTables loads the optional promo and calendar CSVs once per batch.
// Failures are warnings; the checks treat the tables as absent.
func loadSideTables(runID string, opts RunOptions, log logger.Logger) model.SideTables {
	var aux model.SideTables
	var warn string
	if aux.Promos, warn = LoadOptionalCSV(opts.PromosPath); warn != "" {
		log.Warnf("%s", warn)
		store.SaveRunError(runID, errors.New(warn))
	}
	if aux.Calendar, warn = LoadOptionalCSV(opts.CalendarPath); warn != "" {
		log.Warnf("%s", warn)
		store.SaveRunError(runID, errors.New(warn))
	}
	return aux
}

// writeSummaryCSV persists the batch summary table with the fixed column
// order downstream consumers depend on.
func writeSummaryCSV(om *utils.OutputManager, rows []model.SummaryRow) (string, error) {
	if err := om.EnsureOutputDirExists(); err != nil {
		return "", err
	}
	path := om.SummaryPath()
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create summary file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(model.SummaryColumns); err != nil {
		return "", fmt.Errorf("failed to write summary header: %w", err)
	}
	for _, row := range rows {
		if err := writer.Write(row.CSVRecord()); err != nil {
			return "", fmt.Errorf("failed to write summary row: %w", err)
		}
	}
	return path, nil
}
