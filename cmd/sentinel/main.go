package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"go-dq-sentinel/internal/artifacts"
	"go-dq-sentinel/internal/model"
	"go-dq-sentinel/internal/sentinel"
	"go-dq-sentinel/internal/store"
	"go-dq-sentinel/pkg/config"
	"go-dq-sentinel/pkg/logger"
)

// Exit codes of the run command, stable for CI pipelines.
const (
	exitOK         = 0
	exitBlocking   = 1
	exitBadDataDir = 2
	exitNoFiles    = 3
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "sentinel",
		Short:         "Data-quality sentinel for weekly sales extracts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(newRunCmd(), newArtifactsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps the typed runner errors onto the CI contract.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, sentinel.ErrDataDirNotFound):
		return exitBadDataDir
	case errors.Is(err, sentinel.ErrNoFilesMatched):
		return exitNoFiles
	default:
		return exitBlocking
	}
}

func newRunCmd() *cobra.Command {
	var (
		dataDir      string
		outDir       string
		pattern      string
		promosPath   string
		calendarPath string
		configPath   string
		dbPath       string
		logLevel     string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Analyze weekly sales extracts and write per-file reports",
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := logger.NewZapLogger(logLevel)
			if err != nil {
				return err
			}
			defer log.Sync()

			thresholds, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if dbPath != "" {
				if err := store.InitDB(dbPath); err != nil {
					return fmt.Errorf("failed to open store: %w", err)
				}
			}

			result, err := sentinel.Run(sentinel.RunOptions{
				DataDir:      dataDir,
				OutDir:       outDir,
				Pattern:      pattern,
				PromosPath:   promosPath,
				CalendarPath: calendarPath,
				Thresholds:   thresholds,
				Log:          log,
			})
			if result != nil {
				blocking := 0
				for _, row := range result.Rows {
					if row.Blocking == model.VerdictFail {
						blocking++
					}
				}
				if blocking > 0 {
					fmt.Printf("⛔ %d of %d file(s) blocking\n", blocking, result.FilesChecked)
				} else {
					fmt.Printf("✅ All %d file(s) passed\n", result.FilesChecked)
				}
			}
			return err
		},
	}

	cmd.Flags().StringVar(&dataDir, "data-dir", "", "directory containing the weekly sales extracts (required)")
	cmd.Flags().StringVar(&outDir, "out-dir", "reports", "directory for per-file reports and the summary CSV")
	cmd.Flags().StringVar(&pattern, "pattern", "sales_weekly*.csv", "glob pattern for input files")
	cmd.Flags().StringVar(&promosPath, "promos", "", "optional promotions CSV")
	cmd.Flags().StringVar(&calendarPath, "calendar", "", "optional calendar events CSV")
	cmd.Flags().StringVar(&configPath, "config", "", "optional thresholds config file")
	cmd.Flags().StringVar(&dbPath, "db", "", "optional SQLite database recording runs")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	cmd.MarkFlagRequired("data-dir")

	return cmd
}

func newArtifactsCmd() *cobra.Command {
	var (
		reportsDir     string
		cleanedDir     string
		archivePath    string
		timeseriesPath string
		logLevel       string
	)

	cmd := &cobra.Command{
		Use:   "artifacts",
		Short: "Build deliverable artifacts from reports and cleaned extracts",
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := logger.NewZapLogger(logLevel)
			if err != nil {
				return err
			}
			defer log.Sync()

			_, err = artifacts.Build(artifacts.BuildOptions{
				ReportsDir:     reportsDir,
				CleanedDir:     cleanedDir,
				ArchivePath:    archivePath,
				TimeseriesPath: timeseriesPath,
				Log:            log,
			})
			return err
		},
	}

	cmd.Flags().StringVar(&reportsDir, "reports-dir", "reports", "directory holding the summary CSV and receiving findings, status and plots")
	cmd.Flags().StringVar(&cleanedDir, "cleaned-dir", "data/cleaned", "directory of cleaned per-week extracts")
	cmd.Flags().StringVar(&archivePath, "archive", "dq-reports.zip", "fallback archive searched for the summary CSV")
	cmd.Flags().StringVar(&timeseriesPath, "out", "data/cleaned_timeseries.csv", "output path for the combined cleaned timeseries")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	return cmd
}
