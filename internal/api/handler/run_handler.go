package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"go-dq-sentinel/internal/artifacts"
	"go-dq-sentinel/internal/model"
	"go-dq-sentinel/internal/sentinel"
	"go-dq-sentinel/internal/store"
	"go-dq-sentinel/pkg/config"
	"go-dq-sentinel/pkg/utils"
)

// defaultOutDir is where runs land when the spec leaves outDir empty, and
// where the download endpoint serves artifacts from.
const defaultOutDir = "reports"

var artifactContentTypes = map[string]string{
	"csv":     "text/csv",
	"json":    "application/json",
	"image":   "image/png",
	"archive": "application/zip",
}

// CreateRun launches a new sentinel run
// @Summary Create a new run
// @Description Launch a data-quality run over the weekly sales extracts in the given directory
// @Tags runs
// @Accept json
// @Produce json
// @Param run body model.RunSpec true "Run configuration"
// @Success 200 {object} map[string]interface{} "Run launched"
// @Failure 400 {object} map[string]interface{} "Invalid request payload"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /runs [post]
func CreateRun(w http.ResponseWriter, r *http.Request) {
	var spec model.RunSpec
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if spec.DataDir == "" {
		http.Error(w, "dataDir is required", http.StatusBadRequest)
		return
	}
	if spec.OutDir == "" {
		spec.OutDir = defaultOutDir
	}

	thresholds, err := config.Load(spec.ConfigPath)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid config: %v", err), http.StatusBadRequest)
		return
	}

	runID := uuid.New().String()
	go func() {
		_, err := sentinel.Run(sentinel.RunOptions{
			RunID:        runID,
			DataDir:      spec.DataDir,
			OutDir:       spec.OutDir,
			Pattern:      spec.Pattern,
			PromosPath:   spec.PromosPath,
			CalendarPath: spec.CalendarPath,
			Thresholds:   thresholds,
		})
		if err != nil && !errors.Is(err, sentinel.ErrBlockingFiles) {
			store.SaveRunError(runID, err)
			store.UpdateRunStatus(runID, model.RunStatusFailed)
		}
	}()

	resp := map[string]interface{}{
		"message":   "Run launched successfully!",
		"runID":     runID,
		"status":    model.RunStatusPending,
		"createdAt": time.Now().UTC(),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// ListRuns retrieves all runs
// @Summary List all runs
// @Description Get a list of all sentinel runs with their current status
// @Tags runs
// @Accept json
// @Produce json
// @Success 200 {array} map[string]interface{} "List of runs"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /runs [get]
func ListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := store.ListRuns()
	if err != nil {
		http.Error(w, "Failed to fetch runs", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(runs)
}

// GetRun retrieves a specific run
// @Summary Get run
// @Description Retrieve details of a specific sentinel run
// @Tags runs
// @Accept json
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} map[string]interface{} "Run details"
// @Failure 400 {object} map[string]interface{} "Invalid run ID"
// @Failure 404 {object} map[string]interface{} "Run not found"
// @Router /runs/{id} [get]
func GetRun(w http.ResponseWriter, r *http.Request) {
	runID, ok := runIDFromPath(w, r, "")
	if !ok {
		return
	}

	run, err := store.GetRun(runID)
	if err != nil {
		http.Error(w, "Run not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(run)
}

// GetRunReports retrieves the per-file reports of a run
// @Summary Get run reports
// @Description Retrieve the per-file data-quality reports produced by a run
// @Tags runs
// @Accept json
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} map[string]interface{} "Per-file reports"
// @Failure 400 {object} map[string]interface{} "Invalid run ID"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /runs/{id}/reports [get]
func GetRunReports(w http.ResponseWriter, r *http.Request) {
	runID, ok := runIDFromPath(w, r, "/reports")
	if !ok {
		return
	}

	reports, err := store.GetRunReports(runID)
	if err != nil {
		http.Error(w, "Failed to retrieve reports", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"run_id":  runID,
		"reports": reports,
		"count":   len(reports),
	})
}

// GetRunErrors retrieves errors for a run
// @Summary Get run errors
// @Description Retrieve all errors recorded during a sentinel run
// @Tags runs
// @Accept json
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} map[string]interface{} "Run errors"
// @Failure 400 {object} map[string]interface{} "Invalid run ID"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /runs/{id}/errors [get]
func GetRunErrors(w http.ResponseWriter, r *http.Request) {
	runID, ok := runIDFromPath(w, r, "/errors")
	if !ok {
		return
	}

	runErrors, err := store.GetRunErrors(runID)
	if err != nil {
		http.Error(w, "Failed to retrieve errors", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"run_id": runID,
		"errors": runErrors,
		"count":  len(runErrors),
	})
}

// GetRunSummary retrieves the aggregated status of a run
// @Summary Get run summary
// @Description Retrieve the per-file summary rows and the overall red/amber/green status of a run
// @Tags runs
// @Accept json
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} map[string]interface{} "Run summary"
// @Failure 400 {object} map[string]interface{} "Invalid run ID"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /runs/{id}/summary [get]
func GetRunSummary(w http.ResponseWriter, r *http.Request) {
	runID, ok := runIDFromPath(w, r, "/summary")
	if !ok {
		return
	}

	reports, err := store.GetRunReports(runID)
	if err != nil {
		http.Error(w, "Failed to retrieve reports", http.StatusInternalServerError)
		return
	}

	rows := make([]model.SummaryRow, 0, len(reports))
	for i := range reports {
		rows = append(rows, reports[i].Summarize())
	}
	summary := artifacts.BuildStatusSummary(rows)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"run_id":  runID,
		"status":  summary.Status,
		"counts":  summary.Counts,
		"files":   rows,
		"checked": summary.FilesChecked,
	})
}

// DeleteRun deletes a run and its stored reports
// @Summary Delete run
// @Description Delete a sentinel run and all its stored reports and errors
// @Tags runs
// @Accept json
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} map[string]interface{} "Run deleted"
// @Failure 400 {object} map[string]interface{} "Invalid run ID"
// @Failure 404 {object} map[string]interface{} "Run not found"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /runs/{id} [delete]
func DeleteRun(w http.ResponseWriter, r *http.Request) {
	runID, ok := runIDFromPath(w, r, "")
	if !ok {
		return
	}

	if _, err := store.GetRun(runID); err != nil {
		http.Error(w, "Run not found", http.StatusNotFound)
		return
	}
	if err := store.DeleteRun(runID); err != nil {
		http.Error(w, "Failed to delete run", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Run deleted successfully",
		"run_id":  runID,
	})
}

// DownloadArtifact serves a generated report or artifact file for download
// @Summary Download artifact
// @Description Download a generated report, summary or plot file from the reports directory
// @Tags artifacts
// @Accept json
// @Produce application/octet-stream
// @Param filename path string true "File name"
// @Success 200 {file} file "File download"
// @Failure 400 {object} map[string]interface{} "Invalid URL format"
// @Failure 404 {object} map[string]interface{} "File not found"
// @Router /download/{filename} [get]
func DownloadArtifact(w http.ResponseWriter, r *http.Request) {
	// URL format: /api/v1/download/filename
	pathParts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(pathParts) < 4 {
		http.Error(w, "Invalid URL format", http.StatusBadRequest)
		return
	}

	om := utils.NewOutputManager(defaultOutDir)
	filePath := om.ArtifactPath(pathParts[3])
	fileName := filepath.Base(filePath)
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}

	contentType, ok := artifactContentTypes[om.GetFileType(fileName)]
	if !ok {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	w.Header().Set("Content-Type", contentType)
	http.ServeFile(w, r, filePath)
}

// runIDFromPath extracts the run ID between the runs prefix and the given
// suffix, writing the error response itself when the path is malformed.
func runIDFromPath(w http.ResponseWriter, r *http.Request, suffix string) (string, bool) {
	path := r.URL.Path
	prefix := "/api/v1/runs/"

	if !strings.HasPrefix(path, prefix) || !strings.HasSuffix(path, suffix) {
		http.Error(w, "Invalid path", http.StatusBadRequest)
		return "", false
	}
	runID := path[len(prefix) : len(path)-len(suffix)]
	if runID == "" || strings.Contains(runID, "/") {
		http.Error(w, "Run ID is required", http.StatusBadRequest)
		return "", false
	}
	return runID, true
}
