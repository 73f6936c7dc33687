package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"go-dq-sentinel/internal/model"
)

var db *sql.DB

// ErrNotConfigured is returned by the read functions when InitDB was never
// called. The writes stay silent no-ops; a read without a store is a caller
// bug worth surfacing.
var ErrNotConfigured = errors.New("store not configured")

// InitDB opens the SQLite database and bootstraps the schema. The store is
// optional: when InitDB is never called, every write below is a no-op so the
// CLI can run without a database file.
func InitDB(dbPath string) error {
	var err error
	db, err = sql.Open("sqlite3", dbPath)
	if err != nil {
		return err
	}

	runTable := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		spec TEXT,
		status TEXT,
		files_checked INTEGER,
		files_blocking INTEGER,
		created_at DATETIME,
		updated_at DATETIME
	);
	`
	reportTable := `
	CREATE TABLE IF NOT EXISTS file_reports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT,
		file TEXT,
		blocking TEXT,
		blocking_reasons TEXT,
		report TEXT,
		created_at DATETIME
	);
	`
	errorTable := `
	CREATE TABLE IF NOT EXISTS run_errors (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT,
		error_message TEXT,
		created_at DATETIME
	);
	`

	for _, stmt := range []string{runTable, reportTable, errorTable} {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// SaveRun stores a new sentinel run.
func SaveRun(runID string, spec model.RunSpec) error {
	if db == nil {
		return nil
	}
	specJSON, err := json.Marshal(spec)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	_, err = db.Exec(`INSERT INTO runs (id, spec, status, files_checked, files_blocking, created_at, updated_at) VALUES (?, ?, ?, 0, 0, ?, ?)`,
		runID, specJSON, model.RunStatusPending, now, now)
	return err
}

// UpdateRunStatus updates the run status.
func UpdateRunStatus(runID string, status string) error {
	if db == nil {
		return nil
	}
	now := time.Now().UTC()
	_, err := db.Exec(`UPDATE runs SET status = ?, updated_at = ? WHERE id = ?`, status, now, runID)
	return err
}

// FinishRun marks a run completed and records its counters.
func FinishRun(runID string, filesChecked, filesBlocking int) error {
	if db == nil {
		return nil
	}
	now := time.Now().UTC()
	_, err := db.Exec(`UPDATE runs SET status = ?, files_checked = ?, files_blocking = ?, updated_at = ? WHERE id = ?`,
		model.RunStatusCompleted, filesChecked, filesBlocking, now, runID)
	return err
}

// SaveRunError records an error for a run.
func SaveRunError(runID string, err error) error {
	if db == nil || err == nil {
		return nil
	}
	now := time.Now().UTC()
	_, e := db.Exec(`INSERT INTO run_errors (run_id, error_message, created_at) VALUES (?, ?, ?)`,
		runID, err.Error(), now)
	return e
}

// SaveFileReport persists one per-file report against its run.
func SaveFileReport(runID string, rep *model.FileReport) error {
	if db == nil {
		return nil
	}
	repJSON, err := json.Marshal(rep)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	_, err = db.Exec(`INSERT INTO file_reports (run_id, file, blocking, blocking_reasons, report, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		runID, rep.File, rep.Blocking, strings.Join(rep.BlockingReasons, ";"), repJSON, now)
	return err
}

// ListRuns returns all runs with basic info, newest first.
func ListRuns() ([]map[string]interface{}, error) {
	if db == nil {
		return nil, ErrNotConfigured
	}
	rows, err := db.Query(`SELECT id, status, files_checked, files_blocking, created_at, updated_at FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []map[string]interface{}
	for rows.Next() {
		var id, status string
		var filesChecked, filesBlocking int
		var createdAt, updatedAt time.Time
		if err := rows.Scan(&id, &status, &filesChecked, &filesBlocking, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, map[string]interface{}{
			"id":             id,
			"status":         status,
			"files_checked":  filesChecked,
			"files_blocking": filesBlocking,
			"createdAt":      createdAt,
			"updatedAt":      updatedAt,
		})
	}
	return runs, rows.Err()
}

// GetRun fetches one run including its spec.
func GetRun(runID string) (map[string]interface{}, error) {
	if db == nil {
		return nil, ErrNotConfigured
	}
	var specJSON, status string
	var filesChecked, filesBlocking int
	var createdAt, updatedAt time.Time

	err := db.QueryRow(`SELECT spec, status, files_checked, files_blocking, created_at, updated_at FROM runs WHERE id = ?`, runID).
		Scan(&specJSON, &status, &filesChecked, &filesBlocking, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	var spec model.RunSpec
	if err := json.Unmarshal([]byte(specJSON), &spec); err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"id":             runID,
		"spec":           spec,
		"status":         status,
		"files_checked":  filesChecked,
		"files_blocking": filesBlocking,
		"createdAt":      createdAt,
		"updatedAt":      updatedAt,
	}, nil
}

// GetRunReports returns the stored per-file reports for a run in insertion
// (file iteration) order.
func GetRunReports(runID string) ([]model.FileReport, error) {
	if db == nil {
		return nil, ErrNotConfigured
	}
	rows, err := db.Query(`SELECT report FROM file_reports WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []model.FileReport
	for rows.Next() {
		var repJSON string
		if err := rows.Scan(&repJSON); err != nil {
			return nil, err
		}
		var rep model.FileReport
		if err := json.Unmarshal([]byte(repJSON), &rep); err != nil {
			return nil, err
		}
		reports = append(reports, rep)
	}
	return reports, rows.Err()
}

// GetRunErrors returns the recorded errors for a run.
func GetRunErrors(runID string) ([]model.RunError, error) {
	if db == nil {
		return nil, ErrNotConfigured
	}
	rows, err := db.Query(`SELECT run_id, error_message, created_at FROM run_errors WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var errs []model.RunError
	for rows.Next() {
		var re model.RunError
		if err := rows.Scan(&re.RunID, &re.Message, &re.CreatedAt); err != nil {
			return nil, err
		}
		errs = append(errs, re)
	}
	return errs, rows.Err()
}

// DeleteRun removes a run and its reports and errors.
func DeleteRun(runID string) error {
	if db == nil {
		return nil
	}
	for _, stmt := range []string{
		`DELETE FROM file_reports WHERE run_id = ?`,
		`DELETE FROM run_errors WHERE run_id = ?`,
		`DELETE FROM runs WHERE id = ?`,
	} {
		if _, err := db.Exec(stmt, runID); err != nil {
			return err
		}
	}
	return nil
}
