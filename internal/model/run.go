package model

import "time"

// Run statuses as persisted in the store.
const (
	RunStatusPending   = "pending"
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// RunSpec is the configuration for one sentinel batch, as submitted via the
// CLI or the API.
type RunSpec struct {
	DataDir      string `json:"dataDir"`
	OutDir       string `json:"outDir"`
	Pattern      string `json:"pattern"`
	PromosPath   string `json:"promos,omitempty"`
	CalendarPath string `json:"calendar,omitempty"`
	ConfigPath   string `json:"config,omitempty"`
}

// Run is the stored record of a batch execution.
type Run struct {
	ID            string    `json:"id"`
	Spec          RunSpec   `json:"spec"`
	Status        string    `json:"status"`
	FilesChecked  int       `json:"files_checked"`
	FilesBlocking int       `json:"files_blocking"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// RunError is one recorded error for a run (a failed side-table load, an
// unreadable input file, a store failure).
type RunError struct {
	RunID     string    `json:"run_id"`
	Message   string    `json:"error_message"`
	CreatedAt time.Time `json:"created_at"`
}
