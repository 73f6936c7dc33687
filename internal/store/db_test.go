package store

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go-dq-sentinel/internal/model"
)

// Without InitDB the writes must stay silent and the reads must return a
// typed error instead of touching a nil handle.
func TestUnconfiguredStore(t *testing.T) {
	t.Run("writes are no-ops", func(t *testing.T) {
		assert.NoError(t, SaveRun("r1", model.RunSpec{DataDir: "data"}))
		assert.NoError(t, UpdateRunStatus("r1", model.RunStatusRunning))
		assert.NoError(t, FinishRun("r1", 2, 1))
		assert.NoError(t, SaveFileReport("r1", &model.FileReport{File: "sales_weekly_1.csv"}))
		assert.NoError(t, DeleteRun("r1"))
	})

	t.Run("reads report the missing store", func(t *testing.T) {
		_, err := ListRuns()
		assert.ErrorIs(t, err, ErrNotConfigured)
		_, err = GetRun("r1")
		assert.ErrorIs(t, err, ErrNotConfigured)
		_, err = GetRunReports("r1")
		assert.ErrorIs(t, err, ErrNotConfigured)
		_, err = GetRunErrors("r1")
		assert.ErrorIs(t, err, ErrNotConfigured)
	})
}
