package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseValue(t *testing.T) {
	assert.Equal(t, 42, ParseValue(" 42 "))
	assert.Equal(t, 9.99, ParseValue("9.99"))
	assert.Equal(t, "USD", ParseValue(" USD "))
	assert.Equal(t, "", ParseValue("   "))
	assert.Equal(t, "2024-01-01", ParseValue("2024-01-01"))
}

func TestOutputManagerPaths(t *testing.T) {
	om := NewOutputManager("reports")

	assert.Equal(t, "reports/sales_weekly_1_dq_report.json", om.ReportPath("data/sales_weekly_1.csv"))
	assert.Equal(t, "reports/summary_report.csv", om.SummaryPath())
	assert.Equal(t, "reports/dq_summary.json", om.ArtifactPath("../dq_summary.json"))

	assert.Equal(t, "csv", om.GetFileType("summary_report.csv"))
	assert.Equal(t, "json", om.GetFileType("report.JSON"))
	assert.Equal(t, "image", om.GetFileType("missingness.png"))
	assert.Equal(t, "archive", om.GetFileType("dq-reports.zip"))
	assert.Equal(t, "unknown", om.GetFileType("notes.txt"))
}
