package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/skyfoundry/airspace-sentinel/core"
)

// AnalysisReport wraps an engine trajectory report with the identity
// and provenance an archive needs. The engine itself stays free of
// random identifiers so its output is reproducible.
type AnalysisReport struct {
	ReportID    string    `json:"report_id"`
	GeneratedAt time.Time `json:"generated_at"`
	SourceFile  string    `json:"source_file,omitempty"`

	core.TrajectoryReport
}

// NewAnalysisReport stamps a trajectory report for archival.
func NewAnalysisReport(sourceFile string, rep core.TrajectoryReport) AnalysisReport {
	return AnalysisReport{
		ReportID:         uuid.NewString(),
		GeneratedAt:      time.Now().UTC(),
		SourceFile:       sourceFile,
		TrajectoryReport: rep,
	}
}
