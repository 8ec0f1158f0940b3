// pkg/pipeline/result.go
package pipeline

import (
	"time"
)

// RunResult summarizes one complete pipeline run.
type RunResult struct {
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	// Documents fetched per source collection
	DocsFetched map[string]int

	// Rows produced per normalized table
	RowsNormalized map[string]int

	// Per-row skips and sentinel substitutions during normalization
	SkippedDocuments    int
	MalformedTimestamps int

	// Violation totals from the quality report
	HardViolations int
	Warnings       int

	OutputDir  string
	ReportPath string
}

// NewRunResult initializes a result for a starting run.
func NewRunResult() *RunResult {
	return &RunResult{
		StartTime:      time.Now(),
		DocsFetched:    make(map[string]int),
		RowsNormalized: make(map[string]int),
	}
}

// Complete marks the run as finished and computes its duration.
func (r *RunResult) Complete() {
	r.EndTime = time.Now()
	r.Duration = r.EndTime.Sub(r.StartTime)
}

// TotalRows returns the number of rows across all normalized tables.
func (r *RunResult) TotalRows() int {
	total := 0
	for _, n := range r.RowsNormalized {
		total += n
	}
	return total
}
