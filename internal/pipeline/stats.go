package pipeline

import (
	"time"

	"github.com/backmassage/texup/internal/display"
)

// RunStats tracks aggregate counters across a batch run.
type RunStats struct {
	Total     int // Candidates selected.
	Succeeded int
	Failed    int
	Skipped   int // Not started because the run was interrupted.

	Upscaled  int // Successes that went through the upscaler.
	Converted int // Successes that produced a converted file.

	InputBytes  int64 // Sources of successful files.
	OutputBytes int64 // Final outputs of successful files.

	Elapsed  time.Duration
	Failures []display.FailureRow
}

// Completed returns how many candidates have been reported so far.
func (s *RunStats) Completed() int {
	return s.Succeeded + s.Failed + s.Skipped
}
