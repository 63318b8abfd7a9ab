// Package pipeline selects candidate textures, runs the per-image
// upscale/convert pipeline on a bounded worker pool, and reports per-file
// completion plus a batch summary.
//
// Files:
//   - discover.go: Selector (include/exclude glob walk)
//   - process.go:  per-image pipeline and its stage transitions
//   - runner.go:   scheduler (collision claims, worker pool)
//   - report.go:   single-goroutine reporter, progress bar, summary
//   - stats.go:    aggregate counters
//   - lock.go:     per-target run lock
//   - cleanup.go:  tool log removal
package pipeline
