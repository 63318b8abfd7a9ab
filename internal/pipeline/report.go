package pipeline

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/backmassage/texup/internal/config"
	"github.com/backmassage/texup/internal/display"
	"github.com/backmassage/texup/internal/logging"
	"github.com/backmassage/texup/internal/planner"
	"github.com/backmassage/texup/internal/term"
	"github.com/backmassage/texup/internal/tools"
)

// reporter consumes outcomes on a single goroutine. The progress bar, when
// shown, belongs to the logger, which serializes it with every log line.
type reporter struct {
	cfg       *config.Config
	log       *logging.Logger
	total     int
	completed atomic.Int64
	stats     RunStats
	plans     []display.PlanRow
}

func newReporter(cfg *config.Config, log *logging.Logger, total int) *reporter {
	r := &reporter{cfg: cfg, log: log, total: total}
	r.stats.Total = total
	if !cfg.NoProgress && term.IsTerminal(os.Stderr) {
		log.SetLineGuard(newProgressBar(os.Stderr, total))
	}
	return r
}

func newProgressBar(w io.Writer, total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("textures"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionEnableColorCodes(term.Enabled()),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}

func (r *reporter) handle(o Outcome) {
	n := r.completed.Add(1)
	prefix := fmt.Sprintf("[%d/%d]", n, r.total)

	switch {
	case o.Skipped:
		r.stats.Skipped++
		r.log.Warn("%s %s skipped (interrupted)", prefix, o.Candidate.Name)

	case o.Err != nil:
		r.stats.Failed++
		r.recordFailure(o)
		r.log.Error("%s %v", prefix, o.Err)
		var te *tools.ToolError
		if errors.As(o.Err, &te) {
			if hint := tools.Hint(te.Stderr); hint != "" {
				r.log.Error("  %s", hint)
			}
		}
		r.log.Info("%s %s finish.", prefix, o.Candidate.Name)

	case r.cfg.DryRun:
		r.stats.Succeeded++
		p := o.Plan
		r.plans = append(r.plans, display.PlanRow{
			File:   o.Candidate.Path,
			Dims:   p.Dims.String(),
			Action: p.Action.String(),
			Output: filepath.Base(p.FinalPath),
		})
		r.log.Success("%s [DRY] %s: would %s → %s", prefix, o.Candidate.Name, p.Action, filepath.Base(p.FinalPath))

	default:
		r.stats.Succeeded++
		r.stats.Converted++
		if o.Plan.Action == planner.ActionUpscaleConvert {
			r.stats.Upscaled++
		}
		r.addSizes(o.Plan)
		r.log.Success("%s %s finish.", prefix, o.Candidate.Name)
		r.log.Debug(r.cfg.Verbose, "  %s in %s", filepath.Base(o.Plan.FinalPath), display.FormatDuration(o.Elapsed))
	}

	r.log.Advance(1)
}

func (r *reporter) recordFailure(o Outcome) {
	row := display.FailureRow{File: o.Candidate.Path, Error: o.Err.Error()}
	var se *StepError
	if errors.As(o.Err, &se) {
		row.Step = string(se.Step)
		row.Error = firstLine(se.Err.Error())
	}
	r.stats.Failures = append(r.stats.Failures, row)
}

func (r *reporter) addSizes(p *planner.FilePlan) {
	if fi, err := os.Stat(p.Source); err == nil {
		r.stats.InputBytes += fi.Size()
	}
	if fi, err := os.Stat(p.FinalPath); err == nil {
		r.stats.OutputBytes += fi.Size()
	}
}

// finish tears down the progress bar and prints the elapsed time, summary
// line and failure or plan table.
func (r *reporter) finish(elapsed time.Duration) RunStats {
	r.log.FinishLineGuard()
	r.stats.Elapsed = elapsed
	s := &r.stats

	r.log.Info("==============================")
	r.log.Info("Elapsed: %s", display.FormatDuration(elapsed))
	r.log.Info("Done: %s succeeded, %s failed, %s skipped (of %s)",
		display.FormatCount(s.Succeeded), display.FormatCount(s.Failed),
		display.FormatCount(s.Skipped), display.FormatCount(s.Total))

	if r.cfg.DryRun {
		if tbl := display.RenderPlan(r.plans); tbl != "" {
			r.log.Info("Plan:\n%s", tbl)
		}
	} else if s.Converted > 0 {
		r.log.Info("Upscaled: %d, converted: %d (input %s → output %s)",
			s.Upscaled, s.Converted,
			display.FormatBytes(s.InputBytes), display.FormatBytes(s.OutputBytes))
	}

	if tbl := display.RenderFailures(s.Failures); tbl != "" {
		r.log.Warn("Failures:\n%s", tbl)
	}
	return *s
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
