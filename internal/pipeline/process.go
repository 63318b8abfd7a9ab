package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/backmassage/texup/internal/config"
	"github.com/backmassage/texup/internal/logging"
	"github.com/backmassage/texup/internal/naming"
	"github.com/backmassage/texup/internal/planner"
	"github.com/backmassage/texup/internal/probe"
	"github.com/backmassage/texup/internal/tools"
)

// ErrAlreadyConverted is returned for a candidate that already carries the
// converted extension; no tool is run for it.
var ErrAlreadyConverted = errors.New("source already has the converted extension")

// Step names the pipeline step a per-file failure happened in.
type Step string

const (
	StepPlan    Step = "plan"
	StepInspect Step = "inspect"
	StepUpscale Step = "upscale"
	StepConvert Step = "convert"
	StepRename  Step = "rename"
	StepCleanup Step = "cleanup"
)

// StepError wraps every per-file failure with the file and step it came from.
type StepError struct {
	File string
	Step Step
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %s failed: %v", e.File, e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// Stage is a transition of the per-image state machine. Small images go
// Inspected → Upscaling → Upscaled → Converting → Converted → Renamed →
// CleanedUp; large images skip the upscale and rename stages.
type Stage int

const (
	StageInspected Stage = iota
	StageUpscaling
	StageUpscaled
	StageUpscaleFailed
	StageConverting
	StageConverted
	StageConvertFailed
	StageRenamed
	StageCleanedUp
)

var stageNames = [...]string{
	StageInspected:     "inspected",
	StageUpscaling:     "upscaling",
	StageUpscaled:      "upscaled",
	StageUpscaleFailed: "upscale-failed",
	StageConverting:    "converting",
	StageConverted:     "converted",
	StageConvertFailed: "convert-failed",
	StageRenamed:       "renamed",
	StageCleanedUp:     "cleaned-up",
}

func (s Stage) String() string {
	if s >= 0 && int(s) < len(stageNames) {
		return stageNames[s]
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// Observer receives every stage transition, on the worker goroutine that
// processes c.
type Observer func(c Candidate, s Stage)

// Outcome is the result of processing one candidate.
type Outcome struct {
	Candidate Candidate
	Plan      *planner.FilePlan // nil when the image could not be inspected
	Skipped   bool              // Interrupted before the candidate started.
	Elapsed   time.Duration
	Err       error // *StepError, nil on success
}

// Processor runs the per-image pipeline. It is safe for concurrent use; the
// config is treated as read-only.
type Processor struct {
	cfg     *config.Config
	runner  tools.Runner
	log     *logging.Logger
	observe Observer
}

// NewProcessor returns a Processor that runs external tools through runner.
func NewProcessor(cfg *config.Config, runner tools.Runner, log *logging.Logger) *Processor {
	return &Processor{cfg: cfg, runner: runner, log: log}
}

// SetObserver installs fn to receive stage transitions. Call before
// processing starts.
func (p *Processor) SetObserver(fn Observer) {
	p.observe = fn
}

func (p *Processor) emit(c Candidate, s Stage) {
	if p.observe != nil {
		p.observe(c, s)
	}
}

// Process runs inspect → plan → [upscale] → convert → [rename → cleanup]
// for c. No step is retried. The source image is never modified. In dry-run
// mode only inspect and plan run.
func (p *Processor) Process(ctx context.Context, c Candidate) (out Outcome) {
	start := time.Now()
	out.Candidate = c
	defer func() { out.Elapsed = time.Since(start) }()

	fail := func(step Step, err error) Outcome {
		out.Err = &StepError{File: c.Name, Step: step, Err: err}
		return out
	}

	if naming.HasExt(c.Path, p.cfg.ConvertedExt) {
		return fail(StepPlan, ErrAlreadyConverted)
	}

	dims, err := probe.Probe(c.Path)
	if err != nil {
		return fail(StepInspect, err)
	}
	p.emit(c, StageInspected)

	plan := planner.BuildPlan(c.Path, dims, p.cfg.Threshold, p.cfg.ConvertedExt)
	out.Plan = plan
	p.log.Debug(p.cfg.Verbose, "%s: %s → %s (%s)", c.Name, dims, plan.Action, plan.FinalPath)

	if p.cfg.DryRun {
		return out
	}

	if plan.Action == planner.ActionUpscaleConvert {
		p.emit(c, StageUpscaling)
		args := tools.UpscaleArgs(plan.Source, plan.Intermediate, tools.UpscaleOptions{
			Noise: p.cfg.NoiseLevel,
			Scale: p.cfg.UpscaleFactor,
			Model: p.cfg.Model,
		})
		if err := p.runner.Run(ctx, p.cfg.UpscalerBin, args...); err != nil {
			p.emit(c, StageUpscaleFailed)
			return fail(StepUpscale, err)
		}
		p.emit(c, StageUpscaled)
	}

	p.emit(c, StageConverting)
	if err := p.runner.Run(ctx, p.cfg.ConverterBin, tools.ConvertArgs(plan.ConvertInput, plan.OutputDir)...); err != nil {
		p.emit(c, StageConvertFailed)
		return fail(StepConvert, err)
	}
	p.emit(c, StageConverted)

	if !plan.NeedsRename() {
		return out
	}

	if err := os.Rename(plan.Converted, plan.FinalPath); err != nil {
		return fail(StepRename, err)
	}
	p.emit(c, StageRenamed)

	// The result is already in place; a failed removal still fails the file.
	if err := os.Remove(plan.Intermediate); err != nil {
		return fail(StepCleanup, err)
	}
	p.emit(c, StageCleanedUp)
	return out
}
