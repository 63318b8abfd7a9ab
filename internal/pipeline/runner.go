package pipeline

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/backmassage/texup/internal/config"
	"github.com/backmassage/texup/internal/logging"
	"github.com/backmassage/texup/internal/naming"
	"github.com/backmassage/texup/internal/tools"
)

// Run is the top-level batch entry point. It selects candidates under
// cfg.TargetDir, claims each final output path, processes the candidates on
// a pool of cfg.Workers goroutines and returns aggregate stats. Per-file
// failures are reported and counted, never returned; the error is non-nil
// only when the target directory cannot be walked.
//
// Cancelling ctx stops dispatch: candidates not yet started are reported as
// skipped and running tools are killed.
func Run(ctx context.Context, cfg *config.Config, log *logging.Logger, runner tools.Runner) (RunStats, error) {
	return run(ctx, cfg, log, NewProcessor(cfg, runner, log))
}

func run(ctx context.Context, cfg *config.Config, log *logging.Logger, proc *Processor) (RunStats, error) {
	start := time.Now()

	candidates, err := Discover(cfg.TargetDir, cfg.IncludeGlobs, cfg.ExcludeGlobs)
	if err != nil {
		return RunStats{}, fmt.Errorf("select candidates: %w", err)
	}

	logBatchHeader(cfg, log, len(candidates))
	if len(candidates) == 0 {
		log.Warn("No matching images under %s", cfg.TargetDir)
		return RunStats{}, nil
	}

	if proc.observe == nil {
		proc.SetObserver(func(c Candidate, s Stage) {
			log.Debug(cfg.Verbose, "%s: %s", c.Name, s)
		})
	}

	rep := newReporter(cfg, log, len(candidates))
	outcomes := make(chan Outcome)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for o := range outcomes {
			rep.handle(o)
		}
	}()

	resolver := naming.NewCollisionResolver()
	var g errgroup.Group
	g.SetLimit(cfg.Workers)

	for _, c := range candidates {
		if err := claim(resolver, cfg, c); err != nil {
			outcomes <- Outcome{Candidate: c, Err: err}
			continue
		}

		g.Go(func() error {
			if ctx.Err() != nil {
				outcomes <- Outcome{Candidate: c, Skipped: true}
				return nil
			}
			outcomes <- proc.Process(ctx, c)
			return nil
		})
	}

	_ = g.Wait()
	close(outcomes)
	<-done

	return rep.finish(time.Since(start)), nil
}

// claim registers every path c may write: its final output and the
// converted upscale that is renamed onto it. The size is not known yet, so
// the second path is claimed even for images that end up convert-only.
// Candidates already carrying the converted extension are rejected later by
// the Processor and claim nothing.
func claim(resolver *naming.CollisionResolver, cfg *config.Config, c Candidate) error {
	if naming.HasExt(c.Path, cfg.ConvertedExt) {
		return nil
	}
	ext := cfg.ConvertedExt
	if err := resolver.Claim(c.Path, naming.FinalPath(c.Path, ext), naming.UpscaledConvertedPath(c.Path, ext)); err != nil {
		return &StepError{File: c.Name, Step: StepPlan, Err: err}
	}
	return nil
}

func logBatchHeader(cfg *config.Config, log *logging.Logger, total int) {
	log.Info("Found %d images", total)
	log.Info("Threshold: %d px (shorter side), upscale factor: %dx", cfg.Threshold, cfg.UpscaleFactor)
	log.Info("Workers: %d", cfg.Workers)
	log.Debug(cfg.Verbose, "Upscaler: %s (model %s, noise %d)", cfg.UpscalerBin, cfg.Model, cfg.NoiseLevel)
	log.Debug(cfg.Verbose, "Converter: %s → .%s", cfg.ConverterBin, cfg.ConvertedExt)
	if cfg.DryRun {
		log.Warn("DRY RUN: no tool will be run")
	}
}
