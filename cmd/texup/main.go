// Command texup batch-upscales and converts mod textures: small images are
// upscaled with waifu2x-ncnn-vulkan, then every selected image is converted
// to DDS with texconv.
//
// It loads configuration (defaults, texup.toml, environment, flags), prompts
// for missing run parameters on a terminal, and either runs system
// diagnostics (--check) or the pipeline.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/backmassage/texup/internal/check"
	"github.com/backmassage/texup/internal/config"
	"github.com/backmassage/texup/internal/display"
	"github.com/backmassage/texup/internal/logging"
	"github.com/backmassage/texup/internal/pipeline"
	"github.com/backmassage/texup/internal/term"
	"github.com/backmassage/texup/internal/tools"
)

// version and commit are injected at build time via -ldflags.
var (
	version = "0.1.0"
	commit  = "unknown"
)

// errReported marks a failure that has already been written to the log.
var errReported = errors.New("reported")

func main() {
	if err := newRootCommand().Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "texup: %v\n", err)
		}
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var flags *config.Flags

	cmd := &cobra.Command{
		Use:   "texup [flags] [mod_dir]",
		Short: "Upscale small textures and convert textures to DDS",
		Long: "texup walks a mod directory, upscales textures whose shorter side is at or\n" +
			"below the threshold, and converts every selected texture to DDS next to\n" +
			"the original.",
		Version:       fmt.Sprintf("%s (%s)", version, commit),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.DefaultConfig()
			cfg.ConfigFile = flags.ConfigFile
			if err := config.Load(&cfg); err != nil {
				return err
			}
			if err := flags.Apply(&cfg, cmd.Flags(), args); err != nil {
				return err
			}
			if cfg.TargetDir == "" && !cfg.CheckOnly && term.IsTerminal(os.Stdin) {
				if err := config.Prompt(&cfg, os.Stdin, cmd.OutOrStdout()); err != nil {
					return err
				}
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return run(cmd.Context(), &cfg, cmd.OutOrStdout())
		},
	}
	flags = config.BindFlags(cmd.Flags())
	cmd.MarkFlagsMutuallyExclusive("color", "no-color")
	return cmd
}

// run executes a validated configuration. Per-file failures do not fail the
// run; setup failures are logged and returned as errReported.
func run(ctx context.Context, cfg *config.Config, out io.Writer) error {
	log, err := logging.NewLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Close()

	display.PrintBanner(out)

	if cfg.CheckOnly {
		check.RunCheck(cfg, log)
		return nil
	}

	target, err := targetDir(cfg.TargetDir)
	if err != nil {
		log.Error("%v", err)
		return errReported
	}
	cfg.TargetDir = target

	log.Info("=== texup v%s ===", version)
	log.Info("Mod: %s", cfg.TargetDir)
	if cfg.ConfigLoaded != "" {
		log.Info("Config: %s", cfg.ConfigLoaded)
	}
	log.Debug(cfg.Verbose, "Run ID: %s", log.RunID())

	if !cfg.DryRun {
		if err := check.CheckDeps(cfg); err != nil {
			log.Error("%v", err)
			return errReported
		}
	}

	lock, err := pipeline.AcquireLock(cfg.TargetDir)
	if err != nil {
		log.Error("%v", err)
		return errReported
	}
	defer func() {
		if err := lock.Release(); err != nil {
			log.Warn("Failed to release run lock %s: %v", lock.Path(), err)
		}
	}()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	finished := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			log.Warn("Interrupted, stopping running tools and skipping the rest")
		case <-finished:
		}
	}()

	runner := tools.ExecRunner{Tee: log.ToolOutput(cfg.Verbose)}
	_, err = pipeline.Run(ctx, cfg, log, runner)
	close(finished)

	if removed := pipeline.CleanupToolLogs(cfg.ToolLogDir, cfg.ToolLogGlob); len(removed) > 0 {
		log.Debug(cfg.Verbose, "Removed %d tool log(s)", len(removed))
	}

	if err != nil {
		log.Error("%v", err)
		return errReported
	}
	return nil
}

// targetDir resolves dir to an absolute path and requires it to be an
// existing directory.
func targetDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	fi, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("mod directory not found: %s", dir)
	}
	if !fi.IsDir() {
		return "", fmt.Errorf("not a directory: %s", dir)
	}
	return abs, nil
}
