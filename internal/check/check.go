// Package check provides system diagnostics (--check mode) and pre-pipeline
// dependency validation (CheckDeps) for the upscaler and converter binaries.
package check

import (
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/backmassage/texup/internal/config"
)

// Sentinel errors returned by CheckDeps when a required tool is missing.
var (
	ErrUpscalerNotFound  = errors.New("upscaler not found")
	ErrConverterNotFound = errors.New("converter not found")
)

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(bool, string, ...interface{})
}

// RunCheck runs the --check flow: reports where the upscaler and converter
// resolve and the effective settings. Informational only.
func RunCheck(cfg *config.Config, log Logger) {
	log.Info("=== System Check ===")
	log.Info("Platform: %s/%s", runtime.GOOS, runtime.GOARCH)
	if cfg.ConfigLoaded != "" {
		log.Info("Config file: %s", cfg.ConfigLoaded)
	}

	checkTool(log, "Upscaler", cfg.UpscalerBin)
	checkTool(log, "Converter", cfg.ConverterBin)

	log.Info("Model: %s (noise %d)", cfg.Model, cfg.NoiseLevel)
	log.Info("Threshold: %d, scale: %dx, workers: %d", cfg.Threshold, cfg.UpscaleFactor, cfg.Workers)
	log.Debug(cfg.Verbose, "Include: %v", cfg.IncludeGlobs)
	log.Debug(cfg.Verbose, "Exclude: %v", cfg.ExcludeGlobs)
}

func checkTool(log Logger, label, bin string) {
	path, err := Resolve(bin)
	if err != nil {
		log.Error("%s not found: %s", label, bin)
		return
	}
	log.Success("%s: %s", label, path)
}

// Resolve returns the absolute path bin runs as. Names containing a path
// separator (e.g. "./texconv") are resolved against the working directory;
// bare names are looked up on PATH.
func Resolve(bin string) (string, error) {
	path, err := exec.LookPath(bin)
	if err != nil {
		return "", err
	}
	return filepath.Abs(path)
}

// CheckDeps is the pre-pipeline validation: both tools must resolve to an
// executable. Returns a wrapped sentinel error on failure.
func CheckDeps(cfg *config.Config) error {
	if _, err := Resolve(cfg.UpscalerBin); err != nil {
		return fmt.Errorf("%w: %s", ErrUpscalerNotFound, cfg.UpscalerBin)
	}
	if _, err := Resolve(cfg.ConverterBin); err != nil {
		return fmt.Errorf("%w: %s", ErrConverterNotFound, cfg.ConverterBin)
	}
	return nil
}
