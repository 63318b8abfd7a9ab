// Package config holds runtime configuration: defaults, config file and
// environment loading, CLI flag binding, and validation. Defaults match the
// original batch tool (waifu2x + texconv, anime-style model, noise level 1).
package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// --- Enumerated run parameters ---

// Thresholds lists the accepted dimension thresholds. An image whose shorter
// side is at or below the threshold is upscaled before conversion.
var Thresholds = []int{64, 128, 256, 512, 1024, 2048, 4096}

// ScaleFactors lists the accepted upscale factors.
var ScaleFactors = []int{2, 4, 8, 16, 32}

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Config holds all runtime settings. It is populated by [DefaultConfig], then
// overlaid by the config file, the environment and CLI flags, and is treated
// as read-only once the pipeline starts.
type Config struct {
	// Target mod/content directory (positional arg or prompt).
	TargetDir string

	// Run parameters.
	Threshold     int // Default: 128. One of Thresholds.
	UpscaleFactor int // Default: 2. One of ScaleFactors.
	Workers       int // Default: runtime.NumCPU().

	// External tools.
	UpscalerBin  string // Default: "./waifu2x-ncnn-vulkan" (+".exe" on Windows).
	ConverterBin string // Default: "./texconv" (+".exe" on Windows).
	NoiseLevel   int    // Fixed default: 1.
	Model        string // Fixed default: "models-upconv_7_anime_style_art_rgb".
	ConvertedExt string // Fixed: "dds". Extension the converter writes.
	ToolLogGlob  string // Default: "waifu2x-ncnn-vulkan.*.log".
	ToolLogDir   string // Default: "." (working directory).

	// Selector patterns (doublestar syntax, matched against slash-separated
	// paths relative to TargetDir).
	IncludeGlobs []string
	ExcludeGlobs []string

	// Config sources.
	ConfigFile   string // Optional TOML file path (--config).
	ConfigLoaded string // Path of the config file actually loaded, if any.

	// Behavior flags.
	DryRun bool

	// Display and logging.
	Verbose    bool
	ColorMode  ColorMode // Default: "auto".
	LogFile    string    // Optional log file path.
	NoProgress bool
	CheckOnly  bool // Run --check diagnostics and exit.
}

// DefaultConfig returns a Config with the defaults of the original tool.
func DefaultConfig() Config {
	return Config{
		Threshold:     128,
		UpscaleFactor: 2,
		Workers:       runtime.NumCPU(),
		UpscalerBin:   toolPath("waifu2x-ncnn-vulkan"),
		ConverterBin:  toolPath("texconv"),
		NoiseLevel:    1,
		Model:         "models-upconv_7_anime_style_art_rgb",
		ConvertedExt:  "dds",
		ToolLogGlob:   "waifu2x-ncnn-vulkan.*.log",
		ToolLogDir:    ".",
		IncludeGlobs:  []string{"**/Textures/**/*.{png,jpg}"},
		ExcludeGlobs:  []string{"**/UI/**"},
		ColorMode:     ColorAuto,
	}
}

// toolPath returns the default relative path of a bundled tool binary.
func toolPath(name string) string {
	if runtime.GOOS == "windows" {
		return "./" + name + ".exe"
	}
	return "./" + name
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// Validate checks enumerated run parameters, tool settings and glob syntax.
// When not in CheckOnly mode it also requires a target directory.
func (c *Config) Validate() error {
	if !containsInt(Thresholds, c.Threshold) {
		return fmt.Errorf("invalid threshold %d (use one of %s)", c.Threshold, joinInts(Thresholds))
	}
	if !containsInt(ScaleFactors, c.UpscaleFactor) {
		return fmt.Errorf("invalid scale factor %d (use one of %s)", c.UpscaleFactor, joinInts(ScaleFactors))
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1 (got %d)", c.Workers)
	}
	if c.NoiseLevel < -1 || c.NoiseLevel > 3 {
		return fmt.Errorf("invalid noise level %d (use -1..3)", c.NoiseLevel)
	}

	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}

	if strings.TrimSpace(c.UpscalerBin) == "" {
		return errors.New("upscaler path must not be empty")
	}
	if strings.TrimSpace(c.ConverterBin) == "" {
		return errors.New("converter path must not be empty")
	}
	if strings.TrimSpace(c.Model) == "" {
		return errors.New("upscaler model must not be empty")
	}
	c.ConvertedExt = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(c.ConvertedExt)), ".")
	if c.ConvertedExt == "" {
		return errors.New("converted extension must not be empty")
	}

	if len(c.IncludeGlobs) == 0 {
		return errors.New("at least one include pattern is required")
	}
	for _, p := range append(append([]string{}, c.IncludeGlobs...), c.ExcludeGlobs...) {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid glob pattern %q", p)
		}
	}

	if c.CheckOnly {
		return nil
	}
	if c.TargetDir == "" {
		return errors.New("need a mod directory")
	}
	return nil
}

func containsInt(set []int, v int) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func joinInts(vals []int) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, ", ")
}
