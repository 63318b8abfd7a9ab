package config

// This file binds CLI flags to a Flags holder. Values are copied into Config
// by Apply only for flags the user actually set, so that the config file and
// environment (loaded after parsing) don't clobber explicit flags and flag
// defaults don't clobber the config file.

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

// Flags holds raw CLI flag values between parsing and [Flags.Apply].
type Flags struct {
	threshold  int
	scale      int
	workers    int
	noise      int
	upscaler   string
	converter  string
	model      string
	logFile    string
	include    []string
	exclude    []string
	dryRun     bool
	check      bool
	verbose    bool
	forceColor bool
	noColor    bool
	noProgress bool

	// ConfigFile is read before Apply so the file can be loaded first.
	ConfigFile string
}

// BindFlags registers every texup flag on fs. Defaults shown in help come
// from DefaultConfig.
func BindFlags(fs *pflag.FlagSet) *Flags {
	def := DefaultConfig()
	f := &Flags{
		threshold: def.Threshold,
		scale:     def.UpscaleFactor,
	}

	// Run parameters.
	fs.VarP(&enumIntValue{p: &f.threshold, set: Thresholds, name: "threshold"}, "threshold", "t",
		"Upscale only if the shorter side is at or below this size ("+joinInts(Thresholds)+")")
	fs.VarP(&enumIntValue{p: &f.scale, set: ScaleFactors, name: "scale factor"}, "scale", "s",
		"Upscale factor ("+joinInts(ScaleFactors)+")")
	fs.IntVarP(&f.workers, "workers", "j", def.Workers, "Parallel workers")

	// Tools.
	fs.StringVar(&f.upscaler, "upscaler", def.UpscalerBin, "Path to the upscaler binary")
	fs.StringVar(&f.converter, "converter", def.ConverterBin, "Path to the texture converter binary")
	fs.StringVar(&f.model, "model", def.Model, "Upscaler model directory")
	fs.IntVar(&f.noise, "noise", def.NoiseLevel, "Upscaler noise-reduction level (-1..3)")

	// Selection.
	fs.StringSliceVar(&f.include, "include", def.IncludeGlobs, "Include glob, relative to the mod directory (repeatable)")
	fs.StringSliceVar(&f.exclude, "exclude", def.ExcludeGlobs, "Exclude glob, relative to the mod directory (repeatable)")

	// Behavior, display and utility.
	fs.BoolVarP(&f.dryRun, "dry-run", "d", false, "Inspect and plan only; run no tools")
	fs.BoolVarP(&f.check, "check", "c", false, "Check that the external tools are available and exit")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "Verbose output (tee tool stderr)")
	fs.BoolVar(&f.forceColor, "color", false, "Force colored logs")
	fs.BoolVar(&f.noColor, "no-color", false, "Disable colored logs")
	fs.BoolVar(&f.noProgress, "no-progress", false, "Disable the progress bar")
	fs.StringVarP(&f.logFile, "log", "l", "", "Append logs to file")
	fs.StringVar(&f.ConfigFile, "config", "", "Config file (default: ./"+DefaultConfigName+" when present)")
	return f
}

// Apply copies every flag the user set on fs into cfg, plus the positional
// mod directory when given.
func (f *Flags) Apply(cfg *Config, fs *pflag.FlagSet, args []string) error {
	changed := fs.Changed
	if changed("threshold") {
		cfg.Threshold = f.threshold
	}
	if changed("scale") {
		cfg.UpscaleFactor = f.scale
	}
	if changed("workers") {
		cfg.Workers = f.workers
	}
	if changed("upscaler") {
		cfg.UpscalerBin = f.upscaler
	}
	if changed("converter") {
		cfg.ConverterBin = f.converter
	}
	if changed("model") {
		cfg.Model = f.model
	}
	if changed("noise") {
		cfg.NoiseLevel = f.noise
	}
	if changed("include") {
		cfg.IncludeGlobs = f.include
	}
	if changed("exclude") {
		cfg.ExcludeGlobs = f.exclude
	}
	if changed("log") {
		cfg.LogFile = f.logFile
	}
	if f.dryRun {
		cfg.DryRun = true
	}
	if f.check {
		cfg.CheckOnly = true
	}
	if f.verbose {
		cfg.Verbose = true
	}
	if f.noProgress {
		cfg.NoProgress = true
	}
	if f.noColor {
		cfg.ColorMode = ColorNever
	} else if f.forceColor {
		cfg.ColorMode = ColorAlways
	}
	cfg.ConfigFile = f.ConfigFile

	switch len(args) {
	case 0:
	case 1:
		cfg.TargetDir = NormalizeDirArg(args[0])
	default:
		return fmt.Errorf("need at most one mod directory (got %d)", len(args))
	}
	return nil
}

// enumIntValue is a pflag.Value adapter restricting an int flag to a fixed set.
type enumIntValue struct {
	p    *int
	set  []int
	name string
}

func (e *enumIntValue) String() string { return strconv.Itoa(*e.p) }
func (e *enumIntValue) Type() string   { return "int" }
func (e *enumIntValue) Set(s string) error {
	n, err := ParseEnumInt(s, e.set, e.name)
	if err != nil {
		return err
	}
	*e.p = n
	return nil
}

// ParseEnumInt parses s as an int that must be one of set. name is used in
// the error message.
func ParseEnumInt(s string, set []int, name string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%s must be a whole number (got %q)", name, s)
	}
	if !containsInt(set, n) {
		return 0, fmt.Errorf("invalid %s %d (use one of %s)", name, n, joinInts(set))
	}
	return n, nil
}
