package config

// This file loads the optional TOML config file and environment overrides.
// Only keys present in the file are applied, so DefaultConfig values hold
// for anything the file leaves out.

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// DefaultConfigName is the config file picked up from the working directory
// when --config is not given.
const DefaultConfigName = "texup.toml"

// DefaultEnvFile is the dotenv file loaded (when present) before environment
// overrides are read.
const DefaultEnvFile = ".env"

// Environment variables that override tool settings.
const (
	EnvUpscaler  = "TEXUP_UPSCALER"
	EnvConverter = "TEXUP_CONVERTER"
	EnvModel     = "TEXUP_MODEL"
	EnvWorkers   = "TEXUP_WORKERS"
)

// fileConfig mirrors the TOML layout. Pointer fields distinguish "absent"
// from "zero" so defaults survive partial files.
type fileConfig struct {
	Threshold    *int     `toml:"threshold"`
	Scale        *int     `toml:"scale"`
	Workers      *int     `toml:"workers"`
	Upscaler     *string  `toml:"upscaler"`
	Converter    *string  `toml:"converter"`
	Model        *string  `toml:"model"`
	Noise        *int     `toml:"noise"`
	Include      []string `toml:"include"`
	Exclude      []string `toml:"exclude"`
	ToolLogGlob  *string  `toml:"tool_log_glob"`
	LogFile      *string  `toml:"log_file"`
	Color        *string  `toml:"color"`
	ShowProgress *bool    `toml:"progress"`
}

// Load applies the config file (explicit cfg.ConfigFile, or DefaultConfigName
// when present) and then environment overrides onto cfg.
func Load(cfg *Config) error {
	if err := LoadFile(cfg, cfg.ConfigFile); err != nil {
		return err
	}
	return ApplyEnv(cfg, DefaultEnvFile)
}

// LoadFile decodes a TOML config file into cfg. An empty path falls back to
// DefaultConfigName, which may be absent; an explicit path must exist.
// Unknown keys are rejected so typos don't silently fall back to defaults.
func LoadFile(cfg *Config, path string) error {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigName
	}

	file, err := os.Open(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var fc fileConfig
	decoder := toml.NewDecoder(file)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&fc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	fc.apply(cfg)
	cfg.ConfigLoaded = path
	return nil
}

func (fc *fileConfig) apply(cfg *Config) {
	if fc.Threshold != nil {
		cfg.Threshold = *fc.Threshold
	}
	if fc.Scale != nil {
		cfg.UpscaleFactor = *fc.Scale
	}
	if fc.Workers != nil {
		cfg.Workers = *fc.Workers
	}
	if fc.Upscaler != nil {
		cfg.UpscalerBin = *fc.Upscaler
	}
	if fc.Converter != nil {
		cfg.ConverterBin = *fc.Converter
	}
	if fc.Model != nil {
		cfg.Model = *fc.Model
	}
	if fc.Noise != nil {
		cfg.NoiseLevel = *fc.Noise
	}
	if len(fc.Include) > 0 {
		cfg.IncludeGlobs = fc.Include
	}
	if fc.Exclude != nil {
		cfg.ExcludeGlobs = fc.Exclude
	}
	if fc.ToolLogGlob != nil {
		cfg.ToolLogGlob = *fc.ToolLogGlob
	}
	if fc.LogFile != nil {
		cfg.LogFile = *fc.LogFile
	}
	if fc.Color != nil {
		cfg.ColorMode = ColorMode(strings.ToLower(*fc.Color))
	}
	if fc.ShowProgress != nil {
		cfg.NoProgress = !*fc.ShowProgress
	}
}

// ApplyEnv loads envFile (if it exists) into the process environment without
// overriding variables that are already set, then applies TEXUP_* overrides.
func ApplyEnv(cfg *Config, envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	if v := strings.TrimSpace(os.Getenv(EnvUpscaler)); v != "" {
		cfg.UpscalerBin = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvConverter)); v != "" {
		cfg.ConverterBin = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvModel)); v != "" {
		cfg.Model = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvWorkers)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s must be a whole number (got %q)", EnvWorkers, v)
		}
		cfg.Workers = n
	}
	return nil
}
