package tools

import (
	"strconv"
)

// UpscaleOptions are the fixed per-run upscaler settings.
type UpscaleOptions struct {
	Noise int
	Scale int
	Model string
}

// UpscaleArgs builds the upscaler argument vector.
func UpscaleArgs(input, output string, opt UpscaleOptions) []string {
	return []string{
		"-i", input,
		"-o", output,
		"-n", strconv.Itoa(opt.Noise),
		"-s", strconv.Itoa(opt.Scale),
		"-m", opt.Model,
	}
}

// ConvertArgs builds the converter argument vector: overwrite mode, output
// into outputDir.
func ConvertArgs(input, outputDir string) []string {
	return []string{"-y", "-o", outputDir, input}
}
