package planner

import "github.com/backmassage/texup/internal/probe"

// Action describes the per-file processing decision.
type Action int

const (
	ActionConvert        Action = iota // Large: convert only.
	ActionUpscaleConvert               // Small: upscale, convert, rename, clean up.
)

func (a Action) String() string {
	switch a {
	case ActionConvert:
		return "convert"
	case ActionUpscaleConvert:
		return "upscale+convert"
	default:
		return "unknown"
	}
}

// FilePlan holds every path one image's pipeline reads or writes. Built by
// BuildPlan and consumed by the pipeline.
type FilePlan struct {
	Action Action
	Dims   probe.Dimensions

	Source       string // Original image; never modified.
	Intermediate string // Upscaler output (small only).
	ConvertInput string // Source (large) or Intermediate (small).
	OutputDir    string // Converter output directory (source's directory).
	Converted    string // File the converter writes.
	FinalPath    string // Where the result must end up.
}

// NeedsRename reports whether the converter output must be moved to
// FinalPath (small files only).
func (p *FilePlan) NeedsRename() bool {
	return p.Converted != p.FinalPath
}
