package planner

import (
	"path/filepath"

	"github.com/backmassage/texup/internal/naming"
	"github.com/backmassage/texup/internal/probe"
)

// IsSmall applies the decision rule: an image whose shorter side is at or
// below threshold is upscaled before conversion.
func IsSmall(d probe.Dimensions, threshold int) bool {
	return threshold > 0 && d.Min() <= uint32(threshold)
}

// BuildPlan derives the plan for source with dimensions d. ext is the
// converter's output extension without dot (e.g. "dds").
func BuildPlan(source string, d probe.Dimensions, threshold int, ext string) *FilePlan {
	dir := filepath.Dir(source)
	plan := &FilePlan{
		Dims:      d,
		Source:    source,
		OutputDir: dir,
		FinalPath: naming.FinalPath(source, ext),
	}

	if !IsSmall(d, threshold) {
		plan.Action = ActionConvert
		plan.ConvertInput = source
		plan.Converted = plan.FinalPath
		return plan
	}

	plan.Action = ActionUpscaleConvert
	plan.Intermediate = naming.IntermediatePath(source)
	plan.ConvertInput = plan.Intermediate
	plan.Converted = naming.UpscaledConvertedPath(source, ext)
	return plan
}
