package naming

import (
	"path/filepath"
	"strings"
)

// IntermediateSuffix is appended to a source's full file name to name the
// upscaled-but-not-yet-converted image.
const IntermediateSuffix = ".upscaled.png"

// IntermediatePath returns the upscaler output path for source, alongside it.
func IntermediatePath(source string) string {
	return source + IntermediateSuffix
}

// ConvertedPath returns the file the converter writes for input into
// outputDir: the input's base name with its last extension replaced by ext
// (without dot).
func ConvertedPath(input, outputDir, ext string) string {
	base := filepath.Base(input)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(outputDir, stem+"."+ext)
}

// FinalPath returns where the processed result for source ends up: same
// directory, source stem, converted extension.
func FinalPath(source, ext string) string {
	return ConvertedPath(source, filepath.Dir(source), ext)
}

// UpscaledConvertedPath returns where the converter writes the upscaled
// image for source before it is renamed to [FinalPath].
func UpscaledConvertedPath(source, ext string) string {
	return ConvertedPath(IntermediatePath(source), filepath.Dir(source), ext)
}

// sourceExts are the extensions an upscaler input can carry.
var sourceExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".bmp": true,
	".gif": true, ".tif": true, ".tiff": true, ".webp": true,
}

// IsIntermediate reports whether path has the shape [IntermediatePath]
// produces: <name>.<image ext>.upscaled.png. A texture merely called
// hair.upscaled.png is not an intermediate.
func IsIntermediate(path string) bool {
	base := filepath.Base(path)
	if !strings.HasSuffix(base, IntermediateSuffix) {
		return false
	}
	src := strings.TrimSuffix(base, IntermediateSuffix)
	ext := filepath.Ext(src)
	return len(src) > len(ext) && sourceExts[strings.ToLower(ext)]
}

// HasExt reports whether path already carries ext (case-insensitive, ext
// without dot).
func HasExt(path, ext string) bool {
	return strings.EqualFold(strings.TrimPrefix(filepath.Ext(path), "."), ext)
}
