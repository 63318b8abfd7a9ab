package tools

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// ToolError reports an external tool that failed to start or exited
// non-zero. Stderr holds the captured diagnostic text.
type ToolError struct {
	Program  string
	Args     []string
	ExitCode int // -1 when the process never started or was killed.
	Stderr   string
	Err      error
}

func (e *ToolError) Error() string {
	name := filepath.Base(e.Program)
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" {
		msg = e.Err.Error()
	}
	if e.ExitCode >= 0 {
		return fmt.Sprintf("%s error (exit %d): %s", name, e.ExitCode, msg)
	}
	return fmt.Sprintf("%s error: %s", name, msg)
}

func (e *ToolError) Unwrap() error { return e.Err }

// Pre-compiled patterns for known tool failures. Checked in order by [Hint];
// the first match wins.
var (
	reNoVulkan = regexp.MustCompile(
		`(?i)vkCreateInstance failed|invalid gpu device|no vulkan|vkEnumeratePhysicalDevices`)

	reOutOfMemory = regexp.MustCompile(
		`(?i)vkAllocateMemory failed|out of (device )?memory|VK_ERROR_OUT_OF_DEVICE_MEMORY`)

	reModelMissing = regexp.MustCompile(
		`(?i)(open|load)(ing)? (param|model).*(fail|error)|\.param.*not found`)

	reDecodeFailed = regexp.MustCompile(
		`(?i)decode image .* failed|unsupported image format|Failed to read file`)

	reConvertFailed = regexp.MustCompile(
		`(?i)FAILED \(|Failed to convert|Invalid input format`)
)

var hints = []struct {
	re   *regexp.Regexp
	text string
}{
	{reNoVulkan, "no usable Vulkan GPU; update GPU drivers or run with -j 1"},
	{reOutOfMemory, "GPU ran out of memory; lower --scale or --workers"},
	{reModelMissing, "upscaler model not found; check --model and the working directory"},
	{reDecodeFailed, "source image could not be decoded by the tool"},
	{reConvertFailed, "converter rejected the input image"},
}

// Hint returns a short suggestion for a known failure pattern in stderr, or
// "" when nothing matches.
func Hint(stderr string) string {
	for _, h := range hints {
		if h.re.MatchString(stderr) {
			return h.text
		}
	}
	return ""
}
