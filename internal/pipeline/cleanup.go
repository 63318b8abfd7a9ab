package pipeline

import (
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// CleanupToolLogs removes files in dir matching pattern (the upscaler's
// per-run logs). Best-effort: removal errors are ignored. Returns the
// removed paths.
func CleanupToolLogs(dir, pattern string) []string {
	if pattern == "" {
		return nil
	}
	matches, err := doublestar.FilepathGlob(filepath.Join(dir, pattern))
	if err != nil {
		return nil
	}
	var removed []string
	for _, m := range matches {
		fi, err := os.Lstat(m)
		if err != nil || !fi.Mode().IsRegular() {
			continue
		}
		if os.Remove(m) == nil {
			removed = append(removed, m)
		}
	}
	return removed
}
