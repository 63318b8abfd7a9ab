package pipeline

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/backmassage/texup/internal/naming"
)

// Candidate is one selected image: its path (rooted like the walk root) and
// base file name.
type Candidate struct {
	Path string
	Name string
}

// Discover walks root and returns every regular file whose slash-separated
// path relative to root matches at least one include pattern and no exclude
// pattern, sorted by path. Intermediates left by an interrupted run are
// never selected. Unreadable entries and broken symlinks are
// skipped silently; directory symlinks are not followed. Only an unreadable
// root is an error.
func Discover(root string, include, exclude []string) ([]Candidate, error) {
	var out []Candidate
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if d.IsDir() || naming.IsIntermediate(path) {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if !matchAny(include, rel) || matchAny(exclude, rel) {
			return nil
		}
		if !isRegular(path, d) {
			return nil
		}
		out = append(out, Candidate{Path: path, Name: d.Name()})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

// matchAny reports whether rel matches one of patterns. Patterns are
// validated at config time, so match errors are treated as no match.
func matchAny(patterns []string, rel string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

// isRegular follows symlinks for the type check only.
func isRegular(path string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}
