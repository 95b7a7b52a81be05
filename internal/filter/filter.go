// Package filter decides which paths of a commit take part in an analysis.
package filter

import (
	"path"
	"strings"

	"github.com/masmgr/truckfactor-go/internal/git"
)

// DefaultIgnorableExtensions are metadata and documentation formats that do
// not count as authored source.
var DefaultIgnorableExtensions = []string{"json", "md"}

// Filter selects the valid files of a commit.
// The zero value keeps every path whose base name has an extension.
type Filter struct {
	ignorable map[string]struct{}
}

// New creates a filter that additionally drops the given extensions.
// Extensions are matched case-insensitively, with or without a leading dot.
func New(ignorable []string) *Filter {
	f := &Filter{ignorable: make(map[string]struct{}, len(ignorable))}
	for _, ext := range ignorable {
		ext = normalizeExt(ext)
		if ext != "" {
			f.ignorable[ext] = struct{}{}
		}
	}
	return f
}

// IsValid reports whether a single path passes the filter.
func (f *Filter) IsValid(p string) bool {
	ext, ok := Extension(p)
	if !ok {
		return false
	}
	if f == nil || len(f.ignorable) == 0 {
		return true
	}
	_, ignored := f.ignorable[normalizeExt(ext)]
	return !ignored
}

// ValidFiles returns the distinct valid paths of a commit in the order git
// reported them. An empty result means the commit must be skipped.
func (f *Filter) ValidFiles(cs git.CommitChangeSet) []string {
	seen := make(map[string]struct{}, len(cs.Changes))
	files := make([]string, 0, len(cs.Changes))
	for _, p := range cs.Paths() {
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		if f.IsValid(p) {
			files = append(files, p)
		}
	}
	return files
}

// Extension returns the text after the last dot of the base name.
// ok is false when the base name has no dot.
func Extension(p string) (ext string, ok bool) {
	base := path.Base(strings.ReplaceAll(p, "\\", "/"))
	idx := strings.LastIndexByte(base, '.')
	if idx == -1 {
		return "", false
	}
	return base[idx+1:], true
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}
