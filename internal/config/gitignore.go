package config

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// IgnoreMatcher evaluates .gitignore-style patterns against paths relative
// to a root. Later patterns override earlier ones, matching git semantics
// for negation.
type IgnoreMatcher struct {
	patterns []ignorePattern
}

type ignorePattern struct {
	glob     string
	negate   bool
	dirOnly  bool
	anchored bool
}

// NewIgnoreMatcher creates an empty matcher.
func NewIgnoreMatcher() *IgnoreMatcher {
	return &IgnoreMatcher{}
}

// LoadGitignore loads patterns from the .gitignore file at root, if present.
// A missing file is fine.
func (m *IgnoreMatcher) LoadGitignore(root string) error {
	file, err := os.Open(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		m.AddPattern(strings.TrimSpace(scanner.Text()))
	}
	return scanner.Err()
}

// AddPattern adds a single gitignore pattern line. Blank lines and comments
// are ignored.
func (m *IgnoreMatcher) AddPattern(line string) {
	if line == "" || strings.HasPrefix(line, "#") {
		return
	}

	p := ignorePattern{}
	if strings.HasPrefix(line, "!") {
		p.negate = true
		line = line[1:]
	}
	if strings.HasSuffix(line, "/") {
		p.dirOnly = true
		line = strings.TrimSuffix(line, "/")
	}
	if strings.HasPrefix(line, "/") {
		p.anchored = true
		line = line[1:]
	} else if strings.Contains(line, "/") {
		// Patterns with an interior slash are anchored to the root per git
		p.anchored = true
	}
	p.glob = line

	m.patterns = append(m.patterns, p)
}

// Len returns the number of loaded patterns.
func (m *IgnoreMatcher) Len() int {
	return len(m.patterns)
}

// ShouldIgnore reports whether the relative path (forward slashes) is
// excluded by the loaded patterns.
func (m *IgnoreMatcher) ShouldIgnore(path string, isDir bool) bool {
	path = filepath.ToSlash(path)

	ignored := false
	for _, p := range m.patterns {
		if m.matches(p, path, isDir) {
			ignored = !p.negate
		}
	}
	return ignored
}

func (m *IgnoreMatcher) matches(p ignorePattern, path string, isDir bool) bool {
	if p.dirOnly {
		// A directory pattern matches the directory itself and everything
		// under it.
		if isDir && m.matchGlob(p, path) {
			return true
		}
		for _, ancestor := range ancestors(path) {
			if m.matchGlob(p, ancestor) {
				return true
			}
		}
		return false
	}
	if m.matchGlob(p, path) {
		return true
	}
	// A bare-name pattern also excludes whole subtrees rooted at a matching
	// directory (git matches "build" against build/any/file).
	for _, ancestor := range ancestors(path) {
		if m.matchGlob(p, ancestor) {
			return true
		}
	}
	return false
}

func (m *IgnoreMatcher) matchGlob(p ignorePattern, path string) bool {
	if ok, err := doublestar.Match(p.glob, path); err == nil && ok {
		return true
	}
	if !p.anchored {
		// Unanchored patterns match at any depth
		if ok, err := doublestar.Match("**/"+p.glob, path); err == nil && ok {
			return true
		}
	}
	return false
}

// ancestors returns every proper directory prefix of path, shallowest first.
func ancestors(path string) []string {
	var out []string
	for i, r := range path {
		if r == '/' {
			out = append(out, path[:i])
		}
	}
	return out
}
