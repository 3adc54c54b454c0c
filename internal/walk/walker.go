// Package walk discovers the text files under a root, filtering out
// ignored, hidden, oversized, and binary entries before indexing or
// scanning ever sees them.
package walk

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/bitglade/seekr/internal/config"
	"github.com/bitglade/seekr/internal/debug"
)

// Options control a filesystem walk.
type Options struct {
	Hidden   bool // include dotfiles and dot-directories
	NoIgnore bool // skip .gitignore processing
	Follow   bool // follow symlinked directories (with cycle detection)

	// Include/Exclude are doublestar globs applied to root-relative paths.
	// An empty Include list means "everything".
	Include []string
	Exclude []string

	// MaxFileSize skips files above this size when > 0.
	MaxFileSize int64
}

// OptionsFromConfig builds walk options from the loaded configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		NoIgnore:    !cfg.Index.RespectGitignore,
		Include:     cfg.Include,
		Exclude:     cfg.Exclude,
		MaxFileSize: cfg.Index.MaxFileSize,
	}
}

// Walker yields the text files under a root, honoring gitignore rules,
// hidden-file filtering, include/exclude globs, and binary detection.
type Walker struct {
	opts Options
}

// NewWalker creates a walker with the given options.
func NewWalker(opts Options) *Walker {
	return &Walker{opts: opts}
}

// Files returns the absolute paths of every file under root that passes the
// walker's filters. Per-directory I/O errors are logged and skipped; only a
// failure to read the root itself is returned as an error.
func (w *Walker) Files(root string) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	// Resolve symlinks in the root itself so the yielded paths are the same
	// no matter which alias of the root the caller passed.
	if real, err := filepath.EvalSymlinks(absRoot); err == nil {
		absRoot = real
	}

	ignore := config.NewIgnoreMatcher()
	if !w.opts.NoIgnore {
		if err := ignore.LoadGitignore(absRoot); err != nil {
			debug.Warnf("failed to read .gitignore under %s: %v", absRoot, err)
		}
	}

	visited := map[string]bool{absRoot: true}

	var files []string
	if err := w.walkDir(absRoot, absRoot, ignore, visited, &files); err != nil {
		return nil, err
	}
	return files, nil
}

func (w *Walker) walkDir(root, dir string, ignore *config.IgnoreMatcher, visited map[string]bool, files *[]string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if dir == root {
			return err
		}
		debug.Warnf("skipping unreadable directory %s: %v", dir, err)
		return nil
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = entry.Name()
		}
		rel = filepath.ToSlash(rel)

		if !w.opts.Hidden && strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		isDir := entry.IsDir()
		if entry.Type()&fs.ModeSymlink != 0 {
			if !w.opts.Follow {
				continue
			}
			target, err := os.Stat(path)
			if err != nil {
				continue
			}
			isDir = target.IsDir()
			if isDir {
				real, err := filepath.EvalSymlinks(path)
				if err != nil || visited[real] {
					continue // broken link or cycle
				}
				visited[real] = true
			}
		}

		if !w.opts.NoIgnore && ignore.ShouldIgnore(rel, isDir) {
			continue
		}
		if w.matchesAny(w.opts.Exclude, rel) {
			continue
		}

		if isDir {
			if err := w.walkDir(root, path, ignore, visited, files); err != nil {
				return err
			}
			continue
		}

		if len(w.opts.Include) > 0 && !w.matchesAny(w.opts.Include, rel) {
			continue
		}
		if w.opts.MaxFileSize > 0 {
			if info, err := entry.Info(); err == nil && info.Size() > w.opts.MaxFileSize {
				continue
			}
		}
		if IsBinaryByExtension(path) || IsBinaryFile(path) {
			continue
		}

		*files = append(*files, path)
	}
	return nil
}

func (w *Walker) matchesAny(globs []string, rel string) bool {
	for _, g := range globs {
		if ok, err := doublestar.Match(g, rel); err == nil && ok {
			return true
		}
	}
	return false
}
