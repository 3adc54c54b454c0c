package index

import (
	"context"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/errgroup"

	"github.com/bitglade/seekr/internal/debug"
	seekrerrors "github.com/bitglade/seekr/internal/errors"
	"github.com/bitglade/seekr/internal/interfaces"
)

// Manager owns index persistence for any number of roots: stable index file
// naming, load/save, staleness detection, and the parallel build. Loaded
// indexes are cached per canonical root so repeated queries against the same
// root do not re-read the index file.
type Manager struct {
	indexDir string
	workers  int
	walker   interfaces.Walker

	mu     sync.RWMutex
	loaded map[string]*SearchIndex
}

// NewManager creates a manager storing index files under indexDir and
// building with the given worker count.
func NewManager(indexDir string, workers int, walker interfaces.Walker) *Manager {
	if workers < 1 {
		workers = 1
	}
	return &Manager{
		indexDir: indexDir,
		workers:  workers,
		walker:   walker,
		loaded:   make(map[string]*SearchIndex),
	}
}

// Canonical resolves a root to the form used for index keying: absolute,
// symlink-resolved when possible, cleaned.
func Canonical(root string) string {
	abs, err := filepath.Abs(root)
	if err != nil {
		return filepath.Clean(root)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}

// IndexPath derives the stable index file path for a root by hashing its
// canonical form.
func (m *Manager) IndexPath(root string) string {
	sum := xxhash.Sum64String(Canonical(root))
	return filepath.Join(m.indexDir, fmt.Sprintf("%016x.idx", sum))
}

// Loaded returns the cached in-memory index for root, or nil.
func (m *Manager) Loaded(root string) *SearchIndex {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loaded[Canonical(root)]
}

// Load reads and deserializes the index for root. It returns
// errors.ErrIndexNotFound when no index file exists, and a corrupt- or
// version-typed *errors.IndexError when the file cannot be trusted. On
// success the index is cached for Loaded.
func (m *Manager) Load(root string) (*SearchIndex, error) {
	path := m.IndexPath(root)

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, seekrerrors.ErrIndexNotFound
		}
		return nil, seekrerrors.NewIndexError("load", err).WithRoot(root)
	}
	defer file.Close()

	var idx SearchIndex
	if err := gob.NewDecoder(file).Decode(&idx); err != nil {
		return nil, seekrerrors.NewIndexCorruptError(path, err).WithRoot(root)
	}
	if idx.Metadata.Version != FormatVersion {
		return nil, seekrerrors.NewIndexVersionError(path, idx.Metadata.Version, FormatVersion).WithRoot(root)
	}

	m.mu.Lock()
	m.loaded[Canonical(root)] = &idx
	m.mu.Unlock()

	return &idx, nil
}

// Save persists the cached index for root atomically: serialize to a temp
// file in the index directory, then rename over the final path, so a crash
// mid-write cannot corrupt a previously good index.
func (m *Manager) Save(root string) error {
	idx := m.Loaded(root)
	if idx == nil {
		return seekrerrors.NewIndexError("save", fmt.Errorf("no index built for %s", root)).WithRoot(root)
	}

	if err := os.MkdirAll(m.indexDir, 0755); err != nil {
		return seekrerrors.NewIndexError("save", err).WithRoot(root)
	}

	path := m.IndexPath(root)
	tmp, err := os.CreateTemp(m.indexDir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return seekrerrors.NewIndexError("save", err).WithRoot(root)
	}
	defer os.Remove(tmp.Name())

	if err := gob.NewEncoder(tmp).Encode(idx); err != nil {
		tmp.Close()
		return seekrerrors.NewIndexError("save", err).WithRoot(root)
	}
	if err := tmp.Close(); err != nil {
		return seekrerrors.NewIndexError("save", err).WithRoot(root)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return seekrerrors.NewIndexError("save", err).WithRoot(root)
	}

	debug.LogIndexing("saved index for %s to %s (%d files)\n", root, path, idx.Metadata.FileCount)
	return nil
}

// NeedsRebuild reports whether the cached index for root no longer reflects
// the filesystem: no index loaded, an indexed file missing or with a drifted
// mtime, or a walk discovering a file the index has never seen. The walk
// makes this O(total files) on every call even with a warm index.
func (m *Manager) NeedsRebuild(root string) bool {
	idx := m.Loaded(root)
	if idx == nil {
		return true
	}

	for path, fi := range idx.Files {
		info, err := os.Stat(path)
		if err != nil {
			return true // file deleted or unreadable
		}
		if !info.ModTime().Equal(fi.Modified) {
			return true
		}
	}

	files, err := m.walker.Files(root)
	if err != nil {
		return true
	}
	for _, path := range files {
		if _, ok := idx.Files[path]; !ok {
			return true
		}
	}
	return false
}

// Build walks root and indexes every file in parallel, one unit of work per
// file with no shared mutable state, merging afterwards. The finished index
// replaces any cached one and is persisted.
func (m *Manager) Build(ctx context.Context, root string) (*SearchIndex, error) {
	start := time.Now()

	files, err := m.walker.Files(root)
	if err != nil {
		return nil, seekrerrors.NewIndexError("build", err).WithRoot(root)
	}

	results := make([]*FileIndex, len(files))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(m.workers)
	for i, path := range files {
		g.Go(func() error {
			fi, err := IndexFile(path)
			if err != nil {
				debug.Warnf("failed to index %s: %v", path, err)
				return nil
			}
			results[i] = fi
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, seekrerrors.NewIndexError("build", err).WithRoot(root)
	}

	idx := NewSearchIndex()
	for _, fi := range results {
		if fi == nil {
			continue
		}
		idx.Files[fi.Path] = fi
		idx.Metadata.LineCount += len(fi.Lines)
	}
	idx.Metadata.FileCount = len(idx.Files)

	m.mu.Lock()
	m.loaded[Canonical(root)] = idx
	m.mu.Unlock()

	if err := m.Save(root); err != nil {
		return nil, err
	}

	debug.LogIndexing("built index for %s: %d files, %d lines in %v\n",
		root, idx.Metadata.FileCount, idx.Metadata.LineCount, time.Since(start))
	return idx, nil
}
