package search

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitglade/seekr/internal/config"
	seekrerrors "github.com/bitglade/seekr/internal/errors"
	"github.com/bitglade/seekr/internal/index"
	"github.com/bitglade/seekr/internal/types"
	"github.com/bitglade/seekr/internal/walk"
)

func newTestEngine(t *testing.T, opts ...Option) (*Engine, *index.Manager) {
	t.Helper()
	cfg := config.Default()
	cfg.Index.Dir = t.TempDir()
	cfg.Performance.ParallelWorkers = 2

	manager := index.NewManager(cfg.Index.Dir, 2, walk.NewWalker(walk.Options{}))
	return NewEngine(cfg, manager, opts...), manager
}

// twoFileRoot creates the standard corpus: two files, ten lines, "foo" on
// a.txt:1, a.txt:3 and b.txt:2.
func twoFileRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, root, "a.txt", "foo alpha\nbeta\ngamma foo\ndelta\nepsilon\n")
	writeFile(t, root, "b.txt", "one\ntwo foo\nthree\nfour\nfive\n")
	return root
}

func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func matchKeys(results *types.SearchResults) [][2]interface{} {
	keys := make([][2]interface{}, 0, len(results.Matches))
	for _, m := range results.Matches {
		keys = append(keys, [2]interface{}{filepath.Base(m.Path), m.LineNumber})
	}
	return keys
}

func TestSearch_LiteralViaFilesystemScan(t *testing.T) {
	root := twoFileRoot(t)
	engine, _ := newTestEngine(t)

	results, err := engine.Search(context.Background(), &types.SearchQuery{
		Pattern: "foo",
		Paths:   []string{root},
	})
	require.NoError(t, err)

	assert.Equal(t, [][2]interface{}{
		{"a.txt", 1}, {"a.txt", 3}, {"b.txt", 2},
	}, matchKeys(results), "matches ordered by (path, line)")
	assert.Equal(t, 3, results.TotalMatches)
	assert.False(t, results.AIReranked)
	assert.Equal(t, 1, results.FilesSearched, "one query path, no index")
	assert.Equal(t, 2, len(results.FileCounts))
	assert.Equal(t, "foo alpha", results.Matches[0].Line)
	assert.Equal(t, int64(0), results.Matches[0].ByteOffset)
	assert.Equal(t, "gamma foo", results.Matches[1].Line)
	assert.Equal(t, int64(15), results.Matches[1].ByteOffset)
}

func TestSearch_LiteralViaIndexScan(t *testing.T) {
	root := twoFileRoot(t)
	engine, _ := newTestEngine(t)

	require.NoError(t, engine.BuildIndex(context.Background(), []string{root}))

	results, err := engine.Search(context.Background(), &types.SearchQuery{
		Pattern: "foo",
		Paths:   []string{root},
	})
	require.NoError(t, err)

	assert.Equal(t, [][2]interface{}{
		{"a.txt", 1}, {"a.txt", 3}, {"b.txt", 2},
	}, matchKeys(results))
	assert.False(t, results.AIReranked)
	assert.Equal(t, 2, results.FilesSearched, "index path reports the index's file count")
}

func TestSearch_FuzzyBranchAdmitsNearMiss(t *testing.T) {
	root := twoFileRoot(t)
	engine, _ := newTestEngine(t)

	distance := 1
	results, err := engine.Search(context.Background(), &types.SearchQuery{
		Pattern: "fooo",
		Paths:   []string{root},
		Fuzzy:   &distance,
	})
	require.NoError(t, err)

	// The literal pattern matches nothing; fuzzy recovers the foo lines.
	assert.Equal(t, [][2]interface{}{
		{"a.txt", 1}, {"a.txt", 3}, {"b.txt", 2},
	}, matchKeys(results))
}

func TestSearch_GitignoreHonored(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".gitignore", "build/\n")
	writeFile(t, root, "src/code.txt", "needle here\n")
	writeFile(t, root, "build/gen.txt", "needle generated\n")

	engine, _ := newTestEngine(t)

	results, err := engine.Search(context.Background(), &types.SearchQuery{
		Pattern: "needle",
		Paths:   []string{root},
	})
	require.NoError(t, err)
	assert.Equal(t, [][2]interface{}{{"code.txt", 1}}, matchKeys(results))

	results, err = engine.Search(context.Background(), &types.SearchQuery{
		Pattern:  "needle",
		Paths:    []string{root},
		NoIgnore: true,
	})
	require.NoError(t, err)
	assert.Equal(t, [][2]interface{}{{"gen.txt", 1}, {"code.txt", 1}}, matchKeys(results))
}

func TestSearch_CaseSensitiveWinsOverInsensitive(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "case.txt", "foo lower\nFoo upper\n")

	engine, _ := newTestEngine(t)

	results, err := engine.Search(context.Background(), &types.SearchQuery{
		Pattern:         "Foo",
		Paths:           []string{root},
		CaseInsensitive: true,
		CaseSensitive:   true,
	})
	require.NoError(t, err)

	require.Len(t, results.Matches, 1)
	assert.Equal(t, 2, results.Matches[0].LineNumber)
	assert.Equal(t, "Foo upper", results.Matches[0].Line)
}

func TestSearch_InvertMatchPartitionsLines(t *testing.T) {
	root := twoFileRoot(t)
	engine, _ := newTestEngine(t)

	regular, err := engine.Search(context.Background(), &types.SearchQuery{
		Pattern: "foo",
		Paths:   []string{root},
	})
	require.NoError(t, err)

	inverted, err := engine.Search(context.Background(), &types.SearchQuery{
		Pattern:     "foo",
		Paths:       []string{root},
		InvertMatch: true,
	})
	require.NoError(t, err)

	assert.Equal(t, 10, regular.TotalMatches+inverted.TotalMatches, "together they cover every line once")

	seen := map[string]bool{}
	for _, m := range regular.Matches {
		seen[m.Path+":"+strconv.Itoa(m.LineNumber)] = true
	}
	for _, m := range inverted.Matches {
		key := m.Path + ":" + strconv.Itoa(m.LineNumber)
		assert.False(t, seen[key], "disjoint: %s", key)
	}
}

func TestSearch_MaxCount(t *testing.T) {
	root := twoFileRoot(t)
	engine, _ := newTestEngine(t)

	for _, n := range []int{0, 1, 2, 100} {
		count := n
		results, err := engine.Search(context.Background(), &types.SearchQuery{
			Pattern:  "foo",
			Paths:    []string{root},
			MaxCount: &count,
		})
		require.NoError(t, err)
		assert.LessOrEqual(t, results.TotalMatches, n, "max_count=%d", n)
	}
}

func TestSearch_InvalidRegexFailsWholeCall(t *testing.T) {
	root := twoFileRoot(t)
	engine, _ := newTestEngine(t)

	results, err := engine.Search(context.Background(), &types.SearchQuery{
		Pattern: "([unclosed",
		Paths:   []string{root},
	})
	require.Error(t, err)
	assert.Nil(t, results, "no partial results on compile failure")

	var se *seekrerrors.SearchError
	assert.ErrorAs(t, err, &se)
}

func TestSearch_CorruptIndexSurfacesError(t *testing.T) {
	root := twoFileRoot(t)
	engine, manager := newTestEngine(t)

	require.NoError(t, os.MkdirAll(filepath.Dir(manager.IndexPath(root)), 0755))
	require.NoError(t, os.WriteFile(manager.IndexPath(root), []byte("garbage"), 0644))

	_, err := engine.Search(context.Background(), &types.SearchQuery{
		Pattern: "foo",
		Paths:   []string{root},
	})
	require.Error(t, err)
	assert.True(t, seekrerrors.IsCorrupt(err))
}

func TestSearch_StaleIndexFallsBackToFilesystem(t *testing.T) {
	root := twoFileRoot(t)
	engine, _ := newTestEngine(t)
	require.NoError(t, engine.BuildIndex(context.Background(), []string{root}))

	// A new file makes the index stale; the scan must still see it.
	writeFile(t, root, "c.txt", "fresh foo line\n")

	results, err := engine.Search(context.Background(), &types.SearchQuery{
		Pattern: "foo",
		Paths:   []string{root},
	})
	require.NoError(t, err)
	assert.Equal(t, 4, results.TotalMatches)
	assert.Equal(t, 1, results.FilesSearched, "fallback scan reports query-path count")
}

func TestSearch_IndexScanThroughSymlinkedRoot(t *testing.T) {
	target := t.TempDir()
	writeFile(t, target, "a.txt", "foo here\n")
	link := filepath.Join(t.TempDir(), "alias")
	require.NoError(t, os.Symlink(target, link))

	engine, manager := newTestEngine(t)
	require.NoError(t, engine.BuildIndex(context.Background(), []string{link}))
	require.False(t, manager.NeedsRebuild(link), "index built via the symlink is fresh")

	results, err := engine.Search(context.Background(), &types.SearchQuery{
		Pattern: "foo",
		Paths:   []string{link},
	})
	require.NoError(t, err)
	require.Len(t, results.Matches, 1, "index scan through a symlinked root must still match")
	assert.Equal(t, "foo here", results.Matches[0].Line)

	// The resolved root consults the same index.
	results, err = engine.Search(context.Background(), &types.SearchQuery{
		Pattern: "foo",
		Paths:   []string{target},
	})
	require.NoError(t, err)
	require.Len(t, results.Matches, 1)
}

func TestHasIndex(t *testing.T) {
	root := twoFileRoot(t)
	engine, manager := newTestEngine(t)

	assert.False(t, engine.HasIndex([]string{root}))

	require.NoError(t, engine.BuildIndex(context.Background(), []string{root}))
	assert.True(t, engine.HasIndex([]string{root}))

	// A fresh engine sharing the index dir loads it as a side effect.
	cfg := config.Default()
	cfg.Index.Dir = filepath.Dir(manager.IndexPath(root))
	m2 := index.NewManager(cfg.Index.Dir, 2, walk.NewWalker(walk.Options{}))
	e2 := NewEngine(cfg, m2)
	assert.True(t, e2.HasIndex([]string{root}))
	assert.NotNil(t, m2.Loaded(root), "HasIndex leaves the index warm")
}
