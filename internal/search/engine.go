package search

import (
	"context"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bitglade/seekr/internal/config"
	"github.com/bitglade/seekr/internal/debug"
	seekrerrors "github.com/bitglade/seekr/internal/errors"
	"github.com/bitglade/seekr/internal/fuzzy"
	"github.com/bitglade/seekr/internal/index"
	"github.com/bitglade/seekr/internal/interfaces"
	"github.com/bitglade/seekr/internal/types"
	"github.com/bitglade/seekr/internal/walk"
)

const (
	// GlobalMatchCap truncates the aggregate of a parallel fallback scan as
	// a safety net against pathological patterns.
	GlobalMatchCap = 50000

	// RelaxedMinSimilarity is the similarity floor used when a query supplies
	// its own edit-distance budget; it admits more candidates than the
	// engine default.
	RelaxedMinSimilarity = 0.6

	// lspSymbolScore is the fixed confidence attached to workspace symbols
	// prepended by the LSP shortcut.
	lspSymbolScore = 0.95
)

// Engine runs the search pipeline: spelling correction, natural-language
// detection, optional AI query rewrite, regex resolution, optional LSP
// symbol shortcut, an index or filesystem scan, optional AI re-ranking, and
// result assembly. Collaborators are injected at construction; a nil
// collaborator disables its stage.
type Engine struct {
	cfg     *config.Config
	manager *index.Manager
	cache   *RegexCache
	matcher *fuzzy.Matcher
	workers int

	speller interfaces.SpellingCorrector
	ai      interfaces.AIProcessor
	lang    interfaces.LanguageProcessor
	lsp     interfaces.LSPIntegration
}

var _ interfaces.SearchEngine = (*Engine)(nil)

// Option configures optional collaborators on an Engine.
type Option func(*Engine)

// WithSpelling attaches a spelling corrector.
func WithSpelling(s interfaces.SpellingCorrector) Option {
	return func(e *Engine) { e.speller = s }
}

// WithAI attaches an AI query processor.
func WithAI(a interfaces.AIProcessor) Option {
	return func(e *Engine) { e.ai = a }
}

// WithLanguage attaches a language detection/ranking processor.
func WithLanguage(l interfaces.LanguageProcessor) Option {
	return func(e *Engine) { e.lang = l }
}

// WithLSP attaches an LSP integration.
func WithLSP(l interfaces.LSPIntegration) Option {
	return func(e *Engine) { e.lsp = l }
}

// NewEngine creates a search engine over the given configuration and index
// manager.
func NewEngine(cfg *config.Config, manager *index.Manager, opts ...Option) *Engine {
	e := &Engine{
		cfg:     cfg,
		manager: manager,
		cache:   NewRegexCache(),
		matcher: fuzzy.NewMatcher(cfg.Search.FuzzyMaxDistance, cfg.Search.FuzzyMinSimilarity),
		workers: cfg.Workers(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Search runs the full pipeline for one query. Invalid regex syntax fails
// the call with no partial results; collaborator failures degrade to the
// non-AI path; per-file I/O errors during scanning skip that file.
func (e *Engine) Search(ctx context.Context, query *types.SearchQuery) (*types.SearchResults, error) {
	start := time.Now()
	q := query.Clone()

	// Stage 1: spelling correction, non-fatal.
	if e.speller != nil {
		correction := e.speller.CorrectQuery(q.Pattern)
		q.Spelling = &correction
		if correction.Applied && correction.Corrected != "" {
			debug.LogSearch("spelling corrected %q -> %q\n", q.Pattern, correction.Corrected)
			q.Pattern = correction.Corrected
		}
	}

	// Stages 2+3: natural-language detection and AI query rewrite. Only
	// evaluated when an AI collaborator exists and the query was not already
	// explicitly AI-enhanced.
	var searchTerms []string
	if e.ai != nil && !q.AIEnhanced && isNaturalLanguage(q.Pattern) {
		if processed, err := e.ai.ProcessQuery(ctx, q.Pattern); err != nil {
			debug.LogSearch("AI query understanding failed, keeping %q: %v\n", q.Pattern, err)
		} else if processed != nil && len(processed.SearchTerms) > 0 {
			searchTerms = processed.SearchTerms
			q.Pattern = strings.Join(processed.SearchTerms, "|")
			q.AIEnhanced = true
			debug.LogSearch("AI rewrote query to %q (intent %s)\n", q.Pattern, processed.Intent)
		}
	}

	// Stage 4: regex resolution. CaseSensitive wins over CaseInsensitive.
	caseInsensitive := q.CaseInsensitive && !q.CaseSensitive
	pattern := q.Pattern
	if q.FixedStrings {
		pattern = regexp.QuoteMeta(pattern)
	}
	re, err := e.cache.Get(pattern, caseInsensitive, q.WordRegexp)
	if err != nil {
		return nil, err
	}

	// Stage 5: fuzzy matcher selection. A query-supplied budget gets a
	// relaxed similarity floor.
	matcher := e.matcher
	if q.Fuzzy != nil {
		matcher = fuzzy.NewMatcher(*q.Fuzzy, RelaxedMinSimilarity)
	}

	lm := &lineMatcher{
		re:           re,
		matcher:      matcher,
		pattern:      q.Pattern,
		fuzzyWanted:  q.Fuzzy != nil,
		fixedStrings: q.FixedStrings,
		invert:       q.InvertMatch,
	}

	// Stage 6: LSP symbol shortcut, non-fatal, never deduplicated against
	// scan matches.
	symbolMatches := e.lspSymbols(ctx, q)

	// Stage 7: index scan when a fresh index exists, else parallel
	// filesystem scan.
	matches, filesSearched, err := e.scan(ctx, q, lm)
	if err != nil {
		return nil, err
	}

	matches = append(symbolMatches, matches...)
	matches = applyMaxCount(matches, q.MaxCount)

	// Language annotation for downstream ranking and display.
	if e.lang != nil {
		for i := range matches {
			if info := e.lang.DetectLanguage(matches[i].Path); info != nil {
				matches[i].Language = info.Name
				matches[i].LanguageConfidence = info.Confidence
			}
		}
	}

	// Stage 10: AI re-ranking.
	aiReranked := false
	if q.AIEnhanced && e.ai != nil {
		if len(searchTerms) == 0 {
			searchTerms = strings.Split(q.Pattern, "|")
		}
		e.rerank(matches, searchTerms)
		aiReranked = true
	}

	// Stage 11: assembly.
	fileCounts := make(map[string]int)
	for _, m := range matches {
		fileCounts[m.Path]++
	}

	return &types.SearchResults{
		Matches:       matches,
		TotalMatches:  len(matches),
		SearchTime:    time.Since(start),
		AIReranked:    aiReranked,
		FilesSearched: filesSearched,
		Spelling:      q.Spelling,
		FileCounts:    fileCounts,
	}, nil
}

// BuildIndex builds and persists an index for each root.
func (e *Engine) BuildIndex(ctx context.Context, paths []string) error {
	for _, root := range paths {
		if _, err := e.manager.Build(ctx, root); err != nil {
			return err
		}
	}
	return nil
}

// HasIndex reports whether a usable index exists for the first path,
// loading it as a side effect so a following Search hits the warm copy.
func (e *Engine) HasIndex(paths []string) bool {
	root := primaryRoot(paths)
	if e.manager.Loaded(root) != nil {
		return true
	}
	_, err := e.manager.Load(root)
	return err == nil
}

// lspSymbols runs the symbol shortcut: for symbol-shaped queries with a
// supported language, workspace symbols are fetched and prepended with a
// fixed high confidence.
func (e *Engine) lspSymbols(ctx context.Context, q *types.SearchQuery) []types.SearchMatch {
	if e.lsp == nil || !isSymbolQuery(q.Pattern) {
		return nil
	}

	language := ""
	if e.lang != nil && len(q.Paths) > 0 {
		if info := e.lang.DetectLanguage(q.Paths[0]); info != nil {
			language = info.ID
		}
	}
	if !e.lsp.IsAvailable(language) {
		return nil
	}

	symbols, err := e.lsp.WorkspaceSymbols(ctx, q.Pattern, language)
	if err != nil {
		debug.LogSearch("LSP workspace symbols failed for %q: %v\n", q.Pattern, err)
		return nil
	}

	matches := make([]types.SearchMatch, 0, len(symbols))
	for _, sym := range symbols {
		matches = append(matches, types.SearchMatch{
			Path:       sym.Location.File,
			LineNumber: sym.Location.Line,
			Line:       sym.Name,
			AIScore:    lspSymbolScore,
			AIContext:  "symbol:" + sym.Kind,
		})
	}
	return matches
}

// scan picks the index path when a fresh index exists for the query's
// primary root, otherwise runs the parallel filesystem scan. A corrupt
// index file is a hard error; an absent one silently falls back.
func (e *Engine) scan(ctx context.Context, q *types.SearchQuery, lm *lineMatcher) ([]types.SearchMatch, int, error) {
	root := primaryRoot(q.Paths)

	idx := e.manager.Loaded(root)
	if idx == nil {
		loaded, err := e.manager.Load(root)
		switch {
		case err == nil:
			idx = loaded
		case seekrerrors.IsNotFound(err):
			// no index, fall through to the filesystem scan
		case seekrerrors.IsCorrupt(err):
			return nil, 0, err
		default:
			debug.Warnf("index load failed for %s: %v", root, err)
		}
	}

	if idx != nil && !e.manager.NeedsRebuild(root) {
		debug.LogSearch("using index for %s (%d files)\n", root, idx.Metadata.FileCount)
		matches := e.scanIndex(idx, q, lm)
		return matches, idx.Metadata.FileCount, nil
	}

	matches, err := e.scanFilesystem(ctx, q, lm)
	if err != nil {
		return nil, 0, err
	}
	return matches, max(len(q.Paths), 1), nil
}

// scanIndex scans indexed lines, filtered to files covered by the query's
// paths. File order is sorted for deterministic output.
func (e *Engine) scanIndex(idx *index.SearchIndex, q *types.SearchQuery, lm *lineMatcher) []types.SearchMatch {
	paths := make([]string, 0, len(idx.Files))
	for path := range idx.Files {
		if coveredByQuery(path, q.Paths) {
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)

	var matches []types.SearchMatch
	for _, path := range paths {
		fi := idx.Files[path]
		for _, line := range fi.Lines {
			if !lm.matches(line.Content) {
				continue
			}
			matches = append(matches, types.SearchMatch{
				Path:       path,
				LineNumber: line.Number,
				Line:       line.Content,
				ByteOffset: line.ByteOffset,
			})
			if reachedMaxCount(matches, q.MaxCount) {
				return matches
			}
		}
	}
	return matches
}

// scanFilesystem walks every query path and scans files in data-parallel
// fashion on a bounded worker pool, keeping the CPU-bound work off the
// caller's goroutine. Matches within one file preserve line order; the
// merged aggregate is ordered by (path, line number).
func (e *Engine) scanFilesystem(ctx context.Context, q *types.SearchQuery, lm *lineMatcher) ([]types.SearchMatch, error) {
	opts := walk.OptionsFromConfig(e.cfg)
	opts.Hidden = q.Hidden
	opts.NoIgnore = q.NoIgnore
	opts.Follow = q.Follow
	walker := walk.NewWalker(opts)

	roots := q.Paths
	if len(roots) == 0 {
		roots = []string{primaryRoot(nil)}
	}

	var files []string
	for _, root := range roots {
		found, err := walker.Files(root)
		if err != nil {
			debug.Warnf("cannot walk %s: %v", root, err)
			continue
		}
		files = append(files, found...)
	}

	perFile := make([][]types.SearchMatch, len(files))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, path := range files {
		g.Go(func() error {
			perFile[i] = scanFile(path, lm)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, seekrerrors.NewSearchError("scan", err)
	}

	var matches []types.SearchMatch
	for _, fm := range perFile {
		matches = append(matches, fm...)
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Path != matches[j].Path {
			return matches[i].Path < matches[j].Path
		}
		return matches[i].LineNumber < matches[j].LineNumber
	})

	if len(matches) > GlobalMatchCap {
		debug.LogSearch("global match cap reached, truncating %d matches to %d\n", len(matches), GlobalMatchCap)
		matches = matches[:GlobalMatchCap]
	}
	return applyMaxCount(matches, q.MaxCount), nil
}

// scanFile reads one file through the same line-index representation the
// index build uses and applies the shared predicate. I/O errors skip the
// file.
func scanFile(path string, lm *lineMatcher) []types.SearchMatch {
	fi, err := index.IndexFile(path)
	if err != nil {
		debug.Warnf("skipping %s: %v", path, err)
		return nil
	}

	var matches []types.SearchMatch
	for _, line := range fi.Lines {
		if !lm.matches(line.Content) {
			continue
		}
		matches = append(matches, types.SearchMatch{
			Path:       path,
			LineNumber: line.Number,
			Line:       line.Content,
			ByteOffset: line.ByteOffset,
		})
	}
	return matches
}

// coveredByQuery implements the index path filter: a file is included when
// any query path is a prefix of it, or it is a prefix of any query path.
// Prefixes must end at a separator so /src never covers /srcfoo. Query paths
// are canonicalized to match the symlink-resolved keys the index stores.
func coveredByQuery(file string, queryPaths []string) bool {
	if len(queryPaths) == 0 {
		return true
	}
	sep := string(os.PathSeparator)
	for _, qp := range queryPaths {
		qp = index.Canonical(qp)
		if file == qp || strings.HasPrefix(file, qp+sep) || strings.HasPrefix(qp, file+sep) {
			return true
		}
	}
	return false
}

// primaryRoot is the root whose index a query consults.
func primaryRoot(paths []string) string {
	if len(paths) == 0 {
		return "."
	}
	return paths[0]
}

func reachedMaxCount(matches []types.SearchMatch, maxCount *int) bool {
	return maxCount != nil && len(matches) >= *maxCount
}

func applyMaxCount(matches []types.SearchMatch, maxCount *int) []types.SearchMatch {
	if maxCount != nil && len(matches) > *maxCount {
		return matches[:*maxCount]
	}
	return matches
}
