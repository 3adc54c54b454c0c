package search

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitglade/seekr/internal/types"
)

// Fakes for the collaborator interfaces. Each records whether it was
// consulted so tests can assert on pipeline wiring, not just outcomes.

type fakeSpeller struct {
	corrected string
	applied   bool
	called    bool
}

func (f *fakeSpeller) CorrectQuery(pattern string) types.SpellingCorrection {
	f.called = true
	out := types.SpellingCorrection{Original: pattern, Confidence: 0.9, Applied: f.applied}
	if f.applied {
		out.Corrected = f.corrected
	}
	return out
}

type fakeAI struct {
	terms  []string
	err    error
	called bool
}

func (f *fakeAI) ProcessQuery(ctx context.Context, text string) (*types.ProcessedQuery, error) {
	f.called = true
	if f.err != nil {
		return nil, f.err
	}
	return &types.ProcessedQuery{Intent: "find", SearchTerms: f.terms}, nil
}

type fakeLSP struct {
	available bool
	symbols   []types.SymbolInfo
	err       error
	called    bool
}

func (f *fakeLSP) IsAvailable(language string) bool { return f.available }

func (f *fakeLSP) WorkspaceSymbols(ctx context.Context, query, language string) ([]types.SymbolInfo, error) {
	f.called = true
	if f.err != nil {
		return nil, f.err
	}
	return f.symbols, nil
}

type fakeLang struct {
	name   string
	adjust float64
}

func (f *fakeLang) DetectLanguage(path string) *types.LanguageInfo {
	if f.name == "" {
		return nil
	}
	return &types.LanguageInfo{Name: f.name, ID: f.name, Confidence: 0.8}
}

func (f *fakeLang) CalculateRanking(baseScore float64, language string) float64 {
	return baseScore + f.adjust
}

func TestSearch_SpellingCorrectionRewritesPattern(t *testing.T) {
	root := twoFileRoot(t)
	speller := &fakeSpeller{corrected: "foo", applied: true}
	engine, _ := newTestEngine(t, WithSpelling(speller))

	results, err := engine.Search(context.Background(), &types.SearchQuery{
		Pattern: "fo0",
		Paths:   []string{root},
	})
	require.NoError(t, err)

	assert.True(t, speller.called)
	assert.Equal(t, 3, results.TotalMatches, "search ran with the corrected pattern")
	require.NotNil(t, results.Spelling)
	assert.True(t, results.Spelling.Applied)
	assert.Equal(t, "fo0", results.Spelling.Original)
	assert.Equal(t, "foo", results.Spelling.Corrected)
}

func TestSearch_AIRewriteAndRerank(t *testing.T) {
	root := twoFileRoot(t)
	ai := &fakeAI{terms: []string{"alpha", "gamma"}}
	engine, _ := newTestEngine(t, WithAI(ai))

	results, err := engine.Search(context.Background(), &types.SearchQuery{
		Pattern: "find the greek letters",
		Paths:   []string{root},
	})
	require.NoError(t, err)

	assert.True(t, ai.called, "natural-language query consulted the AI processor")
	assert.True(t, results.AIReranked)
	require.Len(t, results.Matches, 2, "pattern became alpha|gamma")

	// Equal scores: ordering falls back to (path, line).
	assert.Equal(t, 1, results.Matches[0].LineNumber)
	assert.Equal(t, "foo alpha", results.Matches[0].Line)
	assert.Equal(t, 3, results.Matches[1].LineNumber)
	assert.InDelta(t, 1.7, results.Matches[0].AIScore, 1e-9, "1.0 term + 0.5 exact case + 0.2 early line")
}

func TestSearch_AIRewriteSkippedForCodePatterns(t *testing.T) {
	root := twoFileRoot(t)
	ai := &fakeAI{terms: []string{"never"}}
	engine, _ := newTestEngine(t, WithAI(ai))

	results, err := engine.Search(context.Background(), &types.SearchQuery{
		Pattern: "foo",
		Paths:   []string{root},
	})
	require.NoError(t, err)

	assert.False(t, ai.called, "a plain pattern is not natural language")
	assert.False(t, results.AIReranked)
	assert.Equal(t, 3, results.TotalMatches)
}

func TestSearch_AIFailureIsNonFatal(t *testing.T) {
	root := twoFileRoot(t)
	ai := &fakeAI{err: errors.New("model unavailable")}
	engine, _ := newTestEngine(t, WithAI(ai))

	results, err := engine.Search(context.Background(), &types.SearchQuery{
		Pattern: "where is foo used",
		Paths:   []string{root},
	})
	require.NoError(t, err)

	assert.True(t, ai.called)
	assert.False(t, results.AIReranked, "degrades to the non-AI path")
	assert.Equal(t, 0, results.TotalMatches, "original pattern kept verbatim")
}

func TestSearch_LSPSymbolsPrepended(t *testing.T) {
	root := twoFileRoot(t)
	lsp := &fakeLSP{
		available: true,
		symbols: []types.SymbolInfo{
			{Name: "FooHandler", Kind: "function", Location: types.SymbolLocation{File: "handler.go", Line: 42}},
		},
	}
	engine, _ := newTestEngine(t, WithLSP(lsp))

	// Uppercase start marks a symbol query; the regex itself matches nothing.
	results, err := engine.Search(context.Background(), &types.SearchQuery{
		Pattern: "FooHandler",
		Paths:   []string{root},
	})
	require.NoError(t, err)

	assert.True(t, lsp.called)
	require.Len(t, results.Matches, 1)
	assert.Equal(t, "handler.go", results.Matches[0].Path)
	assert.Equal(t, 42, results.Matches[0].LineNumber)
	assert.Equal(t, lspSymbolScore, results.Matches[0].AIScore)
	assert.Equal(t, "symbol:function", results.Matches[0].AIContext)
}

func TestSearch_LSPSkippedForKeywordQueries(t *testing.T) {
	root := twoFileRoot(t)
	lsp := &fakeLSP{available: true, symbols: []types.SymbolInfo{{Name: "x"}}}
	engine, _ := newTestEngine(t, WithLSP(lsp))

	_, err := engine.Search(context.Background(), &types.SearchQuery{
		Pattern: "if",
		Paths:   []string{root},
	})
	require.NoError(t, err)
	assert.False(t, lsp.called, "blacklisted keywords never reach the LSP")
}

func TestSearch_LSPFailureIsNonFatal(t *testing.T) {
	root := twoFileRoot(t)
	lsp := &fakeLSP{available: true, err: errors.New("server gone")}
	engine, _ := newTestEngine(t, WithLSP(lsp))

	results, err := engine.Search(context.Background(), &types.SearchQuery{
		Pattern: "foo_bar_baz",
		Paths:   []string{root},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, results.TotalMatches)
}

func TestSearch_LanguageAnnotationAndRanking(t *testing.T) {
	root := twoFileRoot(t)
	ai := &fakeAI{terms: []string{"alpha"}}
	lang := &fakeLang{name: "plaintext", adjust: 0.5}
	engine, _ := newTestEngine(t, WithAI(ai), WithLanguage(lang))

	results, err := engine.Search(context.Background(), &types.SearchQuery{
		Pattern: "find alpha things",
		Paths:   []string{root},
	})
	require.NoError(t, err)

	require.NotEmpty(t, results.Matches)
	assert.Equal(t, "plaintext", results.Matches[0].Language)
	assert.InDelta(t, 2.2, results.Matches[0].AIScore, 1e-9, "language adjustment applied on top")
}
