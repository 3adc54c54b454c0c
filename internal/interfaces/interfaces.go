// Package interfaces defines the narrow contracts between the search core
// and its collaborators. Collaborators are optional: a nil collaborator
// means the feature is disabled, never an error.
package interfaces

import (
	"context"

	"github.com/bitglade/seekr/internal/types"
)

// SearchEngine is the boundary the rest of the toolkit programs against.
type SearchEngine interface {
	// Search runs the full pipeline for one query.
	Search(ctx context.Context, query *types.SearchQuery) (*types.SearchResults, error)

	// BuildIndex builds and persists an index for each root.
	BuildIndex(ctx context.Context, paths []string) error

	// HasIndex reports whether a usable index exists for the first path.
	// It attempts a load as a side effect, so a subsequent Search can use
	// the already-loaded index without touching disk again.
	HasIndex(paths []string) bool
}

// SpellingCorrector rewrites likely-misspelled query patterns. Failures are
// absorbed by returning an unapplied correction.
type SpellingCorrector interface {
	CorrectQuery(pattern string) types.SpellingCorrection
}

// AIProcessor turns a natural-language query into concrete search terms.
type AIProcessor interface {
	ProcessQuery(ctx context.Context, text string) (*types.ProcessedQuery, error)
}

// LanguageProcessor detects source languages and adjusts ranking scores per
// language.
type LanguageProcessor interface {
	DetectLanguage(path string) *types.LanguageInfo
	CalculateRanking(baseScore float64, language string) float64
}

// LSPIntegration resolves workspace symbols for symbol-shaped queries.
type LSPIntegration interface {
	IsAvailable(language string) bool
	WorkspaceSymbols(ctx context.Context, query, language string) ([]types.SymbolInfo, error)
}

// Walker yields file paths under a root, honoring gitignore-style exclusion
// unless disabled.
type Walker interface {
	Files(root string) ([]string, error)
}
