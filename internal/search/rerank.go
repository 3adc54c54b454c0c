package search

import (
	"sort"
	"strings"

	"github.com/bitglade/seekr/internal/types"
)

// Re-ranking weights: each contained search term is worth 1.0
// case-insensitively plus 0.5 for an exact-case containment, and matches in
// a file's first 10 lines get a small early-line bonus.
const (
	termScore      = 1.0
	exactCaseScore = 0.5
	earlyLineScore = 0.2
	earlyLineLimit = 10
)

// rerank scores every match against the AI-extracted search terms and sorts
// descending by score. Equal scores fall back to (path, line number) so the
// order is reproducible. A language-ranking collaborator, when present,
// applies a second per-match adjustment followed by a re-sort.
func (e *Engine) rerank(matches []types.SearchMatch, terms []string) {
	for i := range matches {
		matches[i].AIScore = scoreMatch(&matches[i], terms)
	}
	sortByScore(matches)

	if e.lang != nil {
		for i := range matches {
			matches[i].AIScore = e.lang.CalculateRanking(matches[i].AIScore, matches[i].Language)
		}
		sortByScore(matches)
	}
}

func scoreMatch(m *types.SearchMatch, terms []string) float64 {
	score := 0.0
	lowerLine := strings.ToLower(m.Line)
	for _, term := range terms {
		if term == "" {
			continue
		}
		if strings.Contains(lowerLine, strings.ToLower(term)) {
			score += termScore
		}
		if strings.Contains(m.Line, term) {
			score += exactCaseScore
		}
	}
	if m.LineNumber <= earlyLineLimit {
		score += earlyLineScore
	}
	return score
}

func sortByScore(matches []types.SearchMatch) {
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].AIScore != matches[j].AIScore {
			return matches[i].AIScore > matches[j].AIScore
		}
		if matches[i].Path != matches[j].Path {
			return matches[i].Path < matches[j].Path
		}
		return matches[i].LineNumber < matches[j].LineNumber
	})
}
