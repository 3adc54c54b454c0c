package fuzzy

import (
	"sort"

	"github.com/hbollon/go-edlib"

	"github.com/bitglade/seekr/internal/types"
)

// Default thresholds for approximate matching. An edit distance above
// DefaultMaxEditDistance rejects a candidate before the similarity score is
// ever computed; survivors must still reach DefaultMinSimilarity.
const (
	DefaultMaxEditDistance = 2
	DefaultMinSimilarity   = 0.8
)

// Matcher decides whether two strings are "close enough" using a
// Damerau-Levenshtein distance gate followed by a Jaro-Winkler similarity
// gate. Both metrics come from go-edlib.
type Matcher struct {
	maxEditDistance int
	minSimilarity   float64
}

// NewMatcher creates a matcher with the given edit-distance budget and
// similarity floor. Out-of-range values fall back to the defaults.
func NewMatcher(maxEditDistance int, minSimilarity float64) *Matcher {
	if maxEditDistance < 0 {
		maxEditDistance = DefaultMaxEditDistance
	}
	if minSimilarity < 0 || minSimilarity > 1 {
		minSimilarity = DefaultMinSimilarity
	}
	return &Matcher{
		maxEditDistance: maxEditDistance,
		minSimilarity:   minSimilarity,
	}
}

// NewDefaultMatcher returns a matcher with the engine defaults (distance 2,
// similarity 0.8).
func NewDefaultMatcher() *Matcher {
	return NewMatcher(DefaultMaxEditDistance, DefaultMinSimilarity)
}

// MaxEditDistance returns the configured edit-distance budget.
func (m *Matcher) MaxEditDistance() int {
	return m.maxEditDistance
}

// MinSimilarity returns the configured similarity floor.
func (m *Matcher) MinSimilarity() float64 {
	return m.minSimilarity
}

// IsMatch reports whether text is an approximate match for pattern.
// The distance gate short-circuits so the similarity score is only computed
// for candidates within the edit budget.
func (m *Matcher) IsMatch(pattern, text string) bool {
	distance := edlib.DamerauLevenshteinDistance(pattern, text)
	if distance > m.maxEditDistance {
		return false
	}
	return m.similarity(pattern, text) >= m.minSimilarity
}

// MatchDetails applies the same gates as IsMatch and returns the match
// details when both pass, nil otherwise.
func (m *Matcher) MatchDetails(pattern, text string) *types.FuzzyMatch {
	distance := edlib.DamerauLevenshteinDistance(pattern, text)
	if distance > m.maxEditDistance {
		return nil
	}
	score := m.similarity(pattern, text)
	if score < m.minSimilarity {
		return nil
	}
	return &types.FuzzyMatch{
		Text:     text,
		Score:    score,
		Distance: distance,
	}
}

// FindBestMatches filters candidates through MatchDetails and returns at most
// limit matches ordered by descending score, ascending distance on ties, and
// original candidate order after that. The ordering is deterministic for a
// fixed input.
func (m *Matcher) FindBestMatches(pattern string, candidates []string, limit int) []types.FuzzyMatch {
	if limit <= 0 {
		return nil
	}

	matches := make([]types.FuzzyMatch, 0, len(candidates))
	for _, candidate := range candidates {
		if details := m.MatchDetails(pattern, candidate); details != nil {
			matches = append(matches, *details)
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Distance < matches[j].Distance
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

// similarity computes Jaro-Winkler similarity in [0,1]. Identical strings
// score 1.0 without consulting the library; empty inputs score 0.0 because
// edlib reports an error for them.
func (m *Matcher) similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}
	score, err := edlib.StringsSimilarity(a, b, edlib.JaroWinkler)
	if err != nil {
		return 0.0
	}
	return float64(score)
}
