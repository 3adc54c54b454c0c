package search

import (
	"regexp"
	"strings"

	"github.com/bitglade/seekr/internal/fuzzy"
)

// lineMatcher is the single per-line predicate shared by the index-scan and
// filesystem-scan paths, so the two cannot drift apart.
type lineMatcher struct {
	re           *regexp.Regexp
	matcher      *fuzzy.Matcher
	pattern      string // fuzzy comparison target (final pipeline pattern)
	fuzzyWanted  bool
	fixedStrings bool
	invert       bool
}

// matches decides inclusion for one line. With r = regex match and f = fuzzy
// match (only computed when fuzzy was requested):
//
//	fixed strings + fuzzy  ->  f
//	fuzzy                  ->  r OR f
//	otherwise              ->  r
//
// InvertMatch negates the computed inclusion.
func (lm *lineMatcher) matches(line string) bool {
	r := lm.re.MatchString(line)

	var include bool
	switch {
	case lm.fixedStrings && lm.fuzzyWanted:
		include = lm.fuzzyLine(line)
	case lm.fuzzyWanted:
		include = r || lm.fuzzyLine(line)
	default:
		include = r
	}

	if lm.invert {
		include = !include
	}
	return include
}

// fuzzyLine fuzzily compares the pattern against each identifier-ish token
// of the line.
func (lm *lineMatcher) fuzzyLine(line string) bool {
	for _, token := range tokenizeLine(line) {
		if lm.matcher.IsMatch(lm.pattern, token) {
			return true
		}
	}
	return false
}

// tokenizeLine splits a line into runs of letters, digits, and underscores.
func tokenizeLine(line string) []string {
	return strings.FieldsFunc(line, func(r rune) bool {
		return !isWordRune(r)
	})
}

func isWordRune(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9') || r > 127
}
