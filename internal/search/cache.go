package search

import (
	"regexp"
	"sync"

	seekrerrors "github.com/bitglade/seekr/internal/errors"
)

// regexKey identifies one compiled pattern variant. WordRegexp changes the
// compiled expression (word-boundary anchors), so it is part of the key.
type regexKey struct {
	pattern         string
	caseInsensitive bool
	wordRegexp      bool
}

// RegexCache avoids recompiling identical patterns across a parallel scan.
// The mutex guards only lookup and insert; compiled *regexp.Regexp handles
// are safe for concurrent matching and are shared freely.
type RegexCache struct {
	mu      sync.Mutex
	entries map[regexKey]*regexp.Regexp
}

// NewRegexCache creates an empty cache. Each Engine owns its own instance.
func NewRegexCache() *RegexCache {
	return &RegexCache{entries: make(map[regexKey]*regexp.Regexp)}
}

// Get returns the compiled form of pattern, compiling and caching it on
// first use. An invalid pattern returns a regex-compile SearchError, which
// fails the whole search call.
func (c *RegexCache) Get(pattern string, caseInsensitive, wordRegexp bool) (*regexp.Regexp, error) {
	key := regexKey{pattern: pattern, caseInsensitive: caseInsensitive, wordRegexp: wordRegexp}

	c.mu.Lock()
	if re, ok := c.entries[key]; ok {
		c.mu.Unlock()
		return re, nil
	}
	c.mu.Unlock()

	expr := pattern
	if wordRegexp {
		expr = `\b(?:` + expr + `)\b`
	}
	if caseInsensitive {
		expr = `(?i)` + expr
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, seekrerrors.NewRegexCompileError(pattern, err)
	}

	c.mu.Lock()
	c.entries[key] = re
	c.mu.Unlock()
	return re, nil
}

// Len returns the number of cached patterns.
func (c *RegexCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
