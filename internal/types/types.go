package types

import (
	"time"
)

// SearchQuery describes a single search request. A query is progressively
// rewritten as it moves through the pipeline (spelling correction, AI query
// understanding), so Pattern may differ from what the user originally typed;
// Spelling records that rewrite when it happens.
type SearchQuery struct {
	Pattern string
	Paths   []string

	CaseInsensitive bool
	CaseSensitive   bool // wins over CaseInsensitive when both are set
	WordRegexp      bool
	FixedStrings    bool
	Follow          bool
	Hidden          bool
	NoIgnore        bool
	InvertMatch     bool
	AIEnhanced      bool

	// Fuzzy, when non-nil, is the maximum edit distance for approximate
	// matching. MaxCount, when non-nil, caps the number of matches returned.
	Fuzzy    *int
	MaxCount *int

	Spelling *SpellingCorrection
}

// Clone returns a copy of the query safe to mutate during the pipeline.
func (q *SearchQuery) Clone() *SearchQuery {
	c := *q
	c.Paths = append([]string(nil), q.Paths...)
	if q.Fuzzy != nil {
		v := *q.Fuzzy
		c.Fuzzy = &v
	}
	if q.MaxCount != nil {
		v := *q.MaxCount
		c.MaxCount = &v
	}
	return &c
}

// SearchMatch is a single matched line.
type SearchMatch struct {
	Path       string  `json:"path"`
	LineNumber int     `json:"line_number"` // 1-indexed
	Line       string  `json:"line"`
	ByteOffset int64   `json:"byte_offset"`
	AIScore    float64 `json:"ai_score,omitempty"`
	AIContext  string  `json:"ai_context,omitempty"`

	// Language detection, populated when a LanguageProcessor is configured.
	Language           string  `json:"language,omitempty"`
	LanguageConfidence float64 `json:"language_confidence,omitempty"`
}

// SearchResults is the assembled outcome of one Search call.
type SearchResults struct {
	Matches       []SearchMatch       `json:"matches"`
	TotalMatches  int                 `json:"total_matches"`
	SearchTime    time.Duration       `json:"search_time"`
	AIReranked    bool                `json:"ai_reranked"`
	FilesSearched int                 `json:"files_searched"`
	Spelling      *SpellingCorrection `json:"spelling_correction,omitempty"`
	FileCounts    map[string]int      `json:"file_counts"`
}

// FuzzyMatch describes one approximate match decision.
type FuzzyMatch struct {
	Text     string  `json:"text"`
	Score    float64 `json:"score"` // similarity in [0,1]
	Distance int     `json:"distance"`
}

// SpellingCorrection records the outcome of the spelling-correction stage.
type SpellingCorrection struct {
	Original   string  `json:"original"`
	Corrected  string  `json:"corrected,omitempty"`
	Confidence float64 `json:"confidence"`
	Applied    bool    `json:"applied"`
}

// ProcessedQuery is what an AIProcessor extracts from a natural-language
// query: an intent label and the concrete terms worth searching for.
type ProcessedQuery struct {
	Intent      string   `json:"intent"`
	SearchTerms []string `json:"search_terms"`
}

// LanguageInfo identifies a detected source language.
type LanguageInfo struct {
	Name       string  `json:"name"`
	ID         string  `json:"id"`
	Confidence float64 `json:"confidence"`
}

// SymbolLocation is where a workspace symbol lives.
type SymbolLocation struct {
	File string `json:"file"`
	Line int    `json:"line"` // 1-indexed
}

// SymbolInfo is a workspace symbol reported by an LSP collaborator.
type SymbolInfo struct {
	Name     string         `json:"name"`
	Kind     string         `json:"kind"`
	Location SymbolLocation `json:"location"`
}
