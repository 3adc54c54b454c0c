package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNaturalLanguage(t *testing.T) {
	tests := []struct {
		name     string
		pattern  string
		expected bool
	}{
		{"Action keyword", "find the parser", true},
		{"Question keyword", "where errors are wrapped", true},
		{"More than two words", "parse config file quickly", true},
		{"Prepositional connective", "handler in server", true},
		{"Bare programming noun singular", "function", true},
		{"Bare programming noun plural", "structs", true},
		{"Plain identifier", "parseConfig", false},
		{"Regex pattern", `foo.*bar`, false},
		{"Two plain words", "foo bar", false},
		{"Empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, isNaturalLanguage(tt.pattern))
		})
	}
}

func TestIsSymbolQuery(t *testing.T) {
	tests := []struct {
		name     string
		pattern  string
		expected bool
	}{
		{"Uppercase start", "SearchEngine", true},
		{"Call syntax", "parse(", true},
		{"Rust fn marker", "fn with spaces!", true},
		{"Python def marker", "def with spaces!", true},
		{"Bare identifier", "parse_config", true},
		{"Short token", "ab", false},
		{"Keyword if", "if", false},
		{"Keyword function", "function", false},
		{"Keyword return", "return", false},
		{"Free text", "a b c", false},
		{"Empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, isSymbolQuery(tt.pattern))
		})
	}
}
