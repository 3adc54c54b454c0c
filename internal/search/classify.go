package search

import (
	"strings"
	"unicode"
)

// naturalLanguageKeywords are action/question words whose presence marks a
// query as natural language rather than a code pattern.
var naturalLanguageKeywords = map[string]bool{
	"find": true, "search": true, "locate": true, "get": true,
	"show": true, "display": true, "where": true, "how": true,
	"what": true, "which": true, "definition": true, "usage": true,
	"reference": true,
}

// programmingNouns are queries that name a code construct generically; a
// query that is exactly one of these reads as "show me the Xs".
var programmingNouns = map[string]bool{
	"function": true, "functions": true,
	"class": true, "classes": true,
	"method": true, "methods": true,
	"variable": true, "variables": true,
	"constant": true, "constants": true,
	"module": true, "modules": true,
	"interface": true, "interfaces": true,
	"struct": true, "structs": true,
	"enum": true, "enums": true,
}

// symbolBlacklist holds language keywords that look like identifiers but
// never name a workspace symbol worth an LSP lookup.
var symbolBlacklist = map[string]bool{
	"if": true, "for": true, "while": true, "return": true,
	"let": true, "const": true, "var": true, "import": true,
	"from": true, "class": true, "function": true,
}

// isNaturalLanguage reports whether a pattern reads like a human question or
// description instead of a regex.
func isNaturalLanguage(pattern string) bool {
	lower := strings.ToLower(strings.TrimSpace(pattern))
	if lower == "" {
		return false
	}

	words := strings.Fields(lower)
	for _, w := range words {
		if naturalLanguageKeywords[w] {
			return true
		}
	}
	if len(words) > 2 {
		return true
	}
	for _, connective := range []string{" in ", " for ", " with "} {
		if strings.Contains(lower, connective) {
			return true
		}
	}
	return programmingNouns[lower]
}

// isSymbolQuery reports whether a pattern looks like it names a code
// identifier: it starts with an uppercase letter, carries a definition
// marker, or is a bare identifier token longer than 2 characters. Exact
// language keywords never qualify.
func isSymbolQuery(pattern string) bool {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" || symbolBlacklist[pattern] {
		return false
	}

	runes := []rune(pattern)
	if unicode.IsUpper(runes[0]) {
		return true
	}

	for _, marker := range []string{"(", "fn ", "def ", "function "} {
		if strings.Contains(pattern, marker) {
			return true
		}
	}

	return len(runes) > 2 && isIdentifier(pattern)
}

// isIdentifier reports whether s is a bare alphanumeric/underscore token.
func isIdentifier(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}
	return len(s) > 0
}
