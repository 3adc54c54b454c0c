package errors

import (
	"errors"
	"fmt"
	"time"
)

// Error types for the seekr search engine
type ErrorType string

const (
	// Search errors
	ErrorTypeSearch       ErrorType = "search"
	ErrorTypeRegexCompile ErrorType = "regex_compile"

	// Index errors
	ErrorTypeIndex        ErrorType = "index"
	ErrorTypeIndexCorrupt ErrorType = "index_corrupt"
	ErrorTypeIndexVersion ErrorType = "index_version"

	// File errors
	ErrorTypeFileNotFound ErrorType = "file_not_found"
	ErrorTypeFileTooLarge ErrorType = "file_too_large"
	ErrorTypePermission   ErrorType = "permission"

	// Configuration errors
	ErrorTypeConfig ErrorType = "config"

	// Internal errors
	ErrorTypeInternal ErrorType = "internal"
)

// ErrIndexNotFound reports that no index file exists for a root. It is a
// distinct outcome from a corrupt or version-mismatched index, which
// surfaces as an *IndexError instead.
var ErrIndexNotFound = errors.New("no index found")

// SearchError represents an error during a search call
type SearchError struct {
	Type       ErrorType
	Pattern    string
	Operation  string
	Underlying error
	Timestamp  time.Time
}

// NewSearchError creates a new search error with context
func NewSearchError(op string, err error) *SearchError {
	return &SearchError{
		Type:       ErrorTypeSearch,
		Operation:  op,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// NewRegexCompileError wraps an invalid-pattern compile failure. Compile
// errors are fatal to the whole search call.
func NewRegexCompileError(pattern string, err error) *SearchError {
	return &SearchError{
		Type:       ErrorTypeRegexCompile,
		Pattern:    pattern,
		Operation:  "compile",
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// WithPattern adds the offending pattern to the error
func (e *SearchError) WithPattern(pattern string) *SearchError {
	e.Pattern = pattern
	return e
}

// Error implements the error interface
func (e *SearchError) Error() string {
	if e.Pattern != "" {
		return fmt.Sprintf("%s %s failed for pattern %q: %v", e.Type, e.Operation, e.Pattern, e.Underlying)
	}
	return fmt.Sprintf("%s %s failed: %v", e.Type, e.Operation, e.Underlying)
}

// Unwrap returns the underlying error for errors.Is/As
func (e *SearchError) Unwrap() error {
	return e.Underlying
}

// IndexError represents an error in index persistence or validation
type IndexError struct {
	Type       ErrorType
	Root       string
	IndexPath  string
	Operation  string
	Underlying error
	Timestamp  time.Time
}

// NewIndexError creates a new index error with context
func NewIndexError(op string, err error) *IndexError {
	return &IndexError{
		Type:       ErrorTypeIndex,
		Operation:  op,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// NewIndexCorruptError reports an index file that exists but cannot be
// trusted (failed deserialization).
func NewIndexCorruptError(indexPath string, err error) *IndexError {
	return &IndexError{
		Type:       ErrorTypeIndexCorrupt,
		IndexPath:  indexPath,
		Operation:  "load",
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// NewIndexVersionError reports a format-version mismatch in a loaded index.
func NewIndexVersionError(indexPath, got, want string) *IndexError {
	return &IndexError{
		Type:       ErrorTypeIndexVersion,
		IndexPath:  indexPath,
		Operation:  "load",
		Underlying: fmt.Errorf("index format version %q, expected %q", got, want),
		Timestamp:  time.Now(),
	}
}

// WithRoot adds the indexed root to the error
func (e *IndexError) WithRoot(root string) *IndexError {
	e.Root = root
	return e
}

// Error implements the error interface
func (e *IndexError) Error() string {
	if e.IndexPath != "" {
		return fmt.Sprintf("%s %s failed for %s: %v", e.Type, e.Operation, e.IndexPath, e.Underlying)
	}
	return fmt.Sprintf("%s %s failed: %v", e.Type, e.Operation, e.Underlying)
}

// Unwrap returns the underlying error for errors.Is/As
func (e *IndexError) Unwrap() error {
	return e.Underlying
}

// IsCorrupt reports whether err is a corrupt- or version-mismatched-index
// error, as opposed to index absence.
func IsCorrupt(err error) bool {
	var ie *IndexError
	if !errors.As(err, &ie) {
		return false
	}
	return ie.Type == ErrorTypeIndexCorrupt || ie.Type == ErrorTypeIndexVersion
}

// IsNotFound reports whether err means no index file was present.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrIndexNotFound)
}
