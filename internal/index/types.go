package index

import (
	"time"
)

// FormatVersion is the on-disk index format version. A loaded index with a
// different version is rejected before anything trusts its contents.
const FormatVersion = "2"

// IndexedLine is one line of an indexed file. ByteOffset is the number of
// bytes before this line in the file, newlines included.
type IndexedLine struct {
	Number     int // 1-indexed
	Content    string
	ByteOffset int64
}

// FileIndex is the per-line index of a single file. Checksum is the xxhash64
// of the file content; Modified must equal the filesystem's current mtime
// for the entry to be considered fresh.
type FileIndex struct {
	Path     string
	Lines    []IndexedLine
	Checksum uint64
	Modified time.Time
}

// IndexMetadata describes a persisted SearchIndex.
type IndexMetadata struct {
	CreatedAt time.Time
	FileCount int
	LineCount int
	Version   string
}

// SearchIndex maps file path to its FileIndex. It is created wholesale by a
// build, persisted as one binary file per indexed root, and replaced
// wholesale on rebuild. There is no incremental line-level patching.
type SearchIndex struct {
	Files    map[string]*FileIndex
	Metadata IndexMetadata
}

// NewSearchIndex creates an empty index stamped with the current format
// version.
func NewSearchIndex() *SearchIndex {
	return &SearchIndex{
		Files: make(map[string]*FileIndex),
		Metadata: IndexMetadata{
			CreatedAt: time.Now(),
			Version:   FormatVersion,
		},
	}
}
