package index

import (
	"io"
	"os"
	"strings"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/exp/mmap"
)

// MmapThreshold is the file size above which content is read through a
// memory mapping. Below it a plain buffered read is cheaper than the mmap
// setup cost.
const MmapThreshold = 1 << 20

// IndexFile reads one file and produces its per-line index: 1-indexed line
// numbers, line text without the trailing newline, and cumulative byte
// offsets.
func IndexFile(path string) (*FileIndex, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	content, err := readContent(path, info.Size())
	if err != nil {
		return nil, err
	}

	return &FileIndex{
		Path:     path,
		Lines:    splitLines(content),
		Checksum: xxhash.Sum64(content),
		Modified: info.ModTime(),
	}, nil
}

// readContent memory-maps large files and buffered-reads small ones.
func readContent(path string, size int64) ([]byte, error) {
	if size < MmapThreshold {
		return os.ReadFile(path)
	}

	r, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	buf := make([]byte, r.Len())
	if _, err := r.ReadAt(buf, 0); err != nil && err != io.EOF {
		return nil, err
	}
	return buf, nil
}

// splitLines splits content into indexed lines, tracking the byte offset of
// each line start. A trailing newline does not produce a phantom last line.
func splitLines(content []byte) []IndexedLine {
	if len(content) == 0 {
		return nil
	}

	raw := strings.Split(string(content), "\n")
	if raw[len(raw)-1] == "" && content[len(content)-1] == '\n' {
		raw = raw[:len(raw)-1]
	}

	lines := make([]IndexedLine, 0, len(raw))
	var offset int64
	for i, line := range raw {
		lines = append(lines, IndexedLine{
			Number:     i + 1,
			Content:    line,
			ByteOffset: offset,
		})
		offset += int64(len(line)) + 1
	}
	return lines
}
