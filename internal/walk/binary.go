package walk

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// binaryExtensions lists extensions that are always binary. SVG is absent
// on purpose: it is text-based XML.
var binaryExtensions = map[string]bool{
	// Fonts
	".woff": true, ".woff2": true, ".ttf": true, ".otf": true, ".eot": true,
	// Images
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".bmp": true,
	".ico": true, ".webp": true, ".tiff": true, ".tif": true,
	// Archives
	".zip": true, ".tar": true, ".gz": true, ".bz2": true, ".xz": true,
	".7z": true, ".rar": true, ".jar": true, ".war": true,
	// Executables and objects
	".exe": true, ".dll": true, ".so": true, ".dylib": true, ".a": true,
	".o": true, ".obj": true, ".bin": true, ".wasm": true,
	// Media
	".mp3": true, ".mp4": true, ".avi": true, ".mov": true, ".wav": true,
	".flac": true, ".ogg": true, ".webm": true,
	// Documents and data blobs
	".pdf": true, ".doc": true, ".docx": true, ".xls": true, ".xlsx": true,
	".db": true, ".sqlite": true, ".parquet": true,
}

// sniffBytes is how much of a file IsBinaryFile reads when the extension is
// inconclusive.
const sniffBytes = 512

// IsBinaryByExtension reports whether the path's extension marks it binary,
// without any I/O.
func IsBinaryByExtension(path string) bool {
	return binaryExtensions[strings.ToLower(filepath.Ext(path))]
}

// IsBinaryFile reads the first bytes of a file and reports whether they look
// binary (contain a NUL byte). Unreadable files count as binary so callers
// skip them.
func IsBinaryFile(path string) bool {
	file, err := os.Open(path)
	if err != nil {
		return true
	}
	defer file.Close()

	buf := make([]byte, sniffBytes)
	n, err := io.ReadFull(file, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return true
	}
	return bytes.IndexByte(buf[:n], 0) >= 0
}
