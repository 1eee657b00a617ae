// Package classify decides per-file whether content is binary and whether
// it looks like it carries secrets. The heuristics are pure functions over
// a leading byte sample so they stay unit-testable.
package classify

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// SampleSize is the number of leading bytes inspected for binary detection.
const SampleSize = 4096

// controlRatioThreshold is the fraction of non-printable control bytes
// above which a sample is classified as binary.
const controlRatioThreshold = 0.1

// BinaryExtensions are file extensions that indicate binary files without
// needing a content check.
var BinaryExtensions = map[string]bool{
	// Executables and build artifacts
	".exe": true, ".dll": true, ".so": true, ".dylib": true,
	".bin": true, ".o": true, ".a": true, ".obj": true,
	".class": true, ".pyc": true, ".pyo": true, ".wasm": true,

	// Images
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".ico": true, ".bmp": true, ".webp": true, ".tiff": true,

	// Audio/Video
	".mp3": true, ".mp4": true, ".avi": true, ".mov": true,
	".wav": true, ".flac": true, ".ogg": true, ".mkv": true,

	// Archives
	".zip": true, ".tar": true, ".gz": true, ".rar": true,
	".7z": true, ".bz2": true, ".xz": true, ".iso": true,

	// Documents
	".pdf": true, ".doc": true, ".docx": true,
	".xls": true, ".xlsx": true, ".ppt": true, ".pptx": true,

	// Fonts
	".woff": true, ".woff2": true, ".ttf": true, ".eot": true, ".otf": true,

	// Databases
	".db": true, ".sqlite": true, ".sqlite3": true,
}

// IsBinaryExtension reports whether the path carries a known binary extension.
func IsBinaryExtension(path string) bool {
	return BinaryExtensions[strings.ToLower(filepath.Ext(path))]
}

// IsBinary reports whether the file at path holds binary content. Any I/O
// error while sampling classifies the file as binary so it is excluded
// rather than read further.
func IsBinary(path string) bool {
	if IsBinaryExtension(path) {
		return true
	}

	file, err := os.Open(path)
	if err != nil {
		return true
	}
	defer func() { _ = file.Close() }()

	buf := make([]byte, SampleSize)
	n, err := file.Read(buf)
	if err != nil && !errors.Is(err, io.EOF) {
		return true
	}
	return IsBinaryContent(buf[:n])
}

// IsBinaryContent classifies a leading byte sample. A NUL byte anywhere in
// the sample means binary. Otherwise the ratio of control characters
// (excluding tab, newline and carriage return) decides. Empty samples are
// text.
func IsBinaryContent(sample []byte) bool {
	if len(sample) == 0 {
		return false
	}

	control := 0
	for _, b := range sample {
		if b == 0 {
			return true
		}
		if b == '\t' || b == '\n' || b == '\r' {
			continue
		}
		if b < 0x20 || b == 0x7f {
			control++
		}
	}
	return float64(control)/float64(len(sample)) > controlRatioThreshold
}
