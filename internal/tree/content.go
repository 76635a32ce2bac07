package tree

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// binaryExtensions are never previewed; the file is not opened.
var binaryExtensions = map[string]bool{
	".gz":    true,
	".woff2": true,
	".woff":  true,
	".ico":   true,
	".pyc":   true,
	".zip":   true,
	".png":   true,
	".jpg":   true,
	".jpeg":  true,
	".gif":   true,
	".so":    true,
	".class": true,
	".exe":   true,
}

// IsBinaryExtension reports whether path has an extension that is never
// previewed.
func IsBinaryExtension(path string) bool {
	return binaryExtensions[strings.ToLower(filepath.Ext(path))]
}

// ReadContent returns the text of the file at path, read up to maxBytes
// (0 or less reads the whole file). The result is absent (false) for binary
// extensions, invalid UTF-8 and any I/O failure; it never errors.
func ReadContent(path string, maxBytes int64) (string, bool) {
	if IsBinaryExtension(path) {
		return "", false
	}

	f, err := os.Open(path)
	if err != nil {
		return "", false
	}
	defer func() { _ = f.Close() }()

	var r io.Reader = f
	if maxBytes > 0 {
		// One extra byte tells a file of exactly maxBytes from a longer one.
		r = io.LimitReader(f, maxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", false
	}

	if maxBytes > 0 && int64(len(data)) > maxBytes {
		data = trimPartialRune(data[:maxBytes])
	}

	if !utf8.Valid(data) {
		return "", false
	}
	return string(data), true
}

// trimPartialRune drops a multi-byte sequence cut off by truncation.
func trimPartialRune(data []byte) []byte {
	for i := 1; i < utf8.UTFMax && i <= len(data); i++ {
		p := len(data) - i
		if utf8.RuneStart(data[p]) {
			if !utf8.FullRune(data[p:]) {
				return data[:p]
			}
			break
		}
	}
	return data
}
