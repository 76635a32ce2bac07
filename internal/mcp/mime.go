package mcp

import (
	"mime"
	"path/filepath"
	"strings"
)

// sourceTypes covers extensions the system MIME table leaves out or
// reports as binary.
var sourceTypes = map[string]string{
	".go":   "text/x-go",
	".ts":   "text/typescript",
	".tsx":  "text/typescript",
	".js":   "text/javascript",
	".jsx":  "text/javascript",
	".py":   "text/x-python",
	".json": "application/json",
	".yaml": "text/x-yaml",
	".yml":  "text/x-yaml",
	".toml": "text/x-toml",
	".md":   "text/markdown",
	".txt":  "text/plain",
	".sh":   "text/x-sh",
	".sql":  "text/x-sql",
	".css":  "text/css",
	".html": "text/html",
}

// namedTypes maps well-known extensionless filenames.
var namedTypes = map[string]string{
	"Dockerfile": "text/x-dockerfile",
	"Makefile":   "text/x-makefile",
}

// MimeTypeForPath returns the MIME type for a file path, defaulting to
// "text/plain".
func MimeTypeForPath(path string) string {
	base := filepath.Base(path)
	if t, ok := namedTypes[base]; ok {
		return t
	}
	if base == "docker-compose.yml" || base == "docker-compose.yaml" {
		return "text/x-yaml"
	}

	ext := strings.ToLower(filepath.Ext(base))
	if ext == "" {
		return "text/plain"
	}
	if t, ok := sourceTypes[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension(ext); t != "" {
		if i := strings.IndexByte(t, ';'); i >= 0 {
			t = strings.TrimSpace(t[:i])
		}
		return t
	}
	return "text/plain"
}
