package ignore

import (
	"os"
	"strings"
)

// Patterns is a loaded set of ignore patterns in file order.
// A nil set and an empty set behave identically.
type Patterns []string

// AlwaysIgnored names are skipped by every matcher regardless of patterns.
var AlwaysIgnored = []string{".git", "node_modules"}

// TempFilePattern is the os.CreateTemp pattern for files that filetree
// writes and renames into place. Matching files are skipped by every matcher.
const TempFilePattern = ".filetree-*.tmp"

// IsTempFile reports whether the bare name matches TempFilePattern.
func IsTempFile(name string) bool {
	return strings.HasPrefix(name, ".filetree-") && strings.HasSuffix(name, ".tmp")
}

// Matcher decides whether a directory entry is excluded.
// name is the bare entry name, relPath the slash-separated path relative
// to the scan root.
type Matcher interface {
	Ignore(name, relPath string, isDir bool) bool
}

// ShouldIgnore reports whether name is excluded by patterns.
//
// name is ignored when any of its components is an AlwaysIgnored name, when
// a pattern glob-matches it, or when a pattern ending in "/" is a prefix of
// it (with or without the slash).
func ShouldIgnore(name string, patterns Patterns) bool {
	if hasFixedComponent(name) {
		return true
	}
	if len(patterns) == 0 {
		return false
	}

	for _, p := range patterns {
		if Fnmatch(name, p) {
			return true
		}
		if strings.HasSuffix(p, "/") {
			dir := strings.TrimSuffix(p, "/")
			if strings.HasPrefix(name, p) || strings.HasPrefix(name, dir) {
				return true
			}
		}
	}
	return false
}

// IsAlwaysIgnored reports whether name is one of the fixed names.
func IsAlwaysIgnored(name string) bool {
	for _, fixed := range AlwaysIgnored {
		if name == fixed {
			return true
		}
	}
	return false
}

func hasFixedComponent(name string) bool {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '/' || r == os.PathSeparator
	})
	for _, part := range parts {
		if IsAlwaysIgnored(part) {
			return true
		}
	}
	return false
}

type legacyMatcher struct {
	patterns Patterns
}

// Legacy returns a Matcher that applies ShouldIgnore to the bare name.
func Legacy(patterns Patterns) Matcher {
	return legacyMatcher{patterns: patterns}
}

func (m legacyMatcher) Ignore(name, _ string, isDir bool) bool {
	if !isDir && IsTempFile(name) {
		return true
	}
	return ShouldIgnore(name, m.patterns)
}

type strictMatcher struct {
	paths *PathMatcher
}

// Strict returns a Matcher with gitignore semantics over the relative path.
func Strict(patterns Patterns) Matcher {
	pm := NewPathMatcher()
	for _, p := range patterns {
		pm.AddPattern(p)
	}
	return strictMatcher{paths: pm}
}

func (m strictMatcher) Ignore(name, relPath string, isDir bool) bool {
	if hasFixedComponent(name) || (!isDir && IsTempFile(name)) {
		return true
	}
	if relPath == "" {
		relPath = name
	}
	return m.paths.Match(relPath, isDir)
}

// ForMode returns the matcher for a configured mode name.
// "gitignore" selects Strict; anything else selects Legacy.
func ForMode(mode string, patterns Patterns) Matcher {
	if mode == ModeGitignore {
		return Strict(patterns)
	}
	return Legacy(patterns)
}

// Match mode names accepted by ForMode.
const (
	ModeLegacy    = "legacy"
	ModeGitignore = "gitignore"
)
