package ignore

import (
	"path/filepath"
	"regexp"
	"strings"
	"sync"
)

// PathMatcher evaluates gitignore rules against slash-separated paths
// relative to the scan root. The last matching rule wins, so a later
// negation re-includes a path excluded earlier.
//
// It implements the pattern syntax documented at
// https://git-scm.com/docs/gitignore, with one difference: a negated
// pattern may re-include an entry beneath an excluded directory.
type PathMatcher struct {
	mu    sync.RWMutex
	rules []pathRule
}

type pathRule struct {
	source   string
	regex    *regexp.Regexp
	negation bool // leading "!"
	dirOnly  bool // trailing "/"
	anchored bool // leading "/" or an inner "/"
}

// NewPathMatcher returns an empty PathMatcher.
func NewPathMatcher() *PathMatcher {
	return &PathMatcher{}
}

// AddPattern compiles one gitignore line. Blank lines and comments are
// skipped; "\#" and "\!" escape a literal leading character.
func (m *PathMatcher) AddPattern(line string) {
	pattern := strings.TrimSpace(line)
	if pattern == "" || strings.HasPrefix(pattern, "#") {
		return
	}

	r := pathRule{source: pattern}

	switch {
	case strings.HasPrefix(pattern, `\#`), strings.HasPrefix(pattern, `\!`):
		pattern = pattern[1:]
	case strings.HasPrefix(pattern, "!"):
		r.negation = true
		pattern = pattern[1:]
	}

	if strings.HasSuffix(pattern, "/") {
		r.dirOnly = true
		pattern = strings.TrimSuffix(pattern, "/")
	}
	if strings.HasPrefix(pattern, "/") {
		r.anchored = true
		pattern = strings.TrimPrefix(pattern, "/")
	}
	// "doc/frotz" means "/doc/frotz"; "**/foo" still floats.
	if strings.Contains(pattern, "/") && !strings.HasPrefix(pattern, "**/") {
		r.anchored = true
	}
	if pattern == "" {
		return
	}

	re, err := regexp.Compile("^" + gitignoreToRegex(pattern) + "$")
	if err != nil {
		re = regexp.MustCompile("^" + regexp.QuoteMeta(pattern) + "$")
	}
	r.regex = re

	m.mu.Lock()
	m.rules = append(m.rules, r)
	m.mu.Unlock()
}

// Len returns the number of compiled rules.
func (m *PathMatcher) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rules)
}

// Match reports whether relPath is ignored.
func (m *PathMatcher) Match(relPath string, isDir bool) bool {
	relPath = strings.Trim(filepath.ToSlash(relPath), "/")
	if relPath == "" {
		return false
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	ignored := false
	for _, r := range m.rules {
		if r.matches(relPath, isDir) {
			ignored = !r.negation
		}
	}
	return ignored
}

// matches checks a single rule. A directory-only rule also hits every path
// below a matching directory, since the walk may ask about descendants.
func (r pathRule) matches(path string, isDir bool) bool {
	parts := strings.Split(path, "/")

	if r.anchored {
		if r.regex.MatchString(path) {
			return !r.dirOnly || isDir
		}
		for i := 1; i < len(parts); i++ {
			if r.regex.MatchString(strings.Join(parts[:i], "/")) {
				return true
			}
		}
		return false
	}

	for i, part := range parts {
		if !r.regex.MatchString(part) {
			continue
		}
		last := i == len(parts)-1
		if last {
			return !r.dirOnly || isDir
		}
		// An ancestor matched, so the entry lives inside an ignored path.
		return true
	}

	// Floating patterns with "**" may span several components.
	return strings.Contains(r.source, "**") && r.regex.MatchString(path) && (!r.dirOnly || isDir)
}

// gitignoreToRegex converts a gitignore pattern into an unanchored regex.
// "*" and "?" stop at "/", "**" crosses directories.
func gitignoreToRegex(pattern string) string {
	var result strings.Builder

	i := 0
	for i < len(pattern) {
		c := pattern[i]

		switch c {
		case '*':
			if i+1 < len(pattern) && pattern[i+1] == '*' {
				if i+2 < len(pattern) && pattern[i+2] == '/' {
					result.WriteString("(?:.*/)?")
					i += 3
					continue
				}
				if i == 0 || pattern[i-1] == '/' {
					result.WriteString(".*")
					i += 2
					continue
				}
			}
			result.WriteString("[^/]*")
			i++

		case '?':
			result.WriteString("[^/]")
			i++

		case '[':
			j := i + 1
			for j < len(pattern) && pattern[j] != ']' {
				j++
			}
			if j < len(pattern) {
				class := pattern[i+1 : j]
				if strings.HasPrefix(class, "!") {
					class = "^" + class[1:]
				}
				result.WriteString("[" + class + "]")
				i = j + 1
			} else {
				result.WriteString(`\[`)
				i++
			}

		case '\\':
			if i+1 < len(pattern) {
				result.WriteString(regexp.QuoteMeta(pattern[i+1 : i+2]))
				i += 2
			} else {
				result.WriteString(`\\`)
				i++
			}

		default:
			result.WriteString(regexp.QuoteMeta(pattern[i : i+1]))
			i++
		}
	}

	return result.String()
}
