package ignore

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPathMatcher_Match(t *testing.T) {
	tests := []struct {
		name     string
		pattern  string
		path     string
		isDir    bool
		expected bool
	}{
		// Floating patterns match at any depth
		{name: "filename at root", pattern: "foo.txt", path: "foo.txt", expected: true},
		{name: "filename nested", pattern: "foo.txt", path: "a/b/foo.txt", expected: true},
		{name: "star stays in component", pattern: "*.log", path: "logs/error.log", expected: true},
		{name: "star no match", pattern: "*.log", path: "error.txt", expected: false},

		// Directory-only patterns
		{name: "dir pattern hits dir", pattern: "build/", path: "build", isDir: true, expected: true},
		{name: "dir pattern skips file", pattern: "build/", path: "build", isDir: false, expected: false},
		{name: "dir pattern nested dir", pattern: "build/", path: "pkg/build", isDir: true, expected: true},
		{name: "dir pattern hits contents", pattern: "build/", path: "build/out.bin", expected: true},
		{name: "dir pattern is not a prefix", pattern: "build/", path: "builder.go", expected: false},

		// Anchored patterns
		{name: "rooted matches root", pattern: "/vendor", path: "vendor", isDir: true, expected: true},
		{name: "rooted skips nested", pattern: "/vendor", path: "pkg/vendor", isDir: true, expected: false},
		{name: "inner slash anchors", pattern: "doc/frotz", path: "doc/frotz", expected: true},
		{name: "inner slash not floating", pattern: "doc/frotz", path: "a/doc/frotz", expected: false},
		{name: "anchored dir contents", pattern: "/out/", path: "out/a/b.txt", expected: true},

		// Double star
		{name: "leading double star", pattern: "**/cache", path: "a/b/cache", isDir: true, expected: true},
		{name: "trailing double star", pattern: "tmp/**", path: "tmp/a/b", expected: true},
		{name: "middle double star", pattern: "a/**/z", path: "a/b/c/z", expected: true},
		{name: "middle double star zero dirs", pattern: "a/**/z", path: "a/z", expected: true},

		// Comments and escapes
		{name: "comment ignored", pattern: "# foo", path: "foo", expected: false},
		{name: "escaped hash", pattern: `\#notes`, path: "#notes", expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewPathMatcher()
			m.AddPattern(tt.pattern)
			assert.Equal(t, tt.expected, m.Match(tt.path, tt.isDir))
		})
	}
}

func TestPathMatcher_NegationLastRuleWins(t *testing.T) {
	// Given: exclude all logs but re-include one
	m := NewPathMatcher()
	m.AddPattern("*.log")
	m.AddPattern("!important.log")

	// Then
	assert.True(t, m.Match("debug.log", false))
	assert.False(t, m.Match("important.log", false))
	assert.False(t, m.Match("logs/important.log", false))
}

func TestPathMatcher_SkipsBlankAndComments(t *testing.T) {
	m := NewPathMatcher()
	m.AddPattern("")
	m.AddPattern("   ")
	m.AddPattern("# comment")
	m.AddPattern("/")

	assert.Equal(t, 0, m.Len())
	assert.False(t, m.Match("", true))
}

func TestPathMatcher_ConcurrentMatch(t *testing.T) {
	m := NewPathMatcher()
	m.AddPattern("*.tmp")

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				assert.True(t, m.Match("a/b.tmp", false))
			}
		}()
	}
	wg.Wait()
}
