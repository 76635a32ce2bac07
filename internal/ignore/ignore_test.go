package ignore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

// =============================================================================
// Fixed names
// =============================================================================

func TestShouldIgnore_FixedNamesRegardlessOfPatterns(t *testing.T) {
	sets := map[string]Patterns{
		"nil":       nil,
		"empty":     {},
		"unrelated": {"*.log"},
	}

	for setName, patterns := range sets {
		for _, name := range []string{".git", "node_modules", "a/node_modules", filepath.Join("x", ".git", "HEAD")} {
			t.Run(setName+"/"+name, func(t *testing.T) {
				assert.True(t, ShouldIgnore(name, patterns))
			})
		}
	}
}

func TestShouldIgnore_EmptyPatternsIgnoreNothingElse(t *testing.T) {
	assert.False(t, ShouldIgnore("a.txt", nil))
	assert.False(t, ShouldIgnore("a.txt", Patterns{}))
	assert.False(t, ShouldIgnore(".gitignore", nil))
	assert.False(t, ShouldIgnore("node_modules_backup", nil))
}

// =============================================================================
// Glob and directory-prefix rules
// =============================================================================

func TestShouldIgnore_GlobPatterns(t *testing.T) {
	tests := []struct {
		name     string
		pattern  string
		entry    string
		expected bool
	}{
		{name: "extension glob", pattern: "*.log", entry: "app.log", expected: true},
		{name: "extension glob no match", pattern: "*.log", entry: "main.go", expected: false},
		{name: "exact name", pattern: "dist", entry: "dist", expected: true},
		{name: "question mark", pattern: "file?.txt", entry: "file1.txt", expected: true},
		{name: "question mark too long", pattern: "file?.txt", entry: "file12.txt", expected: false},
		{name: "character class", pattern: "[ab].go", entry: "a.go", expected: true},
		{name: "negated class", pattern: "[!ab].go", entry: "a.go", expected: false},
		{name: "negated class other", pattern: "[!ab].go", entry: "c.go", expected: true},
		{name: "star crosses slash", pattern: "src*", entry: "src/x", expected: true},
		{name: "case sensitive", pattern: "*.LOG", entry: "app.log", expected: false},
		{name: "dot is literal", pattern: "a.b", entry: "axb", expected: false},
		{name: "unterminated class is literal", pattern: "[abc", entry: "[abc", expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ShouldIgnore(tt.entry, Patterns{tt.pattern})
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestShouldIgnore_DirectoryPrefixShortcut(t *testing.T) {
	patterns := Patterns{"build/"}

	// Given: a pattern with a trailing slash
	// Then: the bare name matches with or without the slash
	assert.True(t, ShouldIgnore("build", patterns))
	assert.True(t, ShouldIgnore("build/out.bin", patterns))

	// The shortcut is a plain prefix test on the bare name, so siblings that
	// merely share the prefix are excluded too. Strict mode does not do this.
	assert.True(t, ShouldIgnore("builder.go", patterns))
	assert.False(t, Strict(patterns).Ignore("builder.go", "builder.go", false))

	assert.False(t, ShouldIgnore("src", patterns))
}

func TestShouldIgnore_ConcreteScenario(t *testing.T) {
	// Given: an ignore file with *.log and build/
	patterns := ParseString("*.log\nbuild/\n")

	// Then: only main.go survives
	assert.True(t, ShouldIgnore("app.log", patterns))
	assert.True(t, ShouldIgnore("build", patterns))
	assert.False(t, ShouldIgnore("main.go", patterns))
}

// =============================================================================
// Matcher modes
// =============================================================================

func TestForMode_SelectsMatcher(t *testing.T) {
	patterns := Patterns{"docs/*.md"}

	legacy := ForMode(ModeLegacy, patterns)
	strict := ForMode(ModeGitignore, patterns)

	// Legacy matches the bare name only, so an anchored path pattern never hits
	assert.False(t, legacy.Ignore("a.md", "docs/a.md", false))
	// Strict evaluates the relative path
	assert.True(t, strict.Ignore("a.md", "docs/a.md", false))
	assert.False(t, strict.Ignore("a.md", "other/a.md", false))

	assert.IsType(t, legacyMatcher{}, ForMode("", patterns))
}

func TestStrict_AlwaysIgnoresFixedNames(t *testing.T) {
	m := Strict(nil)

	assert.True(t, m.Ignore(".git", ".git", true))
	assert.True(t, m.Ignore("node_modules", "web/node_modules", true))
	assert.False(t, m.Ignore("main.go", "main.go", false))
}

func TestMatchers_SkipTempFiles(t *testing.T) {
	tests := []struct {
		name    string
		matcher Matcher
	}{
		{"legacy", Legacy(nil)},
		{"strict", Strict(nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Given: a temp file left mid-write next to regular files
			// Then: only the temp file is excluded
			assert.True(t, tt.matcher.Ignore(".filetree-123.tmp", "shop/.filetree-123.tmp", false))
			assert.False(t, tt.matcher.Ignore(".filetree-123.txt", "shop/.filetree-123.txt", false))
			assert.False(t, tt.matcher.Ignore("app.tmp", "shop/app.tmp", false))
		})
	}

	assert.True(t, IsTempFile(".filetree-9.tmp"))
	assert.False(t, ShouldIgnore(".filetree-9.tmp", nil), "ShouldIgnore keeps pattern-only semantics")
}
