package ignore

import (
	"regexp"
	"strings"
	"sync"
)

// compiled caches translated glob patterns. Pattern sets are small and
// reused for every entry of a walk.
var compiled sync.Map // map[string]*regexp.Regexp

// Fnmatch reports whether name matches the shell glob pattern.
// Unlike path.Match, "*" also matches "/", so the pattern applies to the
// whole string. Matching is case-sensitive.
func Fnmatch(name, pattern string) bool {
	if re, ok := compiled.Load(pattern); ok {
		return re.(*regexp.Regexp).MatchString(name)
	}
	re, err := regexp.Compile(`(?s)^` + globToRegex(pattern) + `$`)
	if err != nil {
		// Malformed classes such as "[z-a]" only match themselves.
		re = regexp.MustCompile(`^` + regexp.QuoteMeta(pattern) + `$`)
	}
	compiled.Store(pattern, re)
	return re.MatchString(name)
}

// globToRegex translates a glob into an unanchored regular expression.
func globToRegex(pattern string) string {
	var result strings.Builder

	i := 0
	for i < len(pattern) {
		c := pattern[i]

		switch c {
		case '*':
			// Collapse runs of stars.
			for i < len(pattern) && pattern[i] == '*' {
				i++
			}
			result.WriteString(".*")

		case '?':
			result.WriteString(".")
			i++

		case '[':
			j := i + 1
			if j < len(pattern) && pattern[j] == '!' {
				j++
			}
			if j < len(pattern) && pattern[j] == ']' {
				j++
			}
			for j < len(pattern) && pattern[j] != ']' {
				j++
			}
			if j >= len(pattern) {
				// Unterminated class is a literal bracket.
				result.WriteString(`\[`)
				i++
				continue
			}
			class := pattern[i+1 : j]
			class = strings.ReplaceAll(class, `\`, `\\`)
			if strings.HasPrefix(class, "!") {
				class = "^" + class[1:]
			} else if strings.HasPrefix(class, "^") {
				class = `\` + class
			}
			result.WriteString("[" + class + "]")
			i = j + 1

		default:
			result.WriteString(regexp.QuoteMeta(pattern[i : i+1]))
			i++
		}
	}

	return result.String()
}
