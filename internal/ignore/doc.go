// Package ignore decides which directory entries a scan or watch skips.
//
// Two matching modes are provided behind the Matcher interface:
//
//   - Legacy (the default) matches each pattern as a shell glob against the
//     bare entry name, plus a prefix shortcut for patterns ending in "/".
//   - Strict evaluates full gitignore semantics against the slash-separated
//     path relative to the scan root: anchoring, "**", negation and
//     directory-only patterns.
//
// In both modes the names in AlwaysIgnored are skipped unconditionally.
//
// Usage:
//
//	patterns, err := ignore.Load("/path/to/project/.gitignore")
//	if err != nil {
//	    // degrade to an empty set
//	}
//	m := ignore.Legacy(patterns)
//	if m.Ignore("build", "src/build", true) {
//	    // skip entry
//	}
package ignore
