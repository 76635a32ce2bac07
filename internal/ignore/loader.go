package ignore

import (
	"bufio"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	fterrors "github.com/Aman-CERP/filetree/internal/errors"
)

// Load reads an ignore file. A missing file yields an empty set and no
// error; any other failure is an ERR_204 error and callers are expected to
// continue with an empty set.
func Load(path string) (Patterns, error) {
	f, err := os.Open(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return Patterns{}, nil
		}
		return Patterns{}, unreadable(path, err)
	}
	defer func() { _ = f.Close() }()

	patterns, err := Parse(f)
	if err != nil {
		return Patterns{}, unreadable(path, err)
	}
	return patterns, nil
}

// Parse reads patterns line by line. Lines are trimmed; blank lines and
// lines starting with "#" are dropped. Duplicates are kept in file order.
func Parse(r io.Reader) (Patterns, error) {
	patterns := Patterns{}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return patterns, nil
}

// ParseString is Parse over in-memory content.
func ParseString(content string) Patterns {
	patterns, _ := Parse(strings.NewReader(content))
	return patterns
}

func unreadable(path string, err error) error {
	return fterrors.New(fterrors.ErrCodeIgnoreFileUnreadable,
		fmt.Sprintf("cannot read ignore file: %s", path), err).
		WithDetail("path", path)
}
