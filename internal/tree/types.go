// Package tree builds the nested directory structure of a scan root.
// Entries are listed in directory order, filtered through an ignore.Matcher,
// and carry paths relative to the scan root.
package tree

import (
	"encoding/json"
	"log/slog"

	"github.com/Aman-CERP/filetree/internal/ignore"
)

// Kind distinguishes files from folders.
type Kind string

const (
	// KindFile is a regular file, or anything that is not a directory.
	KindFile Kind = "file"
	// KindFolder is a directory, or a symlink resolving to one.
	KindFolder Kind = "folder"
)

// Entry is one node of a scanned tree.
// Folders always own a (possibly empty) Children slice; files never do.
type Entry struct {
	Name     string
	Kind     Kind
	Path     string   // slash-separated, relative to the scan root
	Children []*Entry // folders only
	Content  *string  // files only, when previews are enabled and readable
}

// IsFolder reports whether e is a folder.
func (e *Entry) IsFolder() bool {
	return e.Kind == KindFolder
}

type wireEntry struct {
	Name     string    `json:"name"`
	Type     Kind      `json:"type"`
	Path     string    `json:"path"`
	Children *[]*Entry `json:"children,omitempty"`
	Content  *string   `json:"content,omitempty"`
}

// MarshalJSON encodes folders with a children array, even when empty, and
// files without one.
func (e Entry) MarshalJSON() ([]byte, error) {
	w := wireEntry{Name: e.Name, Type: e.Kind, Path: e.Path, Content: e.Content}
	if e.Kind == KindFolder {
		children := e.Children
		if children == nil {
			children = []*Entry{}
		}
		w.Children = &children
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes the form written by MarshalJSON.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var w wireEntry
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*e = Entry{Name: w.Name, Kind: w.Type, Path: w.Path, Content: w.Content}
	if w.Children != nil {
		e.Children = *w.Children
	}
	if e.Kind == KindFolder && e.Children == nil {
		e.Children = []*Entry{}
	}
	return nil
}

// Options configures a Builder.
type Options struct {
	// Matcher decides which children are skipped. Nil means ignore.Legacy(nil),
	// which still skips the fixed names.
	Matcher ignore.Matcher

	// Logger receives debug records for absorbed errors. Nil means slog.Default().
	Logger *slog.Logger

	// Previews attaches file content to file entries.
	Previews bool

	// MaxPreviewBytes caps preview size (0 = DefaultMaxPreviewBytes).
	MaxPreviewBytes int64
}

// DefaultMaxPreviewBytes is the preview cap applied when none is set (1MB).
const DefaultMaxPreviewBytes = 1024 * 1024
