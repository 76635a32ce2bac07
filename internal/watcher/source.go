package watcher

import (
	"context"
	"path"
	"path/filepath"
	"strings"

	"github.com/Aman-CERP/filetree/internal/ignore"
)

// source is a notification producer. run blocks until ctx is cancelled or
// the underlying notifier fails; close releases the OS resources and may be
// called once run has returned or concurrently to unblock it.
type source interface {
	run(ctx context.Context, emit func(ChangeEvent), report func(error)) error
	close() error
}

// relPath converts an absolute path under root to the slash-separated form
// used in events. ok is false for the root itself and for paths outside it.
func relPath(root, path string) (string, bool) {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." || rel == ".." || filepath.IsAbs(rel) {
		return "", false
	}
	if strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// skipped reports whether a relative path lies under an always-ignored name
// or is a temp file of an atomic write.
func skipped(rel string) bool {
	return ignore.ShouldIgnore(rel, nil) || ignore.IsTempFile(path.Base(rel))
}
