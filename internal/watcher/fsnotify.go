package watcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/Aman-CERP/filetree/internal/ignore"
)

// errNotifierClosed reports that fsnotify shut down without being asked to.
var errNotifierClosed = errors.New("notifier closed unexpectedly")

// fsnotifySource subscribes to every non-ignored directory under root and
// extends the subscription as directories appear.
type fsnotifySource struct {
	root   string
	fsw    *fsnotify.Watcher
	dirs   map[string]struct{} // watched directories, owned by run after setup
	gone   map[string]struct{} // unsubscribed directories whose late events are dropped
	logger *slog.Logger
}

// newFsnotifySource creates the subscription. On failure everything
// acquired so far is released.
func newFsnotifySource(root string, logger *slog.Logger) (*fsnotifySource, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create notifier: %w", err)
	}

	s := &fsnotifySource{
		root:   root,
		fsw:    fsw,
		dirs:   make(map[string]struct{}),
		gone:   make(map[string]struct{}),
		logger: logger,
	}
	if err := s.addRecursive(root, nil); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return s, nil
}

// addRecursive subscribes dir and its non-ignored subdirectories. When
// emit is non-nil, files already present are reported as created; they may
// have appeared before the subscription existed.
func (s *fsnotifySource) addRecursive(dir string, emit func(ChangeEvent)) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			return nil // Skip entries we can't access
		}

		if !d.IsDir() {
			if emit != nil {
				if rel, ok := relPath(s.root, path); ok && !skipped(rel) {
					emit(ChangeEvent{Type: Created, Path: rel})
				}
			}
			return nil
		}

		if path != s.root && ignore.IsAlwaysIgnored(d.Name()) {
			return filepath.SkipDir
		}

		if err := s.fsw.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		s.dirs[path] = struct{}{}
		delete(s.gone, path)
		return nil
	})
}

func (s *fsnotifySource) run(ctx context.Context, emit func(ChangeEvent), report func(error)) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-s.fsw.Events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return errNotifierClosed
			}
			s.handle(event, emit, report)
		case err, ok := <-s.fsw.Errors:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return errNotifierClosed
			}
			report(err)
		}
	}
}

// handle filters one notification and forwards file changes.
func (s *fsnotifySource) handle(event fsnotify.Event, emit func(ChangeEvent), report func(error)) {
	rel, ok := relPath(s.root, event.Name)
	if !ok || skipped(rel) {
		return
	}

	typ, ok := classify(event.Op)
	if !ok {
		return
	}

	if typ == Deleted || typ == Moved {
		if _, wasDir := s.dirs[event.Name]; wasDir {
			s.unwatch(event.Name)
			return
		}
		// The parent and the directory itself both report a rename or
		// removal; the second one arrives after unwatch.
		if _, wasDir := s.gone[event.Name]; wasDir {
			return
		}
	}

	// Queued before unwatch, from a directory no longer under root.
	if _, stale := s.gone[filepath.Dir(event.Name)]; stale {
		return
	}

	if typ == Created {
		delete(s.gone, event.Name)
	}

	if typ == Created || typ == Modified {
		info, err := os.Stat(event.Name)
		if err == nil && info.IsDir() {
			if typ == Created {
				if err := s.addRecursive(event.Name, emit); err != nil {
					s.logger.Warn("failed to watch new directory",
						slog.String("path", event.Name),
						slog.String("error", err.Error()))
					report(err)
				}
			}
			return
		}
	}

	emit(ChangeEvent{Type: typ, Path: rel})
}

// unwatch drops the subscription for dir and every watched directory below
// it. A renamed directory keeps its inotify watch, still reported under the
// old name.
func (s *fsnotifySource) unwatch(dir string) {
	prefix := dir + string(filepath.Separator)
	for path := range s.dirs {
		if path != dir && !strings.HasPrefix(path, prefix) {
			continue
		}
		// A removed directory has already lost its watch.
		if err := s.fsw.Remove(path); err != nil {
			s.logger.Debug("unwatch directory",
				slog.String("path", path),
				slog.String("error", err.Error()))
		}
		delete(s.dirs, path)
		s.gone[path] = struct{}{}
	}
}

// classify maps an fsnotify op onto an event type. Chmod-only
// notifications are dropped.
func classify(op fsnotify.Op) (EventType, bool) {
	switch {
	case op.Has(fsnotify.Create):
		return Created, true
	case op.Has(fsnotify.Write):
		return Modified, true
	case op.Has(fsnotify.Remove):
		return Deleted, true
	case op.Has(fsnotify.Rename):
		return Moved, true
	default:
		return "", false
	}
}

func (s *fsnotifySource) close() error {
	return s.fsw.Close()
}
