package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/Aman-CERP/filetree/internal/ignore"
)

// pollSource detects changes by periodically snapshotting the tree.
// Used where fsnotify is unreliable: network mounts and container volumes.
type pollSource struct {
	root     string
	interval time.Duration
	state    map[string]fileSnapshot // keyed by relative path, files only
	logger   *slog.Logger
}

type fileSnapshot struct {
	modTime time.Time
	size    int64
}

// newPollSource records the baseline snapshot. The root must be readable.
func newPollSource(root string, interval time.Duration, logger *slog.Logger) (*pollSource, error) {
	p := &pollSource{root: root, interval: interval, logger: logger}
	state, err := p.snapshot()
	if err != nil {
		return nil, fmt.Errorf("perform initial scan: %w", err)
	}
	p.state = state
	return p, nil
}

func (p *pollSource) run(ctx context.Context, emit func(ChangeEvent), report func(error)) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := p.detectChanges(emit); err != nil {
				report(err)
			}
		}
	}
}

// snapshot walks the tree and records every file.
func (p *pollSource) snapshot() (map[string]fileSnapshot, error) {
	state := make(map[string]fileSnapshot)

	err := filepath.WalkDir(p.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == p.root {
				return err
			}
			return nil // Skip entries we can't access
		}

		if d.IsDir() {
			if path != p.root && ignore.IsAlwaysIgnored(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		rel, ok := relPath(p.root, path)
		if !ok || skipped(rel) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		state[rel] = fileSnapshot{modTime: info.ModTime(), size: info.Size()}
		return nil
	})
	return state, err
}

// detectChanges diffs a fresh snapshot against the previous one.
func (p *pollSource) detectChanges(emit func(ChangeEvent)) error {
	current, err := p.snapshot()
	if err != nil {
		return fmt.Errorf("walk directory for changes: %w", err)
	}

	for path, snap := range current {
		prev, exists := p.state[path]
		switch {
		case !exists:
			emit(ChangeEvent{Type: Created, Path: path})
		case !prev.modTime.Equal(snap.modTime) || prev.size != snap.size:
			emit(ChangeEvent{Type: Modified, Path: path})
		}
	}
	for path := range p.state {
		if _, exists := current[path]; !exists {
			emit(ChangeEvent{Type: Deleted, Path: path})
		}
	}

	p.logger.Debug("poll snapshot compared",
		slog.Int("files", len(current)),
		slog.Int("previous", len(p.state)))
	p.state = current
	return nil
}

func (p *pollSource) close() error {
	return nil
}
