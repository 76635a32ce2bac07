package watcher

import (
	"fmt"
	"log/slog"
	"sort"
	"time"
)

// EventType is the kind of change observed for a file.
type EventType string

const (
	// Created indicates a new file.
	Created EventType = "created"
	// Modified indicates a write to an existing file.
	Modified EventType = "modified"
	// Deleted indicates a removed file.
	Deleted EventType = "deleted"
	// Moved indicates a file renamed away from Path.
	Moved EventType = "moved"
)

// ChangeEvent is one observed change. It is comparable and serves directly
// as the dedup key within a batching window.
type ChangeEvent struct {
	Type EventType `json:"type"`
	// Path is slash-separated and relative to the watched directory.
	Path string `json:"path"`
}

// String returns "type path".
func (e ChangeEvent) String() string {
	return string(e.Type) + " " + e.Path
}

// Batch is the set of distinct events from one window, sorted by path and
// then type.
type Batch []ChangeEvent

func (b Batch) sort() {
	sort.Slice(b, func(i, j int) bool {
		if b[i].Path != b[j].Path {
			return b[i].Path < b[j].Path
		}
		return b[i].Type < b[j].Type
	})
}

// Watch modes.
const (
	ModeFsnotify = "fsnotify"
	ModePoll     = "poll"
)

// Options configures a watch session.
type Options struct {
	// Interval is the batching window.
	// Default: 1s
	Interval time.Duration

	// Mode selects the notification source: "fsnotify" or "poll".
	// Default: fsnotify
	Mode string

	// PollInterval is the snapshot period in poll mode.
	// Default: 1s
	PollInterval time.Duration

	// BufferSize is the capacity of the Batches channel.
	// Default: 16
	BufferSize int

	// FlushTimeout bounds how long Stop waits to hand over the final
	// partial batch when the consumer is not reading.
	// Default: Interval
	FlushTimeout time.Duration

	// Logger receives diagnostics. Nil means slog.Default().
	Logger *slog.Logger
}

// DefaultOptions returns the default watcher options.
func DefaultOptions() Options {
	return Options{
		Interval:     time.Second,
		Mode:         ModeFsnotify,
		PollInterval: time.Second,
		BufferSize:   16,
	}
}

// WithDefaults returns options with defaults applied for zero values.
func (o Options) WithDefaults() Options {
	defaults := DefaultOptions()
	if o.Interval <= 0 {
		o.Interval = defaults.Interval
	}
	if o.Mode == "" {
		o.Mode = defaults.Mode
	}
	if o.PollInterval <= 0 {
		o.PollInterval = defaults.PollInterval
	}
	if o.BufferSize <= 0 {
		o.BufferSize = defaults.BufferSize
	}
	if o.FlushTimeout <= 0 {
		o.FlushTimeout = o.Interval
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// Validate validates the options and returns an error if invalid.
func (o Options) Validate() error {
	switch o.Mode {
	case "", ModeFsnotify, ModePoll:
		return nil
	default:
		return fmt.Errorf("unknown watch mode %q (use %s or %s)", o.Mode, ModeFsnotify, ModePoll)
	}
}
