package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/filetree/internal/broadcast"
	"github.com/Aman-CERP/filetree/internal/config"
	"github.com/Aman-CERP/filetree/internal/output"
	"github.com/Aman-CERP/filetree/internal/watcher"
)

type watchOptions struct {
	interval   time.Duration
	mode       string
	jsonOutput bool
	redisAddr  string
}

func newWatchCmd() *cobra.Command {
	var opts watchOptions

	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Print batched file changes until interrupted",
		Long: `Watch a directory recursively and print one batch of distinct file
changes per interval. .git and node_modules are ignored.

Poll mode compares periodic snapshots and works on network mounts where
native notifications are unavailable.`,
		Example: `  # Watch the current directory
  filetree watch

  # Poll every 2 seconds, print JSON lines and publish to Redis
  filetree watch ./src --mode poll --interval 2s --json --redis localhost:6379`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return runWatch(cmd, dir, opts)
		},
	}

	cmd.Flags().DurationVar(&opts.interval, "interval", 0, "Batching window (default from config, 1s)")
	cmd.Flags().StringVar(&opts.mode, "mode", "", "Notification source: fsnotify or poll (default from config)")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Print one JSON message per batch")
	cmd.Flags().StringVar(&opts.redisAddr, "redis", "", "Also publish batches to this Redis address")

	return cmd
}

func runWatch(cmd *cobra.Command, dir string, opts watchOptions) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := cliLogger()
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	wopts := watchOptionsFromConfig(cfg, logger)
	if opts.interval > 0 {
		wopts.Interval = opts.interval
	}
	if opts.mode != "" {
		wopts.Mode = opts.mode
	}

	sinks := []watcher.Sink{consoleSink(cmd.OutOrStdout(), opts.jsonOutput)}

	redisAddr := opts.redisAddr
	if redisAddr == "" {
		redisAddr = cfg.Watch.RedisAddr
	}
	if redisAddr != "" {
		rs, err := broadcast.DialRedis(ctx, redisAddr, cfg.Watch.RedisChannel, logger)
		if err != nil {
			return err
		}
		defer func() { _ = rs.Close() }()
		sinks = append(sinks, rs)
	}

	session, err := watcher.Watch(ctx, dir, wopts)
	if err != nil {
		return err
	}
	defer func() { _ = session.Stop() }()

	go logWatchErrors(session, logger)

	if !opts.jsonOutput {
		output.New(cmd.ErrOrStderr()).Statusf("👀", "Watching %s (%s, every %s)", session.Root(), session.Mode(), wopts.Interval)
	}

	err = watcher.Pump(ctx, session, sinks...)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// watchOptionsFromConfig maps the watch section onto session options.
func watchOptionsFromConfig(cfg *config.Config, logger *slog.Logger) watcher.Options {
	return watcher.Options{
		Interval:     cfg.WatchInterval(),
		Mode:         cfg.Watch.Mode,
		PollInterval: cfg.PollInterval(),
		BufferSize:   cfg.Watch.BufferSize,
		Logger:       logger,
	}
}

// consoleSink prints each batch either as styled lines or as one JSON
// message per line.
func consoleSink(w io.Writer, jsonOutput bool) watcher.Sink {
	out := output.New(w)
	return watcher.SinkFunc(func(_ context.Context, sessionID string, b watcher.Batch) error {
		if !jsonOutput {
			out.Batch(time.Now(), b)
			return nil
		}
		data, err := broadcast.Encode(sessionID, b)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	})
}

func logWatchErrors(s *watcher.Session, logger *slog.Logger) {
	for {
		select {
		case <-s.Done():
			return
		case err, ok := <-s.Errors():
			if !ok {
				return
			}
			logger.Warn("watch error", slog.String("session", s.ID()), slog.String("error", err.Error()))
		}
	}
}
