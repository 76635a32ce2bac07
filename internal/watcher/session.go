package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	fterrors "github.com/Aman-CERP/filetree/internal/errors"
)

// Session is one running watch. It moves from Watching to Stopped exactly
// once: on Stop, on cancellation of the context passed to Watch, or when the
// notifier fails.
type Session struct {
	id      string
	root    string
	mode    string
	opts    Options
	logger  *slog.Logger
	src     source
	pending *pendingSet

	batches chan Batch
	errs    chan error

	cancel       context.CancelFunc
	producerDone chan struct{}
	group        errgroup.Group

	stopOnce sync.Once
	stopErr  error
	done     chan struct{}
}

// Watch subscribes to changes under dir and starts batching them.
//
// If the subscription cannot be established the error matches
// errors.ErrWatchFailed and no resources are left behind.
func Watch(ctx context.Context, dir string, opts Options) (*Session, error) {
	if err := opts.Validate(); err != nil {
		return nil, watchFailed(dir, err)
	}
	opts = opts.WithDefaults()

	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, watchFailed(dir, err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, watchFailed(dir, err)
	}
	if !info.IsDir() {
		return nil, watchFailed(dir, fmt.Errorf("not a directory"))
	}

	var src source
	switch opts.Mode {
	case ModePoll:
		src, err = newPollSource(root, opts.PollInterval, opts.Logger)
	default:
		src, err = newFsnotifySource(root, opts.Logger)
	}
	if err != nil {
		return nil, watchFailed(dir, err)
	}

	return start(ctx, root, src, opts), nil
}

// start launches the producer and cadence goroutines over src.
func start(ctx context.Context, root string, src source, opts Options) *Session {
	runCtx, cancel := context.WithCancel(context.Background())
	s := &Session{
		id:           uuid.NewString(),
		root:         root,
		mode:         opts.Mode,
		opts:         opts,
		logger:       opts.Logger,
		src:          src,
		pending:      newPendingSet(),
		batches:      make(chan Batch, opts.BufferSize),
		errs:         make(chan error, 16),
		cancel:       cancel,
		producerDone: make(chan struct{}),
		done:         make(chan struct{}),
	}

	s.group.Go(func() error { return s.produce(runCtx) })
	s.group.Go(func() error { return s.cadence(runCtx) })

	// Cancellation of the caller's context stops the session.
	go func() {
		select {
		case <-ctx.Done():
			_ = s.Stop()
		case <-s.done:
		}
	}()

	s.logger.Info("watch started",
		slog.String("session", s.id),
		slog.String("root", root),
		slog.String("mode", opts.Mode),
		slog.Duration("interval", opts.Interval))

	return s
}

func watchFailed(dir string, cause error) error {
	return fterrors.New(fterrors.ErrCodeWatchFailed,
		fmt.Sprintf("cannot watch %s", dir), cause).
		WithDetail("path", dir)
}

// produce runs the notifier until the session stops. An unexpected exit of
// the notifier stops the session.
func (s *Session) produce(ctx context.Context) error {
	defer close(s.producerDone)

	err := s.src.run(ctx, s.pending.Add, s.report)
	if err != nil && ctx.Err() == nil {
		s.logger.Error("notifier failed", slog.String("session", s.id), slog.String("error", err.Error()))
		s.report(fterrors.New(fterrors.ErrCodeWatchFailed, "notifier failed", err))
		go func() { _ = s.Stop() }()
	}
	return nil
}

// cadence flushes the pending set every Interval. A batch that cannot be
// delivered yet is held while newer events keep accumulating in the set.
func (s *Session) cadence(ctx context.Context) error {
	ticker := time.NewTicker(s.opts.Interval)
	defer ticker.Stop()

	var held Batch
	for {
		select {
		case <-ctx.Done():
			<-s.producerDone
			s.flushFinal(mergeBatches(held, s.pending.Drain()))
			return nil
		case <-ticker.C:
			if held == nil {
				held = s.pending.Drain()
			}
			if held == nil {
				continue
			}
			select {
			case s.batches <- held:
				held = nil
			default:
				// Consumer is behind; retry next tick with whatever has
				// accumulated merged in.
				held = mergeBatches(held, s.pending.Drain())
			}
		}
	}
}

// flushFinal hands over the last partial batch, waiting at most
// FlushTimeout for buffer space.
func (s *Session) flushFinal(batch Batch) {
	if len(batch) == 0 {
		return
	}

	timer := time.NewTimer(s.opts.FlushTimeout)
	defer timer.Stop()

	select {
	case s.batches <- batch:
	case <-timer.C:
		s.logger.Warn("dropping final batch, consumer not reading",
			slog.String("session", s.id),
			slog.Int("batch_size", len(batch)))
	}
}

// report forwards a non-fatal error without blocking.
func (s *Session) report(err error) {
	select {
	case s.errs <- err:
	default:
		s.logger.Debug("error channel full", slog.String("error", err.Error()))
	}
}

// Stop ends the session: it cancels the notifier, releases the subscription,
// joins both goroutines, delivers any final partial batch and closes
// Batches and Errors. Safe to call multiple times and concurrently.
func (s *Session) Stop() error {
	s.stopOnce.Do(func() {
		s.cancel()
		s.stopErr = s.src.close()
		_ = s.group.Wait()

		close(s.batches)
		close(s.errs)
		close(s.done)

		s.logger.Info("watch stopped", slog.String("session", s.id))
	})
	return s.stopErr
}

// Batches returns the channel of change batches. It is closed after Stop.
func (s *Session) Batches() <-chan Batch {
	return s.batches
}

// Errors returns non-fatal notifier errors. It is closed after Stop.
func (s *Session) Errors() <-chan error {
	return s.errs
}

// Done is closed once the session has fully stopped.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// ID returns the unique session identifier.
func (s *Session) ID() string {
	return s.id
}

// Root returns the absolute watched directory.
func (s *Session) Root() string {
	return s.root
}

// Mode returns the notification source in use.
func (s *Session) Mode() string {
	return s.mode
}
