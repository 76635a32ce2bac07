package watcher

import (
	"context"
	"log/slog"
	"time"
)

// drainTimeout bounds how long Pump keeps forwarding after its context ends
// while the session finishes stopping.
const drainTimeout = 5 * time.Second

// Sink consumes batches from a session, e.g. a terminal printer, a
// WebSocket client or a message broker.
type Sink interface {
	Publish(ctx context.Context, sessionID string, b Batch) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, sessionID string, b Batch) error

// Publish calls f.
func (f SinkFunc) Publish(ctx context.Context, sessionID string, b Batch) error {
	return f(ctx, sessionID, b)
}

// Pump forwards every batch of s to each sink in order until the session
// stops or ctx is cancelled. A failing sink is logged and skipped for that
// batch; it does not stop the others.
//
// After ctx ends Pump keeps forwarding until Batches is closed, so the
// final partial batch of a session stopped by the same ctx still reaches
// the sinks. It returns ctx.Err() in that case.
func Pump(ctx context.Context, s *Session, sinks ...Sink) error {
	for {
		select {
		case <-ctx.Done():
			drain(ctx, s, sinks)
			return ctx.Err()
		case batch, ok := <-s.Batches():
			if !ok {
				return nil
			}
			publish(ctx, s, sinks, batch)
		}
	}
}

// drain forwards what the session delivers while it stops, giving up after
// drainTimeout if it keeps running.
func drain(ctx context.Context, s *Session, sinks []Sink) {
	drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), drainTimeout)
	defer cancel()

	for {
		select {
		case batch, ok := <-s.Batches():
			if !ok {
				return
			}
			publish(drainCtx, s, sinks, batch)
		case <-drainCtx.Done():
			s.logger.Warn("session still running after pump stopped",
				slog.String("session", s.ID()))
			return
		}
	}
}

func publish(ctx context.Context, s *Session, sinks []Sink, batch Batch) {
	for _, sink := range sinks {
		if err := sink.Publish(ctx, s.ID(), batch); err != nil {
			s.logger.Warn("sink publish failed",
				slog.String("session", s.ID()),
				slog.Int("batch_size", len(batch)),
				slog.String("error", err.Error()))
		}
	}
}
