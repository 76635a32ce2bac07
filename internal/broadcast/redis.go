package broadcast

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	fterrors "github.com/Aman-CERP/filetree/internal/errors"
	"github.com/Aman-CERP/filetree/internal/watcher"
)

// DefaultRedisChannel is the pub/sub channel used when none is configured.
const DefaultRedisChannel = "filetree:changes"

// publisher is the part of a go-redis client RedisSink needs.
type publisher interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

// RedisSink publishes batches on a Redis pub/sub channel.
type RedisSink struct {
	client  publisher
	closer  func() error
	channel string
	logger  *slog.Logger
}

// RedisOptions builds client options from an address. Both "host:port" and
// redis:// URLs are accepted.
func RedisOptions(addr string) (*redis.Options, error) {
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		opts, err := redis.ParseURL(addr)
		if err != nil {
			return nil, fterrors.ConfigError(fmt.Sprintf("invalid redis url %q", addr), err)
		}
		return opts, nil
	}
	if addr == "" {
		return nil, fterrors.ConfigError("redis address is empty", nil)
	}
	return &redis.Options{Addr: addr}, nil
}

// DialRedis connects to addr and verifies the connection with PING.
func DialRedis(ctx context.Context, addr, channel string, logger *slog.Logger) (*RedisSink, error) {
	opts, err := RedisOptions(addr)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fterrors.New(fterrors.ErrCodeNetworkTimeout,
			fmt.Sprintf("cannot connect to redis at %s", opts.Addr), err).
			WithSuggestion("Check watch.redis_addr or unset it to disable publishing")
	}

	sink := NewRedisSink(rdb, channel, logger)
	sink.closer = rdb.Close
	return sink, nil
}

// NewRedisSink wraps an existing client.
func NewRedisSink(client publisher, channel string, logger *slog.Logger) *RedisSink {
	if channel == "" {
		channel = DefaultRedisChannel
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisSink{client: client, channel: channel, logger: logger}
}

// Publish implements watcher.Sink.
func (s *RedisSink) Publish(ctx context.Context, sessionID string, b watcher.Batch) error {
	payload, err := Encode(sessionID, b)
	if err != nil {
		return err
	}
	receivers, err := s.client.Publish(ctx, s.channel, payload).Result()
	if err != nil {
		return fterrors.New(fterrors.ErrCodeNetworkTimeout, "redis publish failed", err).
			WithDetail("channel", s.channel)
	}
	s.logger.Debug("batch published",
		slog.String("channel", s.channel),
		slog.String("session", sessionID),
		slog.Int("batch_size", len(b)),
		slog.Int64("receivers", receivers))
	return nil
}

// Channel returns the pub/sub channel name.
func (s *RedisSink) Channel() string {
	return s.channel
}

// Close releases the client when the sink owns it.
func (s *RedisSink) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}
