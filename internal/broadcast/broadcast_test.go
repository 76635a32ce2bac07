package broadcast

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fterrors "github.com/Aman-CERP/filetree/internal/errors"
	"github.com/Aman-CERP/filetree/internal/logging"
	"github.com/Aman-CERP/filetree/internal/watcher"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name  string
		batch watcher.Batch
		want  string
	}{
		{
			name:  "changes",
			batch: watcher.Batch{{Type: watcher.Created, Path: "a.txt"}, {Type: watcher.Deleted, Path: "b/c.go"}},
			want:  `{"session":"s1","changes":[{"type":"created","path":"a.txt"},{"type":"deleted","path":"b/c.go"}]}`,
		},
		{
			name:  "nil batch",
			batch: nil,
			want:  `{"session":"s1","changes":[]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode("s1", tt.batch)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))
		})
	}
}

// =============================================================================
// Redis
// =============================================================================

type fakePublisher struct {
	channel string
	payload []byte
	err     error
}

func (f *fakePublisher) Publish(_ context.Context, channel string, message any) *redis.IntCmd {
	f.channel = channel
	f.payload, _ = message.([]byte)
	return redis.NewIntResult(1, f.err)
}

func TestRedisSink_PublishesEncodedBatch(t *testing.T) {
	// Given
	pub := &fakePublisher{}
	sink := NewRedisSink(pub, "", logging.Discard())
	batch := watcher.Batch{{Type: watcher.Modified, Path: "x"}}

	// When
	err := sink.Publish(context.Background(), "sess", batch)

	// Then
	require.NoError(t, err)
	assert.Equal(t, DefaultRedisChannel, pub.channel)
	var msg Message
	require.NoError(t, json.Unmarshal(pub.payload, &msg))
	assert.Equal(t, Message{Session: "sess", Changes: batch}, msg)
	assert.NoError(t, sink.Close())
}

func TestRedisSink_PublishFailureIsRetryable(t *testing.T) {
	sink := NewRedisSink(&fakePublisher{err: errors.New("connection refused")}, "c", logging.Discard())

	err := sink.Publish(context.Background(), "sess", watcher.Batch{{Type: watcher.Created, Path: "a"}})

	require.Error(t, err)
	assert.True(t, fterrors.IsRetryable(err))
	assert.Equal(t, "c", sink.Channel())
}

func TestRedisOptions(t *testing.T) {
	opts, err := RedisOptions("localhost:6380")
	require.NoError(t, err)
	assert.Equal(t, "localhost:6380", opts.Addr)

	opts, err = RedisOptions("redis://:pw@cache:6379/2")
	require.NoError(t, err)
	assert.Equal(t, "cache:6379", opts.Addr)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, "pw", opts.Password)

	_, err = RedisOptions("")
	assert.Equal(t, fterrors.ErrCodeConfigInvalid, fterrors.GetCode(err))
	_, err = RedisOptions("redis://cache:notaport/x")
	assert.Error(t, err)
}

// =============================================================================
// WebSocket
// =============================================================================

func TestWebSocketSink_WritesOneFramePerBatch(t *testing.T) {
	// Given: a server that publishes two batches to whoever connects
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		sink := NewWebSocketSink(conn, 0)
		_ = sink.Publish(r.Context(), "s", watcher.Batch{{Type: watcher.Created, Path: "a"}})
		_ = sink.Publish(r.Context(), "s", watcher.Batch{{Type: watcher.Deleted, Path: "a"}})
		_, _, _ = conn.ReadMessage()
	}))
	defer srv.Close()

	// When
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	// Then
	var first, second Message
	require.NoError(t, conn.ReadJSON(&first))
	require.NoError(t, conn.ReadJSON(&second))
	assert.Equal(t, watcher.Batch{{Type: watcher.Created, Path: "a"}}, first.Changes)
	assert.Equal(t, watcher.Batch{{Type: watcher.Deleted, Path: "a"}}, second.Changes)
}
