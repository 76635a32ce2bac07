package broadcast

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Aman-CERP/filetree/internal/watcher"
)

// DefaultWriteTimeout bounds a single WebSocket write.
const DefaultWriteTimeout = 10 * time.Second

// WebSocketSink writes batches as text frames to one connection.
type WebSocketSink struct {
	mu           sync.Mutex
	conn         *websocket.Conn
	writeTimeout time.Duration
}

// NewWebSocketSink wraps conn. A non-positive timeout means
// DefaultWriteTimeout.
func NewWebSocketSink(conn *websocket.Conn, writeTimeout time.Duration) *WebSocketSink {
	if writeTimeout <= 0 {
		writeTimeout = DefaultWriteTimeout
	}
	return &WebSocketSink{conn: conn, writeTimeout: writeTimeout}
}

// Publish implements watcher.Sink.
func (s *WebSocketSink) Publish(_ context.Context, sessionID string, b watcher.Batch) error {
	payload, err := Encode(sessionID, b)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout)); err != nil {
		return err
	}
	return s.conn.WriteMessage(websocket.TextMessage, payload)
}
