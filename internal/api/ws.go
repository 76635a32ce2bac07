package api

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Aman-CERP/filetree/internal/broadcast"
	"github.com/Aman-CERP/filetree/internal/roots"
	"github.com/Aman-CERP/filetree/internal/watcher"
)

const (
	wsReadBufferSize  = 1024
	wsWriteBufferSize = 1024
	wsWriteTimeout    = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  wsReadBufferSize,
	WriteBufferSize: wsWriteBufferSize,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// watchDir picks the directory to watch for a plan: its first root that is
// a directory.
func watchDir(plan roots.Plan) (string, bool) {
	for _, root := range plan.Roots {
		if info, err := os.Stat(root); err == nil && info.IsDir() {
			return root, true
		}
	}
	return "", false
}

// handleChanges streams change batches for ?path_type= over a WebSocket.
// The watch session lives exactly as long as the connection.
func (s *Server) handleChanges(w http.ResponseWriter, r *http.Request) {
	pathType := r.URL.Query().Get("path_type")
	if pathType == "" {
		writeJSONError(w, badRequest("path_type is required"))
		return
	}
	plan, err := s.deps.Roots.Resolve(pathType)
	if err != nil {
		writeJSONError(w, toAPIError(err))
		return
	}
	dir, ok := watchDir(plan)
	if !ok {
		writeJSONError(w, &apiError{Status: http.StatusNotFound, Message: "no directory to watch for " + pathType, Code: "not_found"})
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sess, err := watcher.Watch(ctx, dir, s.deps.Watch)
	if err != nil {
		writeJSONError(w, toAPIError(err))
		return
	}
	defer func() { _ = sess.Stop() }()

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}
	defer func() { _ = conn.Close() }()

	s.logger.Info("change stream opened",
		slog.String("session", sess.ID()),
		slog.String("path_type", pathType),
		slog.String("dir", dir),
		slog.String("remote_addr", r.RemoteAddr))

	// The client never sends data; a read error means it went away.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	sinks := append([]watcher.Sink{broadcast.NewWebSocketSink(conn, wsWriteTimeout)}, s.deps.Sinks...)
	_ = watcher.Pump(ctx, sess, sinks...)

	s.logger.Info("change stream closed", slog.String("session", sess.ID()))
	deadline := time.Now().Add(wsWriteTimeout)
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
}
