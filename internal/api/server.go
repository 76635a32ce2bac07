// Package api serves directory structures, file operations and change
// streams over HTTP and WebSocket.
package api

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/Aman-CERP/filetree/internal/assist"
	"github.com/Aman-CERP/filetree/internal/filestore"
	"github.com/Aman-CERP/filetree/internal/roots"
	"github.com/Aman-CERP/filetree/internal/watcher"
)

const shutdownTimeout = 5 * time.Second

// Deps are the services behind the API. Assistant and Sinks are optional.
type Deps struct {
	Roots     *roots.Resolver
	Files     *filestore.Store
	Assistant *assist.Assistant
	Watch     watcher.Options
	// Sinks receive every batch streamed to a WebSocket client as well.
	Sinks  []watcher.Sink
	Logger *slog.Logger
}

// Server is the HTTP boundary.
type Server struct {
	deps   Deps
	logger *slog.Logger
}

// NewServer creates a Server.
func NewServer(deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	deps.Watch.Logger = logger
	return &Server{deps: deps, logger: logger}
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /api/structure", jsonErrorMiddleware(s.handleStructure))
	mux.HandleFunc("GET /api/generated", jsonErrorMiddleware(s.handleGenerated))

	mux.HandleFunc("GET /api/files/{project}", jsonErrorMiddleware(s.handleListFiles))
	mux.HandleFunc("GET /api/files/{project}/{name...}", jsonErrorMiddleware(s.handleLoadFile))
	mux.HandleFunc("PUT /api/files/{project}/{name...}", jsonErrorMiddleware(s.handleSaveFile))
	mux.HandleFunc("POST /api/files/{project}/{name...}", jsonErrorMiddleware(s.handleAppendFile))
	mux.HandleFunc("PATCH /api/files/{project}/{name...}", jsonErrorMiddleware(s.handleEditLine))
	mux.HandleFunc("DELETE /api/files/{project}/{name...}", jsonErrorMiddleware(s.handleDeleteFile))

	mux.HandleFunc("POST /api/assist/{op}", jsonErrorMiddleware(s.handleAssist))

	mux.HandleFunc("GET /ws/changes", s.handleChanges)

	return loggingMiddleware(s.logger, securityHeadersMiddleware(mux))
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", slog.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("http server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
