package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Aman-CERP/filetree/internal/filestore"
	"github.com/Aman-CERP/filetree/internal/roots"
	"github.com/Aman-CERP/filetree/pkg/version"
)

// serverName is reported to clients during initialization.
const serverName = "filetree"

// Server is the MCP server for filetree.
type Server struct {
	mcp    *mcp.Server
	roots  *roots.Resolver
	files  *filestore.Store
	logger *slog.Logger
}

// NewServer creates a new MCP server. The file store may be nil, in which
// case read_file reports invalid params.
func NewServer(resolver *roots.Resolver, files *filestore.Store, logger *slog.Logger) (*Server, error) {
	if resolver == nil {
		return nil, errors.New("root resolver is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		roots:  resolver,
		files:  files,
		logger: logger,
	}

	s.mcp = mcp.NewServer(
		&mcp.Implementation{
			Name:    serverName,
			Version: version.Version,
		},
		nil,
	)

	s.registerTools()
	s.registerResources()

	return s, nil
}

// MCPServer returns the underlying MCP server instance.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcp
}

// Info returns the server name and version.
func (s *Server) Info() (name, ver string) {
	return serverName, version.Version
}

// Serve runs the server on the given transport until ctx is done or the
// client disconnects. Only "stdio" is supported.
func (s *Server) Serve(ctx context.Context, transport string) error {
	s.logger.Info("Starting MCP server", slog.String("transport", transport))

	if transport != "stdio" {
		return fmt.Errorf("unknown transport: %s (supported: stdio)", transport)
	}

	err := s.mcp.Run(ctx, &mcp.StdioTransport{})
	if err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Error("MCP server stopped with error", slog.String("error", err.Error()))
		return err
	}
	s.logger.Info("MCP server stopped gracefully")
	return nil
}
