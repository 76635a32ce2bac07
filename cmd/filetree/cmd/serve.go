package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/filetree/internal/api"
	"github.com/Aman-CERP/filetree/internal/assist"
	"github.com/Aman-CERP/filetree/internal/broadcast"
	"github.com/Aman-CERP/filetree/internal/config"
	"github.com/Aman-CERP/filetree/internal/filestore"
	"github.com/Aman-CERP/filetree/internal/logging"
	"github.com/Aman-CERP/filetree/internal/mcp"
	"github.com/Aman-CERP/filetree/internal/watcher"
)

// Serve transports.
const (
	transportHTTP  = "http"
	transportStdio = "stdio"
)

func newServeCmd() *cobra.Command {
	var (
		addr      string
		transport string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP/WebSocket API or the MCP server",
		Long: `Start the HTTP API with the /ws/changes WebSocket stream, or run as an
MCP server on stdio for AI clients.

In stdio mode stdout carries only protocol messages; logs go to
~/.filetree/logs/server.log.`,
		Example: `  # HTTP on the configured address
  filetree serve

  # HTTP on a specific port
  filetree serve --addr :9000

  # MCP over stdio
  filetree serve --transport stdio`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, transport, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address (default from config, :8765)")
	cmd.Flags().StringVar(&transport, "transport", "", "Transport: http or stdio (default from config)")

	return cmd
}

func runServe(cmd *cobra.Command, transport, addr string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if transport == "" {
		transport = cfg.Server.Transport
	}
	if addr == "" {
		addr = cfg.Server.Addr
	}

	switch transport {
	case transportStdio:
		return serveStdio(ctx, cfg)
	case transportHTTP:
		return serveHTTP(ctx, cfg, addr)
	default:
		return fmt.Errorf("unknown transport: %s (supported: %s, %s)", transport, transportHTTP, transportStdio)
	}
}

func serveStdio(ctx context.Context, cfg *config.Config) error {
	logger, cleanup, err := logging.Setup(logging.StdioConfig(cfg.Server.LogLevel))
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	defer cleanup()

	resolver, err := newResolver(cfg, logger)
	if err != nil {
		return err
	}
	server, err := mcp.NewServer(resolver, filestore.New(cfg.Paths, logger), logger)
	if err != nil {
		return err
	}
	return server.Serve(ctx, transportStdio)
}

func serveHTTP(ctx context.Context, cfg *config.Config, addr string) error {
	logger := cliLogger()
	if !debugMode {
		logger = logging.Stderr(cfg.Server.LogLevel)
	}

	resolver, err := newResolver(cfg, logger)
	if err != nil {
		return err
	}
	files := filestore.New(cfg.Paths, logger)
	gen := assist.NewOllamaGenerator(cfg.Assist, logger)

	deps := api.Deps{
		Roots:     resolver,
		Files:     files,
		Assistant: assist.New(files, gen, logger),
		Watch:     watchOptionsFromConfig(cfg, logger),
		Logger:    logger,
	}

	if cfg.Watch.RedisAddr != "" {
		rs, err := broadcast.DialRedis(ctx, cfg.Watch.RedisAddr, cfg.Watch.RedisChannel, logger)
		if err != nil {
			return err
		}
		defer func() { _ = rs.Close() }()
		deps.Sinks = []watcher.Sink{rs}
		logger.Info("publishing change batches to redis",
			slog.String("addr", cfg.Watch.RedisAddr),
			slog.String("channel", rs.Channel()))
	}

	return api.NewServer(deps).ListenAndServe(ctx, addr)
}
