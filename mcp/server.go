package mcp

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/splinterstice/clientapp/internal/config"
	"github.com/splinterstice/clientapp/internal/logger"
	"github.com/splinterstice/clientapp/internal/servers"
	"github.com/splinterstice/clientapp/mcp/internal/handlers"
)

type toolRegisterer interface {
	RegisterTools(s *server.MCPServer) error
}

// newServer builds an MCP server exposing every chat operation plus the
// server endpoint tools, all backed by pool.
func newServer(name, version string, pool *handlers.ClientPool) (*server.MCPServer, error) {
	s := server.NewMCPServer(name, version, server.WithToolCapabilities(true))

	registerers := []struct {
		name string
		h    toolRegisterer
	}{
		{"message", handlers.NewMessageHandler(pool)},
		{"social", handlers.NewSocialHandler(pool)},
		{"file", handlers.NewFileHandler(pool)},
		{"admin", handlers.NewAdminHandler(pool)},
		{"server", handlers.NewServerHandler(pool)},
	}
	for _, r := range registerers {
		if err := r.h.RegisterTools(s); err != nil {
			log.Error().Err(err).Msgf("Failed to register %s tools", r.name)
			return nil, err
		}
	}
	return s, nil
}

// RunMCPServer starts the MCP server and blocks until ctx is cancelled (HTTP
// transport) or stdin closes (stdio transport).
func RunMCPServer(ctx context.Context) error {
	clientCfg, err := config.New()
	if err != nil {
		return err
	}
	mcpCfg, err := config.NewMCP()
	if err != nil {
		return err
	}
	level, err := logger.ParseLevel(clientCfg.LogLevel)
	if err != nil {
		return err
	}
	stdio := shouldUseStdio(mcpCfg.Stdio)
	initLogger(stdio, mcpCfg.ServerName, level)

	def, err := clientCfg.NewClient()
	if err != nil {
		log.Error().Stack().Err(err).Msg("Failed to create client")
		return err
	}
	pool := handlers.NewClientPool(def, servers.NewRegistry(), clientCfg.ClientOptions()...)
	defer func() { _ = pool.Close() }()
	log.Info().Str("base_url", clientCfg.BaseURL).Bool("proxy", clientCfg.ProxyURL != "").Msg("Client created")

	s, err := newServer(mcpCfg.ServerName, mcpCfg.ServerVersion, pool)
	if err != nil {
		return err
	}

	if stdio {
		// Stdio transport (for desktop hosts and launched processes)
		log.Info().Msg("Starting MCP server (stdio transport)")
		return server.ServeStdio(s)
	}
	return serveHTTP(ctx, s, mcpCfg)
}

// serveHTTP runs the Streamable HTTP transport on /mcp with /metrics alongside.
func serveHTTP(ctx context.Context, s *server.MCPServer, cfg *config.MCP) error {
	streamSrv := server.NewStreamableHTTPServer(
		s,
		server.WithEndpointPath("/mcp"),
		server.WithHeartbeatInterval(30*time.Second),
	)

	router := mux.NewRouter()
	router.Handle("/mcp", streamSrv)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	srv := &http.Server{
		Addr:        cfg.HTTPAddr,
		Handler:     router,
		ReadTimeout: cfg.HTTPReadTimeout, // Keep short for request parsing
		// No WriteTimeout: streaming responses stay open.
		IdleTimeout: cfg.HTTPIdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("Starting MCP server (Streamable HTTP)")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		log.Error().Stack().Err(err).Msg("HTTP server error")
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	log.Info().Msg("Shutting down HTTP server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during HTTP server shutdown")
	}
	log.Info().Msg("Shutting down MCP streamable server...")
	if err := streamSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during MCP server shutdown")
		return err
	}
	log.Info().Msg("MCP server shutdown complete")
	return nil
}

// initLogger keeps stdout clean in stdio mode, where it carries the protocol.
func initLogger(stdio bool, service string, level zerolog.Level) {
	if stdio {
		logger.InitConsole(level)
		return
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = logger.NewTo(os.Stderr, service)
}

// shouldUseStdio resolves the configured transport mode.
func shouldUseStdio(mode string) bool {
	switch mode {
	case config.StdioOn:
		return true
	case config.StdioOff:
		return false
	}
	// Auto-detect: Use stdio if stdin is not a terminal (launched by another process)
	if fileInfo, err := os.Stdin.Stat(); err == nil {
		return (fileInfo.Mode() & os.ModeCharDevice) == 0
	}
	return false
}
