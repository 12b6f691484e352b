package devserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/splinterstice/clientapp/internal/config"
)

// Run serves the development backend until ctx is cancelled or the server fails.
func Run(ctx context.Context, cfg *config.DevServer, log zerolog.Logger) error {
	store := NewStore(cfg.HistoryLimit)
	router := NewRouter(store, Options{
		BasePath:       cfg.BasePath,
		MaxUploadBytes: cfg.MaxUploadBytes,
		Logger:         log,
	})

	// Request contexts derive from the default background context, so
	// cancelling ctx does not abort requests that Shutdown is draining.
	server := &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ln, err := net.Listen("tcp", cfg.GetHTTPAddr())
	if err != nil {
		log.Error().Err(err).Str("addr", cfg.GetHTTPAddr()).Msg("Failed to listen")
		return err
	}
	log.Info().Int("port", cfg.HTTPPort).Str("base_path", cfg.BasePath).Msg("HTTP server starting")
	return serve(ctx, server, ln, cfg.ShutdownTimeout, log)
}

// serve runs server on ln and shuts it down gracefully once ctx is done.
func serve(ctx context.Context, server *http.Server, ln net.Listener, shutdownTimeout time.Duration, log zerolog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Graceful shutdown on context cancel or server error
	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down server")
		ctxShutdown, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctxShutdown); err != nil {
			log.Error().Stack().Err(err).Msg("Server forced to shutdown")
			return err
		}
		log.Info().Msg("Server exited")
		return nil
	case err := <-errCh:
		log.Error().Stack().Err(err).Msg("HTTP server failed")
		return err
	}
}
