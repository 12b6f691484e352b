package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/splinterstice/clientapp/internal/config"
	"github.com/splinterstice/clientapp/internal/devserver"
	"github.com/splinterstice/clientapp/internal/logger"
)

func main() {
	port := flag.Int("port", 0, "Override SPLINTERSTICE_DEVSERVER_HTTP_PORT")
	flag.Parse()

	log := logger.New("splinterstice-devserver")

	cfg, err := config.NewDevServer()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if *port != 0 {
		cfg.HTTPPort = *port
		if err := cfg.Validate(); err != nil {
			log.Fatal().Err(err).Msg("Invalid port override")
		}
	}
	if lvl, err := logger.ParseLevel(cfg.LogLevel); err == nil {
		log = log.Level(lvl)
	} else {
		log = log.Level(zerolog.InfoLevel)
		log.Warn().Err(err).Msg("Falling back to info level")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := devserver.Run(ctx, cfg, log); err != nil {
		stop()
		os.Exit(1)
	}
}
