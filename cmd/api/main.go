package main

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/prbeaches/directory/api/internal/config"
	"github.com/prbeaches/directory/api/internal/logging"
	"github.com/prbeaches/directory/api/internal/server"
)

const bootTimeout = 30 * time.Second

func main() {
	// .env is optional.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logging.Fatal().Err(err).Msg("failed to read .env")
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("invalid configuration")
	}
	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
		Output: os.Stderr,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bootCtx, cancel := context.WithTimeout(ctx, bootTimeout)
	app, err := server.New(bootCtx, cfg)
	cancel()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to start server")
	}

	if err := app.Run(ctx); err != nil {
		logging.Error().Err(err).Msg("server stopped with error")
		os.Exit(1)
	}
	logging.Info().Msg("server stopped")
}
