// main.go
//
// Entry point for the crossclue HTTP server.
// Reads configuration from the environment (.env in development), loads the
// level catalog, opens the progress store, and serves the JSON play API
// until SIGINT/SIGTERM, then flushes pending progress.

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/crossclue/internal/clue"
	"github.com/robalobadob/crossclue/internal/config"
	"github.com/robalobadob/crossclue/internal/httpserver"
	"github.com/robalobadob/crossclue/internal/level"
	"github.com/robalobadob/crossclue/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	zerolog.SetGlobalLevel(cfg.LogLevel)

	catalog, err := level.Load(cfg.LevelsFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load level catalog")
	}

	kv, closeKV, err := store.Open(cfg.Store, cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("store", cfg.Store).Msg("failed to open store")
	}
	defer func() {
		if err := closeKV(); err != nil {
			log.Warn().Err(err).Msg("close store")
		}
	}()

	srv := httpserver.New(httpserver.Options{
		Catalog:      catalog,
		KV:           kv,
		Resolver:     clue.NewResolver(cfg.ClueAssetBase),
		JWTSecret:    cfg.JWTSecret,
		ClientOrigin: cfg.ClientOrigin,
		DailySalt:    cfg.DailySalt,
		SaveAttempts: cfg.SaveRetries,
		SecureCookie: os.Getenv("NODE_ENV") == "production",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() { errc <- srv.Start(":" + cfg.Port) }()
	log.Info().Str("port", cfg.Port).Str("store", cfg.Store).Int("levels", catalog.Len()).Msg("starting crossclue server")

	select {
	case err := <-errc:
		if err != nil {
			log.Error().Err(err).Msg("server exited")
		}
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("shutdown")
	}
}
