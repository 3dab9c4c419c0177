// cmd/main.go is the application entry point. It wires together all layers
// and starts the HTTP server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/fortuna-totem/engine/internal/catalog"
	"github.com/fortuna-totem/engine/internal/config"
	"github.com/fortuna-totem/engine/internal/database"
	"github.com/fortuna-totem/engine/internal/directory"
	"github.com/fortuna-totem/engine/internal/game"
	"github.com/fortuna-totem/engine/internal/handler"
	"github.com/fortuna-totem/engine/internal/repository"
	"github.com/fortuna-totem/engine/internal/service"
)

func main() {
	_ = godotenv.Load()

	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	cat, err := catalog.Load(cfg.PrizesFile, cfg.CatalogTotalRow)
	if err != nil {
		log.Fatal().Err(err).Msg("load prize catalog")
	}
	dir, err := directory.Load(cfg.EmployeesFile)
	if err != nil {
		log.Fatal().Err(err).Msg("load employee directory")
	}
	log.Info().
		Int("prizes", len(cat.List())).
		Int("employees", dir.Size()).
		Msg("event data loaded")

	ctx := context.Background()
	pool, err := database.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to database")
	}
	defer pool.Close()

	if err := database.Migrate(cfg.DB); err != nil {
		log.Fatal().Err(err).Msg("apply migrations")
	}

	rng, err := game.NewRand()
	if err != nil {
		log.Fatal().Err(err).Msg("seed rng")
	}

	plays := repository.NewPlayStore(pool)
	settings := repository.NewSettingsStore(pool)
	svc := service.New(plays, settings, cat, cfg, rng, log)
	h := handler.New(svc, dir, log)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}
