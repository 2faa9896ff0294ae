package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/tastcoffee/contentops/internal/api"
	"github.com/tastcoffee/contentops/internal/captions"
	"github.com/tastcoffee/contentops/internal/config"
	"github.com/tastcoffee/contentops/internal/localstate"
	"github.com/tastcoffee/contentops/internal/platform/logger"
	"github.com/tastcoffee/contentops/internal/store"
	"github.com/tastcoffee/contentops/internal/store/postgres"
	"github.com/tastcoffee/contentops/internal/store/sqlite"
)

func main() {
	_ = godotenv.Load()

	log := logger.New("content-service")

	cfg, err := config.New()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log.Info().
		Str("store_driver", cfg.StoreDriver).
		Int("http_port", cfg.HTTPPort).
		Msg("Content service starting")

	ctx := context.Background()

	var st store.Store
	switch cfg.StoreDriver {
	case "postgres":
		st, err = postgres.New(ctx, cfg.PostgresDSN, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Postgres store unavailable")
		}
	case "sqlite":
		path := cfg.SQLitePath
		if path == "" {
			path, err = localstate.DBPath()
			if err != nil {
				log.Fatal().Err(err).Msg("Cannot resolve local database path")
			}
		}
		db, err := sqlite.Open(path)
		if err != nil {
			log.Fatal().Err(err).Str("path", path).Msg("Cannot open local database")
		}
		st, err = sqlite.New(db)
		if err != nil {
			log.Fatal().Err(err).Msg("SQLite store unavailable")
		}
	default:
		log.Fatal().Str("store_driver", cfg.StoreDriver).Msg("Unsupported store driver")
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.Warn().Err(err).Msg("Store close failed")
		}
	}()

	gen := captions.NewGenerator(cfg.CaptionAPIURL, cfg.CaptionAPIKey, cfg.CaptionModel, log)

	router := api.NewRouter(st, gen, log)
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 75 * time.Second, // caption generation can take a while
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server")
	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}
