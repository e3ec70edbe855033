package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trading-dashboard/internal/api"
	"trading-dashboard/internal/catalog"
	"trading-dashboard/internal/config"
	"trading-dashboard/internal/database"
	"trading-dashboard/internal/logging"
	"trading-dashboard/internal/series"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

func main() {
	// Load environment variables
	envErr := godotenv.Load()

	cfg := config.Load()
	logging.Setup(cfg.LogLevel, cfg.IsProduction(), os.Stderr)
	if envErr != nil {
		log.Debug().Msg("no .env file found")
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	store, db := openCatalog(cfg)
	if db != nil {
		defer func() { _ = database.Close(db) }()
	}

	handler := api.NewAPIHandler(store, series.NewGenerator(), api.WithStreamMinInterval(cfg.StreamMinInterval))
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.NewRouter(handler, api.RateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("port", cfg.Port).Str("environment", cfg.Environment).Msg("trading dashboard API listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// openCatalog picks the ticker store: MySQL when DATABASE_URL is set, a YAML
// file when TICKERS_FILE is set, the built-in list otherwise. The local
// catalog seeds an empty database and serves when the database is down.
func openCatalog(cfg *config.Config) (catalog.Store, *gorm.DB) {
	local := localCatalog(cfg)
	if cfg.DatabaseURL == "" {
		return local, nil
	}

	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Warn().Err(err).Msg("database unavailable, using local ticker catalog")
		return local, nil
	}
	store := catalog.NewDB(db)
	seed, _ := local.List(context.Background())
	n, err := store.SeedIfEmpty(context.Background(), seed)
	if err != nil {
		log.Warn().Err(err).Msg("seeding ticker catalog failed, using local ticker catalog")
		_ = database.Close(db)
		return local, nil
	}
	if n > 0 {
		log.Info().Int("tickers", n).Msg("seeded ticker catalog")
	}
	return store, db
}

func localCatalog(cfg *config.Config) *catalog.Static {
	if cfg.TickersFile != "" {
		store, err := catalog.LoadFile(cfg.TickersFile)
		if err == nil {
			return store
		}
		log.Warn().Err(err).Str("file", cfg.TickersFile).Msg("ticker file unusable, using built-in catalog")
	}
	store, err := catalog.NewStatic(catalog.DefaultTickers())
	if err != nil {
		log.Fatal().Err(err).Msg("invalid built-in ticker catalog")
	}
	return store
}
