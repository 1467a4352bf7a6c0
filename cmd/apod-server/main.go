package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/dfryer1193/apodwall/internal/rest"
	"github.com/dfryer1193/apodwall/shared/config"
	"github.com/dfryer1193/apodwall/shared/db/sqlite"
	"github.com/dfryer1193/apodwall/shared/logger"
	"github.com/dfryer1193/apodwall/wallpaper/persistence"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 5 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		config.Exitf("Error: %v", err)
	}

	logger.SetGlobalLogger(logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.LogPretty,
	}))

	dir := cfg.ImageDir
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}
	if dir == "" {
		config.Exitf("Usage: apod-server <dir> (or set APOD_IMAGE_DIR)")
	}
	dir, err = filepath.Abs(dir)
	if err != nil {
		config.Exitf("Error: invalid image directory: %v", err)
	}

	database := sqlite.NewSQLiteDB(sqlite.NewSQLiteConfig(dir, cfg.DBName))
	if err := database.Connect(); err != nil {
		log.Fatal().Err(err).Str("path", database.Path()).Msg("Failed to open record store")
	}
	defer database.Close()

	gin.SetMode(gin.ReleaseMode)
	images := rest.NewImageHandler(persistence.NewImageRepository(database.DB()), database.DB().PingContext)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           rest.NewRouter(images),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.ServerPort).Str("dir", dir).Msg("Starting gallery server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to shutdown server")
	}

	log.Info().Msg("Server stopped")
}
