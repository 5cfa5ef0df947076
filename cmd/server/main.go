package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"

	"github.com/avolkov-dev/recipehub/internal/events"
	"github.com/avolkov-dev/recipehub/internal/logging"
	"github.com/avolkov-dev/recipehub/internal/router"
	"github.com/avolkov-dev/recipehub/internal/search"
	"github.com/avolkov-dev/recipehub/internal/storage"
	"github.com/avolkov-dev/recipehub/pkg/config"
	"github.com/avolkov-dev/recipehub/validators"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)
	ctx := logging.IntoContext(context.Background(), logger)

	db, err := config.InitDB()
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer config.CloseDB(db)

	var store storage.Storage
	if cfg.S3Bucket != "" {
		s3Store, err := storage.NewS3Storage(ctx, cfg)
		if err != nil {
			logger.Error("s3 setup failed", "error", err)
			os.Exit(1)
		}
		store = s3Store
		logger.Info("media storage: s3", "bucket", cfg.S3Bucket)
	} else {
		store = storage.NewLocalStorage(cfg.MediaDir, cfg.MediaURL)
		logger.Info("media storage: local", "dir", cfg.MediaDir)
	}

	var producer *events.Producer
	if cfg.KafkaAddress != "" {
		producer = events.NewProducer([]string{cfg.KafkaAddress}, cfg.KafkaTopic)
		defer producer.Close()
		logger.Info("event producer connected", "address", cfg.KafkaAddress, "topic", cfg.KafkaTopic)
	}

	var esClient *elasticsearch.Client
	if cfg.ESURL != "" {
		esClient, err = search.NewClient(cfg)
		if err != nil {
			logger.Error("elasticsearch setup failed", "error", err)
			os.Exit(1)
		}
		logger.Info("search connected", "url", cfg.ESURL)
	} else {
		logger.Info("search disabled: ES_URL not set")
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()

	router.SetupMiddleware(e)
	if err := router.SetupRoutes(e, db, cfg, logger, store, producer, esClient); err != nil {
		logger.Error("route setup failed", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
	logger.Info("server stopped")
}
