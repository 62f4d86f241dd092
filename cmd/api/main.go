package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/timmy/foodlens/internal/api"
	"github.com/timmy/foodlens/internal/config"
	"github.com/timmy/foodlens/internal/detector"
	"github.com/timmy/foodlens/internal/logger"
	"github.com/timmy/foodlens/internal/service"
)

func main() {
	appLogger := logger.NewDefault()
	logger.SetDefaultLogger(appLogger)
	defer logger.Sync()

	// Support CONFIG_PATH environment variable for production deployments
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to load config")
	}

	ctx := context.Background()

	// A missing table or model degrades the service instead of stopping it
	table, err := loadTable(ctx, cfg)
	if err != nil {
		appLogger.WithError(err).WithField("source", cfg.Lookup.Source).
			Warn("Lookup table not loaded, enrichment disabled")
	} else {
		appLogger.WithFields(logger.Fields{
			"source":          cfg.Lookup.Source,
			logger.FieldCount: table.Len(),
			"skipped":         table.Skipped(),
		}).Info("Lookup table loaded")
	}

	var backend detector.Backend
	model, err := detector.Open(ctx, &detector.Config{
		Provider:  cfg.Detector.Provider,
		ModelPath: cfg.Detector.ModelPath,
		BaseURL:   cfg.Detector.BaseURL,
		Command:   cfg.Detector.Command,
		Args:      cfg.Detector.Args,
		ModelARN:  cfg.Detector.ModelARN,
		Region:    cfg.Detector.Region,
		Timeout:   cfg.Detector.Timeout,
	})
	if err != nil {
		appLogger.WithError(err).WithField(logger.FieldBackend, cfg.Detector.Provider).
			Warn("Detection backend not loaded")
	} else {
		pool := detector.NewPool(model, cfg.Detector.Workers, cfg.Detector.QueueSize)
		defer pool.Close()
		backend = pool
		appLogger.WithFields(logger.Fields{
			logger.FieldBackend: model.Name(),
			"workers":           cfg.Detector.Workers,
		}).Info("Detection backend loaded")
	}

	analyzeService := service.NewAnalyzeService(backend, table, &service.AnalyzeConfig{
		Confidence: cfg.Detector.Confidence,
		Timeout:    cfg.Detector.Timeout,
	})

	router := api.SetupRouter(analyzeService, &cfg.Server, appLogger)

	srv := &http.Server{
		Addr:    cfg.Server.Addr(),
		Handler: router,
	}

	go func() {
		appLogger.WithFields(logger.Fields{
			"addr": srv.Addr,
			"mode": cfg.Server.Mode,
		}).Info("Starting API server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.WithError(err).Error("Server forced to shutdown")
	}

	appLogger.Info("Server exited")
}
