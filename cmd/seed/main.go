package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/timmy/foodlens/internal/config"
	"github.com/timmy/foodlens/internal/logger"
	"github.com/timmy/foodlens/internal/nutrition"
	"github.com/timmy/foodlens/internal/repository"
)

func main() {
	// Initialize logger first (with defaults)
	appLogger := logger.New(&logger.Config{
		Level:       "info",
		Format:      "json",
		ServiceName: "foodlens-seed",
	})
	logger.SetDefaultLogger(appLogger)

	csvPath := flag.String("csv", "", "Path to the food CSV (defaults to lookup.path)")
	batchSize := flag.Int("batch", 100, "Rows per insert statement")
	dryRun := flag.Bool("dry-run", false, "Parse the CSV and report counts without writing")
	configPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to load config")
	}
	if *csvPath == "" {
		*csvPath = cfg.Lookup.Path
	}

	table, err := nutrition.LoadFile(*csvPath)
	if err != nil {
		appLogger.WithError(err).WithField("csv", *csvPath).Fatal("Failed to load food table")
	}

	appLogger.WithFields(logger.Fields{
		"csv":             *csvPath,
		logger.FieldCount: table.Len(),
		"skipped":         table.Skipped(),
		"dry_run":         *dryRun,
	}).Info("Parsed food table")

	if *dryRun {
		return
	}

	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize database")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		appLogger.Info("Received shutdown signal, canceling...")
		cancel()
	}()

	repo := repository.NewFoodRepository(db)
	if err := repo.UpsertBatch(ctx, table.Records(), *batchSize); err != nil {
		appLogger.WithError(err).Fatal("Failed to seed foods")
	}

	total, err := repo.Count(ctx)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to count foods")
	}

	appLogger.WithFields(logger.Fields{
		"written": table.Len(),
		"total":   total,
		"driver":  cfg.Database.Driver,
	}).Info("Seeding completed")
}
