package main

import (
	"context"
	"fmt"

	"github.com/timmy/foodlens/internal/config"
	"github.com/timmy/foodlens/internal/nutrition"
	"github.com/timmy/foodlens/internal/repository"
	"github.com/timmy/foodlens/internal/storage"
)

// loadTable reads the lookup table from the configured source.
// The returned table is never nil, even on error.
func loadTable(ctx context.Context, cfg *config.Config) (*nutrition.Table, error) {
	switch cfg.Lookup.Source {
	case "csv":
		return nutrition.LoadFile(cfg.Lookup.Path)

	case "s3":
		objects, err := storage.NewStorage(&storage.S3Config{
			Type:      storage.StorageType(cfg.Storage.Type),
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			UseSSL:    cfg.Storage.UseSSL,
			Bucket:    cfg.Storage.Bucket,
			Region:    cfg.Storage.Region,
		})
		if err != nil {
			return nutrition.Empty(), fmt.Errorf("failed to initialize storage: %w", err)
		}
		return nutrition.LoadObject(ctx, objects, cfg.Lookup.Key)

	case "database":
		db, err := repository.InitDB(&cfg.Database)
		if err != nil {
			return nutrition.Empty(), fmt.Errorf("failed to initialize database: %w", err)
		}
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}
		foods, err := repository.NewFoodRepository(db).ListAll(ctx)
		if err != nil {
			return nutrition.Empty(), fmt.Errorf("failed to read foods: %w", err)
		}
		return nutrition.NewTable(foods), nil

	default:
		return nutrition.Empty(), fmt.Errorf("unknown lookup source %q", cfg.Lookup.Source)
	}
}
