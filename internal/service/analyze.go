// Package service holds the request-level use cases behind the HTTP handlers.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/timmy/foodlens/internal/detector"
	"github.com/timmy/foodlens/internal/domain"
	"github.com/timmy/foodlens/internal/logger"
	"github.com/timmy/foodlens/internal/nutrition"
)

// AnalyzeConfig holds configuration for the analyze service.
type AnalyzeConfig struct {
	Confidence float64
	Timeout    time.Duration
}

// AnalyzeService runs detection on an image and joins the results against the lookup table.
// The backend and the table are fixed at construction and never mutated.
type AnalyzeService struct {
	backend    detector.Backend
	table      *nutrition.Table
	confidence float64
	timeout    time.Duration
}

// NewAnalyzeService creates a new analyze service.
// Parameters:
//   - backend: detection backend; nil when the model failed to load.
//   - table: lookup table; nil behaves as empty.
//   - cfg: threshold and timeout; nil uses defaults.
//
// Returns:
//   - *AnalyzeService: initialized service.
func NewAnalyzeService(backend detector.Backend, table *nutrition.Table, cfg *AnalyzeConfig) *AnalyzeService {
	confidence := detector.DefaultConfidence
	var timeout time.Duration
	if cfg != nil {
		if cfg.Confidence > 0 {
			confidence = cfg.Confidence
		}
		timeout = cfg.Timeout
	}
	if table == nil {
		table = nutrition.Empty()
	}
	return &AnalyzeService{
		backend:    backend,
		table:      table,
		confidence: confidence,
		timeout:    timeout,
	}
}

// AnalyzeRequest is the body of POST /analyze.
type AnalyzeRequest struct {
	ImagePath string `json:"image_path" binding:"required"`
}

// HealthStatus is the body of GET /health.
type HealthStatus struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
	DBLoaded    bool   `json:"db_loaded"`
}

// Health reports which startup resources are available.
func (s *AnalyzeService) Health() HealthStatus {
	return HealthStatus{
		Status:      "running",
		ModelLoaded: s.backend != nil,
		DBLoaded:    s.table.Len() > 0,
	}
}

// Analyze detects food in imagePath and enriches every detection.
// Parameters:
//   - ctx: request context.
//   - imagePath: path on the local filesystem.
//   - withSummary: also total the nutrition of recognised items.
//
// Returns:
//   - *domain.AnalysisResult: successful result; Detections is never nil.
//   - error: *Error classified as validation, not found, backend unavailable or internal.
func (s *AnalyzeService) Analyze(ctx context.Context, imagePath string, withSummary bool) (*domain.AnalysisResult, error) {
	if imagePath == "" {
		return nil, ValidationError("No image_path provided")
	}

	ctx = logger.WithFields(ctx, logger.Fields{
		logger.FieldComponent: "analyze",
		logger.FieldImagePath: imagePath,
	})

	if err := detector.CheckImage(imagePath); err != nil {
		logger.CtxWarn(ctx, "Image not found")
		return nil, NotFoundError(fmt.Sprintf("Image not found at %s", imagePath))
	}

	if s.backend == nil {
		return nil, BackendUnavailableError("Model not loaded")
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	dets, err := s.backend.Detect(ctx, imagePath, s.confidence)
	if err != nil {
		if errors.Is(err, detector.ErrImageNotFound) {
			return nil, NotFoundError(fmt.Sprintf("Image not found at %s", imagePath))
		}
		logger.With(logger.Fields{
			logger.FieldBackend:    s.backend.Name(),
			logger.FieldDurationMs: time.Since(start).Milliseconds(),
		}).Error(ctx, "Detection failed: %v", err)
		return nil, InternalError(err)
	}

	results := nutrition.EnrichAll(dets, s.table)

	logger.With(logger.Fields{
		logger.FieldBackend:    s.backend.Name(),
		logger.FieldDurationMs: time.Since(start).Milliseconds(),
		logger.FieldCount:      len(results),
	}).Info(ctx, "Analysis completed")

	result := &domain.AnalysisResult{
		Success:    true,
		Count:      len(results),
		Detections: results,
		ImagePath:  imagePath,
	}
	if withSummary {
		total := nutrition.Summarize(results)
		result.TotalNutrition = &total
	}
	return result, nil
}

// Foods returns every record in the lookup table, ordered by id.
func (s *AnalyzeService) Foods() []domain.FoodRecord {
	return s.table.Records()
}

// Food returns one record by class id.
func (s *AnalyzeService) Food(id int) (domain.FoodRecord, error) {
	food, ok := s.table.Lookup(id)
	if !ok {
		return domain.FoodRecord{}, NotFoundError(fmt.Sprintf("Food %d not found", id))
	}
	return food, nil
}
