// Package detector runs object detection on images through a pluggable backend.
package detector

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/timmy/foodlens/internal/domain"
)

// DefaultConfidence is the minimum confidence a detection needs to be reported.
const DefaultConfidence = 0.25

var (
	// ErrImageNotFound means the image path does not name a readable regular file.
	ErrImageNotFound = errors.New("image not found")

	// ErrBackendUnavailable means the backend could not be initialized at startup.
	ErrBackendUnavailable = errors.New("detection backend unavailable")

	// ErrPoolClosed is returned by Pool.Detect after Close.
	ErrPoolClosed = errors.New("detector pool closed")
)

// Backend runs inference on one image.
// Implementations must be safe for concurrent use and must not cache results.
type Backend interface {
	// Detect returns detections with confidence >= threshold, in the backend's order.
	Detect(ctx context.Context, imagePath string, threshold float64) ([]domain.DetectionRecord, error)

	// Name identifies the backend in logs.
	Name() string
}

// Config selects and configures a backend.
type Config struct {
	Provider  string // remote, exec, rekognition
	ModelPath string
	BaseURL   string
	Command   string
	Args      []string
	ModelARN  string
	Region    string
	Timeout   time.Duration
}

// Open builds the configured backend.
// Parameters:
//   - ctx: context for startup probes.
//   - cfg: backend configuration.
// Returns:
//   - Backend: ready backend.
//   - error: wraps ErrBackendUnavailable when the model cannot be loaded or reached.
func Open(ctx context.Context, cfg *Config) (Backend, error) {
	var (
		backend Backend
		err     error
	)

	switch cfg.Provider {
	case "remote":
		backend, err = NewRemoteBackend(ctx, cfg)
	case "exec":
		backend, err = NewExecBackend(cfg)
	case "rekognition":
		backend, err = NewRekognitionBackend(ctx, cfg)
	default:
		err = fmt.Errorf("unknown provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	return backend, nil
}

// CheckImage verifies that path names a readable regular file.
func CheckImage(path string) error {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s", ErrImageNotFound, path)
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrImageNotFound, path)
	}
	return f.Close()
}

// keepAbove drops detections under threshold without reordering the rest.
func keepAbove(dets []domain.DetectionRecord, threshold float64) []domain.DetectionRecord {
	out := make([]domain.DetectionRecord, 0, len(dets))
	for _, d := range dets {
		if d.Confidence >= threshold {
			out = append(out, d)
		}
	}
	return out
}
