package detector

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/timmy/foodlens/internal/domain"
)

const (
	healthPath  = "/health"
	predictPath = "/predict"
)

// RemoteBackend calls an HTTP inference server that hosts the model.
type RemoteBackend struct {
	client  *resty.Client
	baseURL string
	model   string
}

type predictRequest struct {
	ImagePath string  `json:"image_path"`
	Conf      float64 `json:"conf"`
	Model     string  `json:"model,omitempty"`
}

type healthResponse struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
}

// NewRemoteBackend creates the client and probes the server once.
// Parameters:
//   - ctx: context for the health probe.
//   - cfg: BaseURL is required; ModelPath is forwarded as the model name; Timeout bounds each call.
// Returns:
//   - *RemoteBackend: client for a server that reports its model as loaded.
//   - error: non-nil if the server is unreachable or has no model loaded.
func NewRemoteBackend(ctx context.Context, cfg *Config) (*RemoteBackend, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("remote backend requires base_url")
	}

	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetHeader("Content-Type", "application/json")
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	client.SetTimeout(timeout)

	b := &RemoteBackend{
		client:  client,
		baseURL: baseURL,
		model:   cfg.ModelPath,
	}

	if err := b.probe(ctx); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *RemoteBackend) probe(ctx context.Context) error {
	var health healthResponse
	resp, err := b.client.R().
		SetContext(ctx).
		SetResult(&health).
		Get(healthPath)
	if err != nil {
		return fmt.Errorf("failed to reach inference server at %s: %w", b.baseURL, err)
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("inference server health returned HTTP %d", resp.StatusCode())
	}
	if !health.ModelLoaded {
		return fmt.Errorf("inference server at %s has no model loaded", b.baseURL)
	}
	return nil
}

// Name returns the backend name.
func (b *RemoteBackend) Name() string {
	return "remote"
}

// Detect sends the image path to the inference server.
// The server must be able to read the same path (shared volume or same host).
func (b *RemoteBackend) Detect(ctx context.Context, imagePath string, threshold float64) ([]domain.DetectionRecord, error) {
	var result predictResponse
	resp, err := b.client.R().
		SetContext(ctx).
		SetBody(predictRequest{ImagePath: imagePath, Conf: threshold, Model: b.model}).
		SetResult(&result).
		SetError(&result).
		Post(predictPath)
	if err != nil {
		return nil, fmt.Errorf("failed to call inference server: %w", err)
	}

	if resp.StatusCode() == http.StatusNotFound {
		return nil, fmt.Errorf("%w: inference server cannot read %s", ErrImageNotFound, imagePath)
	}
	if !resp.IsSuccess() {
		msg := result.Error
		if msg == "" {
			msg = strings.TrimSpace(string(resp.Body()))
		}
		return nil, fmt.Errorf("inference server returned HTTP %d: %s", resp.StatusCode(), msg)
	}

	dets, err := result.records()
	if err != nil {
		return nil, err
	}
	return keepAbove(dets, threshold), nil
}
