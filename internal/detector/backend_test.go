package detector

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/timmy/foodlens/internal/domain"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCheckImage(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "meal.jpg", "not really a jpeg")

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{name: "regular file", path: file},
		{name: "missing file", path: filepath.Join(dir, "nope.jpg"), wantErr: true},
		{name: "directory", path: dir, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckImage(tt.path)
			if tt.wantErr {
				if !errors.Is(err, ErrImageNotFound) {
					t.Errorf("expected ErrImageNotFound, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestKeepAbove(t *testing.T) {
	dets := []domain.DetectionRecord{
		{ClassID: 1, Confidence: 0.9},
		{ClassID: 2, Confidence: 0.1},
		{ClassID: 3, Confidence: 0.25},
		{ClassID: 4, Confidence: 0.5},
	}

	got := keepAbove(dets, DefaultConfidence)

	want := []int{1, 3, 4}
	if len(got) != len(want) {
		t.Fatalf("expected %d detections, got %d", len(want), len(got))
	}
	for i, id := range want {
		if got[i].ClassID != id {
			t.Errorf("position %d: expected class %d, got %d", i, id, got[i].ClassID)
		}
	}
}

func TestOpen_Unavailable(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
	}{
		{name: "unknown provider", cfg: &Config{Provider: "onnx"}},
		{name: "remote without url", cfg: &Config{Provider: "remote"}},
		{name: "exec without model", cfg: &Config{Provider: "exec", Command: "sh", ModelPath: filepath.Join(t.TempDir(), "best.pt")}},
		{name: "rekognition without arn", cfg: &Config{Provider: "rekognition"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend, err := Open(context.Background(), tt.cfg)
			if !errors.Is(err, ErrBackendUnavailable) {
				t.Errorf("expected ErrBackendUnavailable, got %v", err)
			}
			if backend != nil {
				t.Error("expected no backend")
			}
		})
	}
}

func TestPredictResponse_Records(t *testing.T) {
	ok := &predictResponse{Detections: []rawDetection{{ClassID: 3, Confidence: 0.7, Box: []float64{1, 2, 3, 4}}}}
	recs, err := ok.records()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if recs[0].Box != (domain.Box{1, 2, 3, 4}) {
		t.Errorf("unexpected box %v", recs[0].Box)
	}

	bad := &predictResponse{Detections: []rawDetection{{ClassID: 3, Box: []float64{1, 2}}}}
	if _, err := bad.records(); err == nil {
		t.Error("expected error for a short box")
	}

	failed := false
	reported := &predictResponse{Success: &failed, Error: "model crashed"}
	if _, err := reported.records(); err == nil {
		t.Error("expected error when the backend reports failure")
	}
}
