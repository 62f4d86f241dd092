package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/timmy/foodlens/internal/domain"
	"github.com/timmy/foodlens/internal/nutrition"
)

type fakeBackend struct {
	calls     int32
	dets      []domain.DetectionRecord
	err       error
	block     bool
	threshold float64
}

func (f *fakeBackend) Name() string { return "fake" }

func (f *fakeBackend) Detect(ctx context.Context, _ string, threshold float64) ([]domain.DetectionRecord, error) {
	atomic.AddInt32(&f.calls, 1)
	f.threshold = threshold
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.dets, f.err
}

func writeImage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "meal.jpg")
	if err := os.WriteFile(path, []byte("jpeg"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func appleTable() *nutrition.Table {
	return nutrition.NewTable([]domain.FoodRecord{
		{ID: 0, Name: "Plate", Calories: 1},
		{ID: 1, Name: "Apple", Calories: 95, Carbs: 25, Protein: 0.5, Fat: 0.3, Sodium: 2, Sugar: 19},
	})
}

func TestAnalyze_Errors(t *testing.T) {
	image := writeImage(t)

	tests := []struct {
		name      string
		backend   *fakeBackend
		nilBack   bool
		path      string
		wantKind  *Error
		wantCode  int
		wantCalls int32
	}{
		{name: "empty path", backend: &fakeBackend{}, path: "", wantKind: ErrValidation, wantCode: http.StatusBadRequest},
		{name: "blank path", backend: &fakeBackend{}, path: "   ", wantKind: ErrNotFound, wantCode: http.StatusNotFound},
		{name: "missing image", backend: &fakeBackend{}, path: filepath.Join(t.TempDir(), "none.jpg"), wantKind: ErrNotFound, wantCode: http.StatusNotFound},
		{name: "directory", backend: &fakeBackend{}, path: t.TempDir(), wantKind: ErrNotFound, wantCode: http.StatusNotFound},
		{name: "no backend", nilBack: true, path: image, wantKind: ErrBackendUnavailable, wantCode: http.StatusInternalServerError},
		{name: "backend failure", backend: &fakeBackend{err: errors.New("cuda out of memory")}, path: image, wantKind: ErrInternal, wantCode: http.StatusInternalServerError, wantCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var svc *AnalyzeService
			if tt.nilBack {
				svc = NewAnalyzeService(nil, appleTable(), nil)
			} else {
				svc = NewAnalyzeService(tt.backend, appleTable(), nil)
			}

			_, err := svc.Analyze(context.Background(), tt.path, false)
			if !errors.Is(err, tt.wantKind) {
				t.Fatalf("expected %s, got %v", tt.wantKind.Kind, err)
			}
			if code := StatusCode(err); code != tt.wantCode {
				t.Errorf("expected status %d, got %d", tt.wantCode, code)
			}
			if tt.backend != nil && atomic.LoadInt32(&tt.backend.calls) != tt.wantCalls {
				t.Errorf("expected %d backend calls, got %d", tt.wantCalls, tt.backend.calls)
			}
		})
	}
}

func TestAnalyze_InternalErrorKeepsText(t *testing.T) {
	svc := NewAnalyzeService(&fakeBackend{err: errors.New("cuda out of memory")}, nil, nil)
	_, err := svc.Analyze(context.Background(), writeImage(t), false)
	if err == nil || err.Error() != "cuda out of memory" {
		t.Errorf("expected backend error text, got %v", err)
	}
}

func TestAnalyze_EndToEnd(t *testing.T) {
	backend := &fakeBackend{dets: []domain.DetectionRecord{
		{ClassID: 1, Confidence: 0.9, Box: domain.Box{0, 0, 10, 10}},
	}}
	svc := NewAnalyzeService(backend, appleTable(), nil)
	image := writeImage(t)

	result, err := svc.Analyze(context.Background(), image, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if backend.threshold != 0.25 {
		t.Errorf("expected default threshold 0.25, got %v", backend.threshold)
	}

	got, err := json.Marshal(result)
	if err != nil {
		t.Fatal(err)
	}
	imageJSON, _ := json.Marshal(image)
	want := `{"success":true,"count":1,"detections":[{"class_id":1,"name":"Apple","confidence":0.9,"box":[0,0,10,10],` +
		`"nutrition":{"calories":95,"carbs":25,"protein":0.5,"fat":0.3,"sodium":2,"sugar":19},` +
		`"solution":{"supplements":""}}],"image_path":` + string(imageJSON) + `}`
	if string(got) != want {
		t.Errorf("unexpected body\n got: %s\nwant: %s", got, want)
	}
}

func TestAnalyze_EmptyDetectionsIsSuccess(t *testing.T) {
	svc := NewAnalyzeService(&fakeBackend{}, appleTable(), nil)
	result, err := svc.Analyze(context.Background(), writeImage(t), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Success || result.Count != 0 || result.Detections == nil {
		t.Errorf("expected empty successful result, got %+v", result)
	}
}

func TestAnalyze_Summary(t *testing.T) {
	backend := &fakeBackend{dets: []domain.DetectionRecord{
		{ClassID: 0, Confidence: 0.8},
		{ClassID: 1, Confidence: 0.9},
		{ClassID: 1, Confidence: 0.7},
		{ClassID: 42, Confidence: 0.6},
	}}
	svc := NewAnalyzeService(backend, appleTable(), &AnalyzeConfig{Confidence: 0.5})

	result, err := svc.Analyze(context.Background(), writeImage(t), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if backend.threshold != 0.5 {
		t.Errorf("expected configured threshold 0.5, got %v", backend.threshold)
	}
	if result.TotalNutrition == nil || result.TotalNutrition.Calories != 190 {
		t.Errorf("expected 190 total calories, got %+v", result.TotalNutrition)
	}
	if result.Detections[3].Name != "Unknown (ID: 42)" {
		t.Errorf("unexpected name %q", result.Detections[3].Name)
	}
}

func TestAnalyze_Timeout(t *testing.T) {
	svc := NewAnalyzeService(&fakeBackend{block: true}, nil, &AnalyzeConfig{Timeout: 20 * time.Millisecond})

	_, err := svc.Analyze(context.Background(), writeImage(t), false)
	if !errors.Is(err, ErrInternal) {
		t.Fatalf("expected internal error, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected wrapped deadline exceeded, got %v", err)
	}
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name      string
		backend   *fakeBackend
		table     *nutrition.Table
		wantModel bool
		wantDB    bool
	}{
		{name: "all loaded", backend: &fakeBackend{}, table: appleTable(), wantModel: true, wantDB: true},
		{name: "no model", table: appleTable(), wantDB: true},
		{name: "no table", backend: &fakeBackend{}, wantModel: true},
		{name: "empty table", table: nutrition.Empty()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var svc *AnalyzeService
			if tt.backend != nil {
				svc = NewAnalyzeService(tt.backend, tt.table, nil)
			} else {
				svc = NewAnalyzeService(nil, tt.table, nil)
			}
			h := svc.Health()
			if h.Status != "running" || h.ModelLoaded != tt.wantModel || h.DBLoaded != tt.wantDB {
				t.Errorf("unexpected health %+v", h)
			}
		})
	}
}

func TestFood(t *testing.T) {
	svc := NewAnalyzeService(nil, appleTable(), nil)

	if foods := svc.Foods(); len(foods) != 2 || foods[0].ID != 0 || foods[1].ID != 1 {
		t.Errorf("unexpected foods %+v", foods)
	}
	if food, err := svc.Food(1); err != nil || food.Name != "Apple" {
		t.Errorf("unexpected food %+v, err %v", food, err)
	}
	if _, err := svc.Food(7); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}
