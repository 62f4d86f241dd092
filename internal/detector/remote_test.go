package detector

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newInferenceServer(t *testing.T, modelLoaded bool, predict http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":       "running",
			"model_loaded": modelLoaded,
		})
	})
	mux.HandleFunc("/predict", predict)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestRemoteBackend_Detect(t *testing.T) {
	var got predictRequest
	srv := newInferenceServer(t, true, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"detections":[
			{"class_id":5,"confidence":0.8,"box":[10,20,30,40]},
			{"class_id":6,"confidence":0.1,"box":[0,0,1,1]},
			{"class_id":1,"confidence":0.3,"box":[1,1,2,2]}
		]}`))
	})

	backend, err := NewRemoteBackend(context.Background(), &Config{BaseURL: srv.URL + "/", ModelPath: "best.pt", Timeout: time.Second})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dets, err := backend.Detect(context.Background(), "/data/meal.jpg", 0.25)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.ImagePath != "/data/meal.jpg" || got.Conf != 0.25 || got.Model != "best.pt" {
		t.Errorf("unexpected request %+v", got)
	}
	if len(dets) != 2 {
		t.Fatalf("expected 2 detections above threshold, got %d", len(dets))
	}
	if dets[0].ClassID != 5 || dets[1].ClassID != 1 {
		t.Errorf("expected backend order to be kept, got %+v", dets)
	}
	if dets[0].Box[3] != 40 {
		t.Errorf("unexpected box %v", dets[0].Box)
	}
}

func TestRemoteBackend_ModelNotLoaded(t *testing.T) {
	srv := newInferenceServer(t, false, func(w http.ResponseWriter, r *http.Request) {
		t.Error("predict must not be called")
	})

	if _, err := NewRemoteBackend(context.Background(), &Config{BaseURL: srv.URL}); err == nil {
		t.Error("expected error when the server has no model")
	}
}

func TestRemoteBackend_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	if _, err := NewRemoteBackend(context.Background(), &Config{BaseURL: url, Timeout: time.Second}); err == nil {
		t.Error("expected error for an unreachable server")
	}
}

func TestRemoteBackend_ServerError(t *testing.T) {
	srv := newInferenceServer(t, true, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"success":false,"error":"CUDA out of memory"}`))
	})

	backend, err := NewRemoteBackend(context.Background(), &Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = backend.Detect(context.Background(), "/data/meal.jpg", 0.25)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "CUDA out of memory") || !strings.Contains(err.Error(), "500") {
		t.Errorf("error should carry status and message, got %v", err)
	}
}

func TestRemoteBackend_ImageNotVisibleToServer(t *testing.T) {
	srv := newInferenceServer(t, true, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"success":false,"error":"Image not found"}`))
	})

	backend, err := NewRemoteBackend(context.Background(), &Config{BaseURL: srv.URL, Timeout: time.Second})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = backend.Detect(context.Background(), "/shared/meal.jpg", 0.25)
	if !errors.Is(err, ErrImageNotFound) {
		t.Errorf("expected ErrImageNotFound, got %v", err)
	}
}
