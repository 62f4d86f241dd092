package detector

import (
	"context"
	"os/exec"
	"path/filepath"
	"testing"
	"time"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestExecBackend_Detect(t *testing.T) {
	requireShell(t)
	dir := t.TempDir()
	model := writeFile(t, dir, "best.pt", "weights")

	// The script ignores its flags and prints a fixed document.
	script := `printf '%s' '{"detections":[{"class_id":2,"confidence":0.6,"box":[1,2,3,4]},{"class_id":3,"confidence":0.2,"box":[0,0,0,0]}]}'`
	backend, err := NewExecBackend(&Config{Command: "sh", Args: []string{"-c", script, "detect"}, ModelPath: model})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dets, err := backend.Detect(context.Background(), filepath.Join(dir, "meal.jpg"), 0.25)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dets) != 1 || dets[0].ClassID != 2 {
		t.Errorf("unexpected detections %+v", dets)
	}
}

func TestExecBackend_PassesFlags(t *testing.T) {
	requireShell(t)
	dir := t.TempDir()
	model := writeFile(t, dir, "best.pt", "weights")

	// Echo the received conf value back as the confidence of a single detection.
	script := `while [ $# -gt 0 ]; do if [ "$1" = "--conf" ]; then c=$2; fi; shift; done; printf '{"detections":[{"class_id":1,"confidence":%s,"box":[0,0,1,1]}]}' "$c"`
	backend, err := NewExecBackend(&Config{Command: "sh", Args: []string{"-c", script, "detect"}, ModelPath: model})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dets, err := backend.Detect(context.Background(), "meal.jpg", 0.4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dets) != 1 || dets[0].Confidence != 0.4 {
		t.Errorf("expected conf to be forwarded, got %+v", dets)
	}
}

func TestExecBackend_Failures(t *testing.T) {
	requireShell(t)
	dir := t.TempDir()
	model := writeFile(t, dir, "best.pt", "weights")

	tests := []struct {
		name   string
		script string
	}{
		{name: "non-zero exit", script: "echo boom >&2; exit 3"},
		{name: "bad json", script: "echo not-json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend, err := NewExecBackend(&Config{Command: "sh", Args: []string{"-c", tt.script, "detect"}, ModelPath: model})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if _, err := backend.Detect(context.Background(), "meal.jpg", 0.25); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestExecBackend_Cancel(t *testing.T) {
	requireShell(t)
	model := writeFile(t, t.TempDir(), "best.pt", "weights")

	backend, err := NewExecBackend(&Config{Command: "sh", Args: []string{"-c", "sleep 5", "detect"}, ModelPath: model})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	if _, err := backend.Detect(ctx, "meal.jpg", 0.25); err == nil {
		t.Fatal("expected error after cancellation")
	}
	if time.Since(start) > 3*time.Second {
		t.Error("command was not killed on cancellation")
	}
}

func TestNewExecBackend_MissingModel(t *testing.T) {
	requireShell(t)
	if _, err := NewExecBackend(&Config{Command: "sh", ModelPath: filepath.Join(t.TempDir(), "best.pt")}); err == nil {
		t.Error("expected error for a missing model artifact")
	}
}
