package detector

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/timmy/foodlens/internal/domain"
)

const waitDelay = time.Second

// ExecBackend runs a detector command per image, e.g. a small Ultralytics wrapper script.
// The command is invoked as:
//
//	<command> <args...> --model <model_path> --source <image> --conf <threshold>
//
// and must print a {"detections":[...]} document on stdout.
type ExecBackend struct {
	command   string
	args      []string
	modelPath string
}

// NewExecBackend checks that the command and the model artifact exist.
func NewExecBackend(cfg *Config) (*ExecBackend, error) {
	if cfg.Command == "" {
		return nil, errors.New("exec backend requires command")
	}
	command, err := exec.LookPath(cfg.Command)
	if err != nil {
		return nil, fmt.Errorf("detector command %q not found: %w", cfg.Command, err)
	}

	if cfg.ModelPath == "" {
		return nil, errors.New("exec backend requires model_path")
	}
	info, err := os.Stat(cfg.ModelPath)
	if err != nil {
		return nil, fmt.Errorf("model artifact not found: %w", err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("model artifact %s is not a file", cfg.ModelPath)
	}

	return &ExecBackend{
		command:   command,
		args:      append([]string(nil), cfg.Args...),
		modelPath: cfg.ModelPath,
	}, nil
}

// Name returns the backend name.
func (b *ExecBackend) Name() string {
	return "exec"
}

// Detect runs the command; cancelling ctx kills the process.
func (b *ExecBackend) Detect(ctx context.Context, imagePath string, threshold float64) ([]domain.DetectionRecord, error) {
	args := append([]string(nil), b.args...)
	args = append(args,
		"--model", b.modelPath,
		"--source", imagePath,
		"--conf", strconv.FormatFloat(threshold, 'f', -1, 64),
	)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, b.command, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// Children of the command may keep the pipes open after it is killed.
	cmd.WaitDelay = waitDelay

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("detector command interrupted: %w", ctxErr)
		}
		return nil, fmt.Errorf("detector command failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	var result predictResponse
	if err := json.Unmarshal(stdout.Bytes(), &result); err != nil {
		return nil, fmt.Errorf("failed to decode detector output: %w", err)
	}

	dets, err := result.records()
	if err != nil {
		return nil, err
	}
	return keepAbove(dets, threshold), nil
}
