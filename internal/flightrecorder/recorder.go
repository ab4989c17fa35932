// Package flightrecorder keeps a rolling runtime trace of a command so that a failed run can be inspected
// with go tool trace.
package flightrecorder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/trace"
	"time"
)

const (
	defaultMinAge   = time.Minute
	defaultMaxBytes = 16 << 20
)

// Recorder buffers the trace of the running process in memory and writes it to Dir on request.
type Recorder struct {
	logger   *slog.Logger
	recorder *trace.FlightRecorder
	dir      string
}

// New creates a Recorder writing traces to dir, which is created when missing.
func New(dir string, logger *slog.Logger) (*Recorder, error) {
	if dir == "" {
		return nil, errors.New("trace directory is required")
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create trace directory: %w", err)
	}
	return &Recorder{
		logger: logger,
		recorder: trace.NewFlightRecorder(trace.FlightRecorderConfig{
			MinAge:   defaultMinAge,
			MaxBytes: defaultMaxBytes,
		}),
		dir: dir,
	}, nil
}

// Start begins recording. Only one recorder can run per process.
func (r *Recorder) Start() error {
	if err := r.recorder.Start(); err != nil {
		return fmt.Errorf("start flight recorder: %w", err)
	}
	return nil
}

// Stop ends recording.
func (r *Recorder) Stop() {
	r.recorder.Stop()
}

// Capture writes the buffered trace to <name>-<timestamp>.trace and returns its path.
func (r *Recorder) Capture(ctx context.Context, name string, now time.Time) (_ string, err error) {
	path := filepath.Join(r.dir, fmt.Sprintf("%s-%s.trace", name, now.UTC().Format("20060102-150405")))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create trace file: %w", err)
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	n, err := r.recorder.WriteTo(f)
	if err != nil {
		return "", fmt.Errorf("write trace: %w", err)
	}
	r.logger.LogAttrs(ctx, slog.LevelInfo, "captured trace", slog.String("path", path), slog.Int64("bytes", n))
	return path, nil
}
