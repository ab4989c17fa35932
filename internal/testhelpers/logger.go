package testhelpers

import (
	"io"
	"log/slog"

	"github.com/myrjola/ridecoach/internal/logging"
)

// NewLogger creates a debug level logger writing to logSink, usually the writer returned by [NewWriter].
func NewLogger(logSink io.Writer) *slog.Logger {
	return logging.NewLogger(logSink, slog.LevelDebug)
}
