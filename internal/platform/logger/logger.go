package logger

import (
	"log/slog"
	"os"
)

// New returns the process-wide structured logger. JSON output keeps relay
// logs machine-parseable in container environments.
func New() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, nil))
}
