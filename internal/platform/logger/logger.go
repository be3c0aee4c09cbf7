package logger

import (
	"log/slog"
	"os"
)

// New returns the process-wide structured logger: JSON on stdout, so log
// shippers can ingest it without parsing.
func New() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, nil))
}
