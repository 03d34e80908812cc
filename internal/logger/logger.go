// Package logger builds the process-wide structured logger.
package logger

import (
	"io"
	"log/slog"
	"os"
)

// New returns a slog.Logger tagged with the service name.  Production
// environments get JSON lines; everything else gets the text handler, which
// is easier to read in a terminal.
func New(service, env string) *slog.Logger {
	return NewWithWriter(os.Stdout, service, env)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(w io.Writer, service, env string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	var h slog.Handler
	switch env {
	case "prod", "production":
		h = slog.NewJSONHandler(w, opts)
	case "debug":
		opts.Level = slog.LevelDebug
		h = slog.NewTextHandler(w, opts)
	default:
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h).With("service", service)
}

// Discard is a logger that drops every record; tests pass it to components
// that require one.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
