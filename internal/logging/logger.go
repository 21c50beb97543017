// Package logging provides the slog logger used across wikifreq.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"

	"go.trai.ch/zerr"
)

// Options configures the logger.
type Options struct {
	// Verbose toggles debug level logging when true.
	Verbose bool
	// Writer directs log output; defaults to os.Stderr when nil.
	Writer io.Writer
}

// New constructs a slog.Logger with wikifreq defaults.
func New(opts Options) *slog.Logger {
	level := slog.LevelWarn
	if opts.Verbose {
		level = slog.LevelDebug
	}
	writer := opts.Writer
	if writer == nil {
		writer = os.Stderr
	}
	handler := slog.NewTextHandler(writer, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}

// Nop returns a logger that discards everything.
func Nop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

// OrNop returns logger, or a discarding logger when it is nil.
func OrNop(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return Nop()
	}
	return logger
}

// Error logs err at error level together with any zerr metadata attached
// along its chain.
func Error(ctx context.Context, logger *slog.Logger, err error) {
	if err == nil {
		return
	}
	zerr.Log(ctx, logger, err)
}
