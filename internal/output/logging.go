package output

import (
	"io"
	"log/slog"
	"math"
)

// LogLevel maps the verbosity flags to a level.
// Priority: quiet > debug > verbose > default (warnings and errors only).
func LogLevel(quiet, verbose, debug bool) slog.Level {
	switch {
	case quiet:
		return slog.Level(math.MaxInt)
	case debug:
		return slog.LevelDebug
	case verbose:
		return slog.LevelInfo
	default:
		return slog.LevelWarn
	}
}

// SetupLogger creates a text slog.Logger writing to w (typically os.Stderr).
func SetupLogger(quiet, verbose, debug bool, w io.Writer) *slog.Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: LogLevel(quiet, verbose, debug),
	})
	return slog.New(handler)
}
