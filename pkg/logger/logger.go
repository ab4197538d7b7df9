package logger

import (
	"io"
	"log/slog"
	"os"
)

var Log = slog.New(slog.NewJSONHandler(io.Discard, nil))

// Init installs the process logger: JSON on stdout, debug level outside release mode.
func Init(production bool) *slog.Logger {
	Log = New(os.Stdout, production)
	slog.SetDefault(Log)
	return Log
}

func New(w io.Writer, production bool) *slog.Logger {
	level := slog.LevelDebug
	if production {
		level = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	})
	return slog.New(handler)
}
