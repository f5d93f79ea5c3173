package logger

import (
	"io"
	"log/slog"
)

// Setup installs the default slog logger. Warnings and errors are always
// written; verbose adds info and debug records.
func Setup(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	l := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(l)
	return l
}
