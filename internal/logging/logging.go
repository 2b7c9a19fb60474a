package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"scanparse/internal/config"
)

// Cleanup releases resources held by the logger.
type Cleanup func() error

// New builds a logger writing to out and, when cfg.File is set, to that
// file as well. A nil out means stderr, so CLI output on stdout stays clean.
func New(cfg config.LoggingConfig, out io.Writer) (*slog.Logger, Cleanup, error) {
	if out == nil {
		out = os.Stderr
	}
	handlerOptions := &slog.HandlerOptions{
		Level:     ParseLevel(cfg.Level),
		AddSource: strings.EqualFold(strings.TrimSpace(cfg.Level), "debug"),
	}

	writers := []io.Writer{out}
	var file *os.File
	if cfg.File != "" {
		dir := filepath.Dir(cfg.File)
		if dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, nil, err
			}
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, err
		}
		file = f
		writers = append(writers, file)
	}

	multi := io.MultiWriter(writers...)
	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "json":
		handler = slog.NewJSONHandler(multi, handlerOptions)
	default:
		handler = slog.NewTextHandler(multi, handlerOptions)
	}

	cleanup := func() error {
		if file != nil {
			return file.Close()
		}
		return nil
	}
	return slog.New(handler), cleanup, nil
}

// ParseLevel maps a level name to slog.Level, defaulting to info.
func ParseLevel(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
