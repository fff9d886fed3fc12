package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/lmittmann/tint"

	"realty_gateway/pkg/config"
)

// New builds the process logger. The returned close func flushes the fluentd
// client when one is configured.
func New(cfg config.LogConfig, appName string) (*slog.Logger, func() error, error) {
	return newLogger(cfg, appName, os.Stdout)
}

func newLogger(cfg config.LogConfig, appName string, w io.Writer) (*slog.Logger, func() error, error) {
	level := ParseLevel(cfg.Level)

	var console slog.Handler
	if cfg.JSON {
		console = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	} else {
		console = tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: "2006-01-02 15:04:05",
		})
	}

	if cfg.FluentHost == "" {
		return slog.New(console), func() error { return nil }, nil
	}

	client, err := fluent.New(fluent.Config{
		FluentHost: cfg.FluentHost,
		FluentPort: cfg.FluentPort,
		Async:      true,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to fluentd: %w", err)
	}

	handler := newMultiHandler(console, newFluentHandler(client, appName, level))
	return slog.New(handler).With("app", appName), client.Close, nil
}

// ParseLevel maps a config string to a slog level; unknown values mean info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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

// Discard returns a logger that drops everything. Used by tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}
