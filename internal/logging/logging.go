// Package logging builds the structured loggers used across landscaper.
//
// Loggers are plain *slog.Logger values. Text output goes to stderr unless
// Config.JSON is set; Config.Quiet discards everything, which is what the
// CLI uses when its output is meant to be piped.
//
//	log := logging.New(logging.Config{Level: logging.LevelDebug, Service: "relay"})
//	log.Info("listening", "addr", addr)
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Level is a log severity. Messages below the configured level are dropped.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns "DEBUG", "INFO", "WARN" or "ERROR".
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l Level) toSlog() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ParseLevel accepts the names printed by String, case-insensitively, and
// "warning". The empty string is LevelInfo.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// Config configures New. The zero value logs Info and above as text to
// stderr.
type Config struct {
	Level Level
	// JSON switches to one JSON object per line.
	JSON bool
	// Service is attached to every record as "service" when set.
	Service string
	// Quiet discards all output.
	Quiet bool
	// Output overrides stderr; used by tests.
	Output io.Writer
}

// New builds a logger from cfg.
func New(cfg Config) *slog.Logger {
	var w io.Writer = os.Stderr
	if cfg.Output != nil {
		w = cfg.Output
	}
	if cfg.Quiet {
		w = io.Discard
	}

	opts := &slog.HandlerOptions{Level: cfg.Level.toSlog()}
	var h slog.Handler
	if cfg.JSON {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}

	log := slog.New(h)
	if cfg.Service != "" {
		log = log.With("service", cfg.Service)
	}
	return log
}

// Default is New(Config{}).
func Default() *slog.Logger { return New(Config{}) }

// Discard returns a logger that drops everything.
func Discard() *slog.Logger { return New(Config{Quiet: true}) }
