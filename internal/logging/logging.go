// Package logging builds the application logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	charmLog "github.com/charmbracelet/log"
	"github.com/hy4ri/tasklist-tui/internal/config"
)

// FileName is the default log file name inside the state directory.
const FileName = "tasklist.log"

// Logger wraps a charm logger together with the sink it owns.
type Logger struct {
	*charmLog.Logger
	sink io.Closer
	path string
}

// New opens the sink described by cfg and returns a logger writing to it.
// The TUI owns the terminal, so the default sink is a file.
func New(cfg config.LogConfig) (*Logger, error) {
	level := charmLog.InfoLevel
	if strings.TrimSpace(cfg.Level) != "" {
		parsed, err := charmLog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level)))
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		level = parsed
	}

	if cfg.File == "-" {
		return &Logger{Logger: newCharmLogger(os.Stderr, level)}, nil
	}

	path := cfg.File
	if path == "" {
		dir, err := config.StateDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, FileName)
	} else if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return &Logger{Logger: newCharmLogger(f, level), sink: f, path: path}, nil
}

// NewWriter returns a logger on an arbitrary writer. Used by tests and by
// callers that already own the destination.
func NewWriter(w io.Writer, level charmLog.Level) *Logger {
	return &Logger{Logger: newCharmLogger(w, level)}
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return NewWriter(io.Discard, charmLog.FatalLevel)
}

func newCharmLogger(w io.Writer, level charmLog.Level) *charmLog.Logger {
	return charmLog.NewWithOptions(w, charmLog.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          "tasklist",
	})
}

// Path returns the log file path, or "" for non-file sinks.
func (l *Logger) Path() string {
	return l.path
}

// Close releases the sink if the logger owns one.
func (l *Logger) Close() error {
	if l.sink == nil {
		return nil
	}
	return l.sink.Close()
}
