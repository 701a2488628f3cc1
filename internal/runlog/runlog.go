// Package runlog sets up the per-run log: every invocation writes to a
// fresh timestamped file so one run's record is never interleaved with
// another's. Warnings and errors are echoed to stderr; everything is
// echoed with verbose on.
package runlog

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

// Run owns the log destination for one process invocation.
type Run struct {
	Logger *logrus.Logger
	Path   string

	file *os.File
}

// New creates the log directory if needed, opens a fresh log file named
// after the current instant, and returns a configured logger.
func New(dir string, verbose bool) (*Run, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, "run_"+time.Now().Format("20060102_150405")+".log")
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600) // #nosec G304 - path built above
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}

	logger := logrus.New()
	logger.SetOutput(file)
	logger.SetLevel(logrus.DebugLevel)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})

	echo := logrus.WarnLevel
	if verbose {
		echo = logrus.DebugLevel
	}
	logger.AddHook(&consoleHook{min: echo})

	return &Run{Logger: logger, Path: path, file: file}, nil
}

// Component returns an entry scoped to one component of the run.
func (r *Run) Component(name string) *logrus.Entry {
	return r.Logger.WithField("component", name)
}

// Close flushes and closes the log file.
func (r *Run) Close() error {
	return r.file.Close()
}

// consoleHook echoes entries at or above a severity to stderr.
type consoleHook struct {
	min logrus.Level
}

func (h *consoleHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *consoleHook) Fire(entry *logrus.Entry) error {
	// Levels are ordered most-severe-first in logrus.
	if entry.Level > h.min {
		return nil
	}
	fmt.Fprintf(os.Stderr, "%s %s\n", entry.Level.String(), entry.Message)
	return nil
}
