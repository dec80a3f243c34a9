// Package logging configures the process-wide charmbracelet/log logger the
// rest of the engine calls directly (log.Info, log.Error, ...), the way the
// teacher's cmd package configures log.SetLevel per subcommand. This package
// centralizes that configuration for the server entrypoint, including the
// optional file sink the teacher's original stdlib logger wrote to.
package logging

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
)

// Options controls the global logger. A blank Level defaults to info.
type Options struct {
	Level      string
	JSON       bool
	ReportTime bool
	FilePath   string
}

var logFile *os.File

// Init configures the default charmbracelet/log logger for the process.
// Subsequent calls to the package-level log.Info/log.Error/... functions
// throughout the engine pick up this configuration.
func Init(opts Options) error {
	level := log.InfoLevel
	if opts.Level != "" {
		parsed, err := log.ParseLevel(opts.Level)
		if err != nil {
			return fmt.Errorf("logging: invalid level %q: %w", opts.Level, err)
		}
		level = parsed
	}

	out := os.Stderr
	if opts.FilePath != "" {
		f, err := os.OpenFile(opts.FilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("logging: open log file %s: %w", opts.FilePath, err)
		}
		logFile = f
	}

	logger := log.NewWithOptions(sinkFor(out), log.Options{
		ReportCaller:    true,
		ReportTimestamp: opts.ReportTime,
		Level:           level,
	})
	if opts.JSON {
		logger.SetFormatter(log.JSONFormatter)
	}
	log.SetDefault(logger)
	return nil
}

// sinkFor returns stderr unless a log file was opened, matching the
// teacher's original file-first behavior while defaulting to a TTY-friendly
// stream when Options.FilePath is blank.
func sinkFor(fallback *os.File) *os.File {
	if logFile != nil {
		return logFile
	}
	return fallback
}

// Close releases the log file opened by Init, if any.
func Close() {
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}
