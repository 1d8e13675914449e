// Package voyager provides navigation state for tree-structured UI flows.
//
// The navigation controller itself lives in package router. This package
// wires the ambient pieces around it: logging, configuration files, and the
// deep link table.
package voyager

import (
	"log/slog"
	"os"

	"github.com/BrandonKowalski/voyager/pkg/voyager/constants"
	"github.com/BrandonKowalski/voyager/pkg/voyager/internal"
)

// Options configures logging for the voyager packages.
type Options struct {
	LogPath          string // Full path for log file including filename (creates parent directories)
	LogLevel         string // Application log level ("debug", "info", "warn", "error")
	InternalLogLevel string // Level for framework logs such as controller transitions
}

// Init applies logging options. Call before creating controllers so they
// pick up the configured internal logger.
// If VOYAGER_DEBUG is set, framework logging is forced to debug.
func Init(options Options) {
	if options.LogPath != "" {
		internal.SetLogPath(options.LogPath)
	}

	if options.LogLevel != "" {
		internal.SetRawLogLevel(options.LogLevel)
	}

	if os.Getenv(constants.DebugEnvVar) != "" || constants.IsDevMode() {
		internal.SetInternalLogLevel(slog.LevelDebug)
	} else if options.InternalLogLevel != "" {
		internal.SetInternalLogLevel(internal.ParseLevel(options.InternalLogLevel))
	} else {
		internal.SetInternalLogLevel(slog.LevelError)
	}
}

// Close releases the log file, if one was opened.
func Close() {
	internal.CloseLogger()
}

// SetLogPath sets the full path for the log file, including filename.
// Creates all necessary parent directories.
// Call before Init() to take effect during initialization.
func SetLogPath(path string) {
	internal.SetLogPath(path)
}

// GetLogger returns the application logger for structured logging.
func GetLogger() *slog.Logger {
	return internal.GetLogger()
}

// GetInternalLogger returns the logger used by controllers by default.
func GetInternalLogger() *slog.Logger {
	return internal.GetInternalLogger()
}

// SetLogLevel sets the minimum log level for the application logger.
func SetLogLevel(level slog.Level) {
	internal.SetLogLevel(level)
}

// SetRawLogLevel parses and sets the log level from a string (e.g., "debug", "info", "error").
func SetRawLogLevel(level string) {
	internal.SetRawLogLevel(level)
}
