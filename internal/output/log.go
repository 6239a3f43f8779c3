package output

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// logger is the package-level logger used by all packaging steps.
var logger = log.NewWithOptions(os.Stderr, log.Options{
	Level:           log.InfoLevel,
	ReportTimestamp: false,
})

// LogConfig contains logging-related settings.
type LogConfig struct {
	// Level is a level name: debug, info, warn or error. Empty means info.
	Level string
	// Verbose forces debug level and adds timestamps and caller info.
	Verbose bool
	// Writer overrides the destination (stderr when nil).
	Writer io.Writer
}

// SetupLogging configures the package logger from cfg. Unknown level names
// fall back to info, mirroring the lenient level parsing of the CLI flag.
func SetupLogging(cfg LogConfig) {
	w := cfg.Writer
	if w == nil {
		w = os.Stderr
	}

	level := ParseLevel(cfg.Level)
	if cfg.Verbose {
		level = log.DebugLevel
	}

	logger = log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: cfg.Verbose,
		ReportCaller:    cfg.Verbose,
		TimeFormat:      "15:04:05",
	})
}

// ParseLevel converts a level name to a log level, defaulting to info.
func ParseLevel(name string) log.Level {
	if strings.TrimSpace(name) == "" {
		return log.InfoLevel
	}
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// Logger returns the current package logger.
func Logger() *log.Logger {
	return logger
}

// PlatformLogger returns a child logger prefixed with the platform name, so
// interleaved multi-platform output stays attributable.
func PlatformLogger(platform string) *log.Logger {
	return logger.WithPrefix(platform)
}

// Debug logs a debug message.
func Debug(msg string, keyvals ...interface{}) {
	logger.Debug(msg, keyvals...)
}

// Info logs an info message.
func Info(msg string, keyvals ...interface{}) {
	logger.Info(msg, keyvals...)
}

// Warn logs a warning message.
func Warn(msg string, keyvals ...interface{}) {
	logger.Warn(msg, keyvals...)
}

// Error logs an error message.
func Error(msg string, keyvals ...interface{}) {
	logger.Error(msg, keyvals...)
}
