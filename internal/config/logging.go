package config

import (
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/rshade/healthtrack/internal/logging"
)

// Logger is the global zerolog logger instance.
//
//nolint:gochecknoglobals // Logger is intentionally global for application-wide structured logging
var Logger zerolog.Logger

// logMu protects concurrent access to Logger.
//
//nolint:gochecknoglobals // Guards the global logger state
var logMu sync.RWMutex

// InitLogger initializes the package-level console Logger at level and
// installs it as zerolog.DefaultContextLogger so logging.FromContext works
// before a command has stored its own logger. level defaults to info when it
// cannot be parsed.
func InitLogger(level string) {
	logMu.Lock()
	defer logMu.Unlock()

	Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(parseLevel(level)).
		With().
		Timestamp().
		Logger()
	zerolog.DefaultContextLogger = &Logger
}

// SetLogLevel sets the global Logger's level, defaulting to info on parse error.
func SetLogLevel(level string) {
	logMu.Lock()
	defer logMu.Unlock()

	Logger = Logger.Level(parseLevel(level))
	zerolog.DefaultContextLogger = &Logger
}

func parseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

//nolint:gochecknoinits // a logger must exist before any configuration is loaded
func init() {
	InitLogger("info")
}

// ToLoggingConfig converts the YAML logging section into logging.Config.
func (lc *LoggingConfig) ToLoggingConfig() logging.Config {
	return logging.Config{
		Level:  lc.Level,
		Format: lc.Format,
		File:   lc.File,
	}
}

// GetLoggingConfig returns a copy of the global Logging settings. Overrides
// such as --debug are applied by the caller.
func GetLoggingConfig() LoggingConfig {
	return GetGlobalConfig().Logging
}
