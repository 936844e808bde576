package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"medisage-api/internal/config"
)

var (
	mu           sync.RWMutex
	globalLogger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			With().Timestamp().Logger().Level(zerolog.InfoLevel)
)

// GetLogger returns the process-wide logger. Before New is called it is an info-level console logger.
func GetLogger() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return globalLogger
}

// New builds the service logger from configuration and installs it as the global logger.
func New(cfg *config.Config) (zerolog.Logger, error) {
	return build(cfg.LogLevel, cfg.LogFormat, cfg.ServiceName, os.Stdout)
}

func build(level, format, service string, out io.Writer) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("parse log level: %w", err)
	}

	var writer io.Writer
	switch strings.ToLower(format) {
	case "json":
		writer = out
	case "console", "":
		writer = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	default:
		return zerolog.Logger{}, fmt.Errorf("unsupported log format %q", format)
	}

	log := zerolog.New(writer).With().Timestamp().Str("service", service).Logger().Level(lvl)
	zerolog.SetGlobalLevel(lvl)

	mu.Lock()
	globalLogger = log
	mu.Unlock()

	return log, nil
}
