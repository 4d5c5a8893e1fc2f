package calahan

import (
	"os"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// EnvLogLevel is the environment variable consulted once, on first use of
// the library, for the initial log level.
const EnvLogLevel = "DOUBLOON_LOG_LEVEL"

var (
	libraryLevel    = zerolog.WarnLevel
	libraryLevelMu  sync.RWMutex
	envConfigureOne sync.Once
)

// SetLogLevel adjusts the verbosity of the library's loggers. Levels follow
// zerolog ("trace", "debug", "info", "warn", "error"). The default is warn,
// keeping terminal applications embedding the library quiet.
func SetLogLevel(level zerolog.Level) {
	libraryLevelMu.Lock()
	libraryLevel = level
	libraryLevelMu.Unlock()
}

// SetLogLevelFromString parses and applies a textual level. Unknown values
// are ignored and reported back as an error.
func SetLogLevelFromString(level string) error {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		return err
	}
	SetLogLevel(parsed)
	return nil
}

// newComponentLogger returns a logger scoped to one library component,
// honoring the configured library level.
func newComponentLogger(component string) zerolog.Logger {
	envConfigureOne.Do(func() {
		if raw := os.Getenv(EnvLogLevel); raw != "" {
			if parsed, err := zerolog.ParseLevel(raw); err == nil {
				SetLogLevel(parsed)
			}
		}
	})

	libraryLevelMu.RLock()
	level := libraryLevel
	libraryLevelMu.RUnlock()

	return log.With().Str("component", component).Logger().Level(level)
}
