package logging

import (
	"os"
	"sync"

	"github.com/rs/zerolog"
)

// The shim logs to stderr only: stdout belongs to the host application.
// Levels use the vendor's numeric scale (0=off 1=err 2=warn 3=info 4=debug)
// so NEURON_SHIM_LOG_LEVEL keeps its original meaning.

var (
	mu   sync.RWMutex
	base = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
		With().Timestamp().Logger().Level(zerolog.InfoLevel)
)

// SetLevel applies a shim numeric level to the base logger.
func SetLevel(level int) {
	mu.Lock()
	defer mu.Unlock()
	base = base.Level(zerologLevel(level))
}

// For returns a child logger tagged with a component name.
func For(component string) zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base.With().Str("component", component).Logger()
}

func zerologLevel(level int) zerolog.Level {
	switch {
	case level <= 0:
		return zerolog.Disabled
	case level == 1:
		return zerolog.ErrorLevel
	case level == 2:
		return zerolog.WarnLevel
	case level == 3:
		return zerolog.InfoLevel
	default:
		return zerolog.DebugLevel
	}
}
