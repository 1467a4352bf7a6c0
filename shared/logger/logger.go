package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config controls level and output format
type Config struct {
	Level  string // trace, debug, info, warn, error
	Pretty bool
	Out    io.Writer // nil means stderr
}

// New builds a zerolog logger and sets the global level. Unknown levels fall back to info.
func New(cfg Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	out := cfg.Out
	if out == nil {
		out = os.Stderr
	}

	if cfg.Pretty {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: "15:04:05",
		}
	}

	return zerolog.New(out).With().Timestamp().Logger()
}

// SetGlobalLogger replaces log.Logger, which gin middleware and main use.
func SetGlobalLogger(l zerolog.Logger) {
	log.Logger = l
}
