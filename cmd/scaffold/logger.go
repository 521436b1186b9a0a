package scaffold

import (
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/droplets-system/epoch/config"
)

// NewLogger builds the process logger and sets the global log level.
func NewLogger(cfg *config.Config, w io.Writer) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.SetGlobalLevel(cfg.Level())

	if cfg.LogFormat == config.LogFormatConsole {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).With().Timestamp().Str("service", "epochd").Logger()
}
