package logging

import (
	"io"
	"os"
	"time"

	"channel-coach/shared/config"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup configures the global zerolog logger used through
// github.com/rs/zerolog/log across the repo.
func Setup(cfg config.LoggingConfig) error {
	return SetupWriter(cfg, os.Stderr)
}

func SetupWriter(cfg config.LoggingConfig, w io.Writer) error {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if cfg.Pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "Jan 2 15:04:05"}
	}
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
	return nil
}
