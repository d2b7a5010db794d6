package storage

import (
	"fmt"
	"path/filepath"

	"channel-coach/shared/config"

	"github.com/rs/zerolog/log"
)

// Open builds the store named by cfg.Driver. The returned close func is
// always safe to call.
func Open(cfg config.StorageConfig) (KV, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Driver {
	case "memory":
		log.Warn().Msg("Using in-memory storage, tracked actions are lost on exit")
		return NewMemoryStore(), noop, nil

	case "file":
		fs, err := NewFileStore(cfg.Path)
		if err != nil {
			return nil, noop, err
		}
		log.Info().Msgf("File storage initialized in %s", cfg.Path)
		return fs, noop, nil

	case "sqlite":
		path := cfg.Path
		if filepath.Ext(path) == "" {
			path = filepath.Join(path, "coach.db")
		}
		s, err := NewSQLiteStore(path)
		if err != nil {
			return nil, noop, err
		}
		log.Info().Msgf("SQLite storage initialized at %s", path)
		return s, s.Close, nil
	}

	return nil, noop, fmt.Errorf("unknown storage driver %q", cfg.Driver)
}
