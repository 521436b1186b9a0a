package scaffold

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/droplets-system/epoch/config"
	"github.com/droplets-system/epoch/storage"
	"github.com/droplets-system/epoch/storage/operation/badgerimpl"
	"github.com/droplets-system/epoch/storage/operation/pebbleimpl"
)

// InitStorage opens the database of the configured engine in dir. It refuses
// a directory written by the other engine.
func InitStorage(engine string, dir string, log zerolog.Logger) (storage.DB, error) {
	content, err := storage.InspectFolder(dir)
	if err != nil {
		return nil, fmt.Errorf("could not inspect data dir %s: %w", dir, err)
	}
	if content != storage.FolderEmpty && content.String() != engine {
		return nil, fmt.Errorf("data dir %s holds %s data, cannot open it with %s", dir, content, engine)
	}

	// Pre-create DB path
	err = os.MkdirAll(dir, 0700)
	if err != nil {
		return nil, fmt.Errorf("could not create %s db (path: %s): %w", engine, dir, err)
	}

	log = log.With().Str("component", "storage").Str("engine", engine).Logger()
	switch engine {
	case config.DBEngineBadger:
		db, err := badgerimpl.Open(dir, log)
		if err != nil {
			return nil, err
		}
		return db, nil
	case config.DBEnginePebble:
		db, err := pebbleimpl.Open(dir, log)
		if err != nil {
			return nil, err
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unknown db engine %q", engine)
	}
}
