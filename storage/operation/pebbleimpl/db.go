package pebbleimpl

import (
	"fmt"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/rs/zerolog"

	"github.com/droplets-system/epoch/storage"
	"github.com/droplets-system/epoch/utils/merr"
)

// DefaultPebbleCacheSize is the block cache size used by Open.
const DefaultPebbleCacheSize = 1 << 20 * 64

// DB adapts a pebble database to storage.DB.
type DB struct {
	db *pebble.DB
}

var _ storage.DB = (*DB)(nil)

// ToDB wraps an open pebble database.
func ToDB(db *pebble.DB) *DB {
	return &DB{db: db}
}

// Open opens (or creates) the pebble database in dir. An empty dir opens an
// in-memory database.
func Open(dir string, log zerolog.Logger) (*DB, error) {
	cache := pebble.NewCache(DefaultPebbleCacheSize)
	defer cache.Unref()

	opts := &pebble.Options{
		Cache:  cache,
		Logger: newLogger(log),
	}
	if dir == "" {
		opts.FS = vfs.NewMem()
	}

	db, err := pebble.Open(dir, opts)
	if err != nil {
		return nil, fmt.Errorf("could not open pebble db at %q: %w", dir, err)
	}
	return ToDB(db), nil
}

func (d *DB) Reader() storage.Reader {
	return dbReader{db: d.db}
}

func (d *DB) WithReaderBatchWriter(fn func(storage.ReaderBatchWriter) error) (errToReturn error) {
	batch := NewReaderBatchWriter(d.db)
	defer func() {
		errToReturn = merr.CloseAndMergeError(batch, errToReturn)
	}()

	err := fn(batch)
	if err != nil {
		// fn might have registered callbacks which need to learn that the
		// batch will not be committed
		batch.callbacks.NotifyCallbacks(err)
		return err
	}

	return batch.Commit()
}

func (d *DB) Close() error {
	return d.db.Close()
}

// logger forwards pebble's log output to zerolog.
type logger struct {
	log zerolog.Logger
}

var _ pebble.Logger = (*logger)(nil)

func newLogger(log zerolog.Logger) *logger {
	return &logger{log: log.With().Str("component", "pebble").Logger()}
}

func (l *logger) Infof(format string, args ...interface{}) {
	l.log.Debug().Msgf(format, args...)
}

func (l *logger) Errorf(format string, args ...interface{}) {
	l.log.Error().Msgf(format, args...)
}

func (l *logger) Fatalf(format string, args ...interface{}) {
	l.log.Fatal().Msgf(format, args...)
}
