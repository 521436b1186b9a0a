package badgerimpl

import (
	"fmt"

	"github.com/dgraph-io/badger/v2"
	"github.com/rs/zerolog"

	"github.com/droplets-system/epoch/storage"
)

// DB adapts a badger database to storage.DB.
type DB struct {
	db *badger.DB
}

var _ storage.DB = (*DB)(nil)

// ToDB wraps an open badger database.
func ToDB(db *badger.DB) *DB {
	return &DB{db: db}
}

// Open opens (or creates) the badger database in dir. An empty dir opens an
// in-memory database.
func Open(dir string, log zerolog.Logger) (*DB, error) {
	opts := badger.DefaultOptions(dir).WithLogger(newLogger(log))
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("could not open badger db at %q: %w", dir, err)
	}
	return ToDB(db), nil
}

func (d *DB) Reader() storage.Reader {
	return dbReader{db: d.db}
}

func (d *DB) WithReaderBatchWriter(fn func(storage.ReaderBatchWriter) error) error {
	batch := NewReaderBatchWriter(d.db)
	defer batch.Discard()

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

// logger forwards badger's log output to zerolog.
type logger struct {
	log zerolog.Logger
}

var _ badger.Logger = (*logger)(nil)

func newLogger(log zerolog.Logger) *logger {
	return &logger{log: log.With().Str("component", "badger").Logger()}
}

func (l *logger) Errorf(msg string, args ...interface{}) {
	l.log.Error().Msgf(msg, args...)
}

func (l *logger) Warningf(msg string, args ...interface{}) {
	l.log.Warn().Msgf(msg, args...)
}

func (l *logger) Infof(msg string, args ...interface{}) {
	l.log.Debug().Msgf(msg, args...)
}

func (l *logger) Debugf(msg string, args ...interface{}) {
	l.log.Trace().Msgf(msg, args...)
}
