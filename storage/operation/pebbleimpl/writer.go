package pebbleimpl

import (
	"fmt"

	"github.com/cockroachdb/pebble"

	"github.com/droplets-system/epoch/storage"
	"github.com/droplets-system/epoch/storage/operation"
)

// ReaderBatchWriter stages the writes of a batch in an indexed pebble batch,
// so that reads through Reader observe the pending writes.
type ReaderBatchWriter struct {
	db    *pebble.DB
	batch *pebble.Batch

	callbacks *operation.Callbacks
}

var _ storage.ReaderBatchWriter = (*ReaderBatchWriter)(nil)
var _ storage.Writer = (*ReaderBatchWriter)(nil)

func NewReaderBatchWriter(db *pebble.DB) *ReaderBatchWriter {
	return &ReaderBatchWriter{
		db:        db,
		batch:     db.NewIndexedBatch(),
		callbacks: operation.NewCallbacks(),
	}
}

func (b *ReaderBatchWriter) Reader() storage.Reader {
	return dbReader{db: b.batch}
}

func (b *ReaderBatchWriter) Writer() storage.Writer {
	return b
}

func (b *ReaderBatchWriter) AddCallback(callback func(error)) {
	b.callbacks.AddCallback(callback)
}

// Commit flushes the batch to disk and notifies the callbacks of the outcome.
func (b *ReaderBatchWriter) Commit() error {
	err := b.batch.Commit(pebble.Sync)

	b.callbacks.NotifyCallbacks(err)

	return err
}

func (b *ReaderBatchWriter) Close() error {
	return b.batch.Close()
}

func (b *ReaderBatchWriter) Set(key, value []byte) error {
	return b.batch.Set(key, value, pebble.Sync)
}

func (b *ReaderBatchWriter) Delete(key []byte) error {
	return b.batch.Delete(key, pebble.Sync)
}

// DeleteByRange deletes all keys with a prefix in [startPrefix, endPrefix]
// using a single range tombstone.
func (b *ReaderBatchWriter) DeleteByRange(startPrefix, endPrefix []byte) error {
	lowerBound, upperBound := storage.StartEndPrefixToLowerUpperBound(startPrefix, endPrefix)
	if upperBound == nil {
		return fmt.Errorf("can not delete unbounded range starting at %x", startPrefix)
	}
	return b.batch.DeleteRange(lowerBound, upperBound, pebble.Sync)
}
