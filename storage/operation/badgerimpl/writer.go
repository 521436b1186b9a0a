package badgerimpl

import (
	"fmt"

	"github.com/dgraph-io/badger/v2"

	"github.com/droplets-system/epoch/storage"
	"github.com/droplets-system/epoch/storage/operation"
)

// ReaderBatchWriter stages the writes of a batch in a badger read-write
// transaction, which provides read-your-writes and atomic commit.
type ReaderBatchWriter struct {
	txn *badger.Txn

	callbacks *operation.Callbacks
}

var _ storage.ReaderBatchWriter = (*ReaderBatchWriter)(nil)
var _ storage.Writer = (*ReaderBatchWriter)(nil)

func NewReaderBatchWriter(db *badger.DB) *ReaderBatchWriter {
	return &ReaderBatchWriter{
		txn:       db.NewTransaction(true),
		callbacks: operation.NewCallbacks(),
	}
}

func (b *ReaderBatchWriter) Reader() storage.Reader {
	return txnReader{txn: b.txn}
}

func (b *ReaderBatchWriter) Writer() storage.Writer {
	return b
}

func (b *ReaderBatchWriter) AddCallback(callback func(error)) {
	b.callbacks.AddCallback(callback)
}

// Commit commits the transaction and notifies the callbacks of the outcome.
func (b *ReaderBatchWriter) Commit() error {
	err := b.txn.Commit()

	b.callbacks.NotifyCallbacks(err)

	return err
}

// Discard drops all staged writes. It is a no-op after Commit.
func (b *ReaderBatchWriter) Discard() {
	b.txn.Discard()
}

func (b *ReaderBatchWriter) Set(key, value []byte) error {
	return b.txn.Set(key, value)
}

func (b *ReaderBatchWriter) Delete(key []byte) error {
	return b.txn.Delete(key)
}

// DeleteByRange deletes all keys with a prefix in [startPrefix, endPrefix].
// Badger has no range tombstones, so the keys are collected first and then
// deleted one by one; a read-write transaction allows one iterator at a time.
func (b *ReaderBatchWriter) DeleteByRange(startPrefix, endPrefix []byte) error {
	var keys [][]byte
	err := operation.IterateKeysByPrefixRange(b.Reader(), startPrefix, endPrefix, func(key []byte) error {
		keys = append(keys, key)
		return nil
	})
	if err != nil {
		return fmt.Errorf("could not find keys by range to be deleted: %w", err)
	}

	for _, key := range keys {
		err := b.txn.Delete(key)
		if err != nil {
			return fmt.Errorf("could not add key to delete batch (%x): %w", key, err)
		}
	}
	return nil
}
