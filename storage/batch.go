package storage

import (
	"io"
)

// IteratorOption configures an iteration.
type IteratorOption struct {
	// KeyOnly skips loading values where the backend supports it.
	KeyOnly bool
}

// DefaultIteratorOptions loads keys and values.
func DefaultIteratorOptions() IteratorOption {
	return IteratorOption{}
}

// Iterator iterates over the keys of a prefix range in ascending order.
type Iterator interface {
	// First seeks to the smallest key in the range and returns whether it is valid.
	First() bool
	// Valid returns whether the iterator points at a key in the range.
	Valid() bool
	// Next advances the iterator.
	Next()
	// IterItem returns the current key-value pair.
	IterItem() IterItem
	// Close releases the iterator. It must be called exactly once.
	Close() error
}

// IterItem is a key-value pair yielded by an Iterator.
type IterItem interface {
	// Key returns the key. The slice is only valid until the iterator moves.
	Key() []byte
	// Value passes the value to fn. The slice is only valid within fn.
	Value(fn func(val []byte) error) error
}

// Reader reads key-value pairs.
type Reader interface {
	// Get returns the value for key. The caller must call closer.Close() once
	// it is done with value.
	// Expected error returns:
	//   - storage.ErrNotFound if the key does not exist
	Get(key []byte) (value []byte, closer io.Closer, err error)

	// NewIter returns an iterator over all keys with a prefix in the range
	// [startPrefix, endPrefix], both inclusive.
	NewIter(startPrefix, endPrefix []byte, ops IteratorOption) (Iterator, error)
}

// Writer stages writes in a batch. Nothing is persisted until the batch commits.
type Writer interface {
	Set(key, value []byte) error
	Delete(key []byte) error
	// DeleteByRange removes all keys with a prefix in [startPrefix, endPrefix],
	// both inclusive.
	DeleteByRange(startPrefix, endPrefix []byte) error
}

// ReaderBatchWriter is the unit of atomicity: all writes staged through
// Writer are committed together, or none is.
type ReaderBatchWriter interface {
	// Reader returns a reader which observes the committed state of the
	// database overlaid with the writes staged in this batch.
	Reader() Reader

	// Writer returns the writer staging writes in this batch.
	Writer() Writer

	// AddCallback adds a callback which is invoked with the batch's outcome:
	// nil after a successful commit, the error otherwise. Callbacks are
	// useful for keeping caches consistent with committed data.
	AddCallback(func(error))
}

// DB is a key-value database offering atomic batches.
type DB interface {
	// Reader returns a reader of the committed state.
	Reader() Reader

	// WithReaderBatchWriter runs fn within a new batch and commits the batch
	// if fn returns nil. If fn errors, all staged writes are discarded and
	// the error is returned.
	WithReaderBatchWriter(fn func(ReaderBatchWriter) error) error

	// Close closes the database.
	Close() error
}

// OnlyWriter is an adapter to convert a function that only writes into a
// function that takes a ReaderBatchWriter.
func OnlyWriter(fn func(Writer) error) func(ReaderBatchWriter) error {
	return func(rw ReaderBatchWriter) error {
		return fn(rw.Writer())
	}
}

// OnCommitSucceed registers fn to run once the batch of rw is committed. fn
// is not run if the batch is discarded or fails to commit.
func OnCommitSucceed(rw ReaderBatchWriter, fn func()) {
	rw.AddCallback(func(err error) {
		if err == nil {
			fn()
		}
	})
}

// PrefixUpperBound returns the smallest key which is larger than every key
// with the given prefix, or nil if no such key exists (prefix is all 0xff).
func PrefixUpperBound(prefix []byte) []byte {
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}

// StartEndPrefixToLowerUpperBound converts the inclusive prefix range
// [startPrefix, endPrefix] into the bounds [lowerBound, upperBound) used
// by iterators. A nil upperBound means unbounded.
func StartEndPrefixToLowerUpperBound(startPrefix, endPrefix []byte) (lowerBound, upperBound []byte) {
	return startPrefix, PrefixUpperBound(endPrefix)
}
