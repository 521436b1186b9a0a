package pebbleimpl

import (
	"errors"
	"io"

	"github.com/cockroachdb/pebble"

	"github.com/droplets-system/epoch/module/irrecoverable"
	"github.com/droplets-system/epoch/storage"
)

type noopCloser struct{}

func (noopCloser) Close() error { return nil }

// pebbleReader is satisfied by *pebble.DB and by indexed *pebble.Batch,
// the latter overlaying its pending writes on the committed state.
type pebbleReader interface {
	Get(key []byte) ([]byte, io.Closer, error)
	NewIter(o *pebble.IterOptions) (*pebble.Iterator, error)
}

type dbReader struct {
	db pebbleReader
}

var _ storage.Reader = (*dbReader)(nil)

func (r dbReader) Get(key []byte) ([]byte, io.Closer, error) {
	value, closer, err := r.db.Get(key)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, noopCloser{}, storage.ErrNotFound
		}
		return nil, noopCloser{}, irrecoverable.NewExceptionf("failed to get value: %w", err)
	}
	return value, closer, nil
}

func (r dbReader) NewIter(startPrefix, endPrefix []byte, ops storage.IteratorOption) (storage.Iterator, error) {
	lowerBound, upperBound := storage.StartEndPrefixToLowerUpperBound(startPrefix, endPrefix)

	iter, err := r.db.NewIter(&pebble.IterOptions{
		LowerBound: lowerBound,
		UpperBound: upperBound,
	})
	if err != nil {
		return nil, irrecoverable.NewExceptionf("can not create iterator: %w", err)
	}
	return &pebbleIterator{iter: iter}, nil
}

type pebbleIterator struct {
	iter *pebble.Iterator
}

var _ storage.Iterator = (*pebbleIterator)(nil)

func (i *pebbleIterator) First() bool {
	return i.iter.First()
}

func (i *pebbleIterator) Valid() bool {
	return i.iter.Valid()
}

func (i *pebbleIterator) Next() {
	i.iter.Next()
}

func (i *pebbleIterator) IterItem() storage.IterItem {
	return pebbleIterItem{iter: i.iter}
}

func (i *pebbleIterator) Close() error {
	return i.iter.Close()
}

type pebbleIterItem struct {
	iter *pebble.Iterator
}

var _ storage.IterItem = (*pebbleIterItem)(nil)

func (i pebbleIterItem) Key() []byte {
	return i.iter.Key()
}

func (i pebbleIterItem) Value(fn func(val []byte) error) error {
	return fn(i.iter.Value())
}
