package badgerimpl

import (
	"bytes"
	"errors"
	"io"

	"github.com/dgraph-io/badger/v2"

	"github.com/droplets-system/epoch/module/irrecoverable"
	"github.com/droplets-system/epoch/storage"
)

type noopCloser struct{}

func (noopCloser) Close() error { return nil }

// txnReader reads through a badger transaction. A read-write transaction
// observes its own pending writes.
type txnReader struct {
	txn *badger.Txn
}

var _ storage.Reader = (*txnReader)(nil)

func (r txnReader) Get(key []byte) ([]byte, io.Closer, error) {
	item, err := r.txn.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, noopCloser{}, storage.ErrNotFound
		}
		return nil, noopCloser{}, irrecoverable.NewExceptionf("could not load data: %w", err)
	}

	value, err := item.ValueCopy(nil)
	if err != nil {
		return nil, noopCloser{}, irrecoverable.NewExceptionf("could not load value: %w", err)
	}
	return value, noopCloser{}, nil
}

func (r txnReader) NewIter(startPrefix, endPrefix []byte, ops storage.IteratorOption) (storage.Iterator, error) {
	return newBadgerIterator(r.txn, startPrefix, endPrefix, ops, false), nil
}

// dbReader reads the committed state of the database, using a fresh
// read-only transaction per read.
type dbReader struct {
	db *badger.DB
}

var _ storage.Reader = (*dbReader)(nil)

func (r dbReader) Get(key []byte) ([]byte, io.Closer, error) {
	txn := r.db.NewTransaction(false)
	defer txn.Discard()
	return txnReader{txn: txn}.Get(key)
}

func (r dbReader) NewIter(startPrefix, endPrefix []byte, ops storage.IteratorOption) (storage.Iterator, error) {
	txn := r.db.NewTransaction(false)
	return newBadgerIterator(txn, startPrefix, endPrefix, ops, true), nil
}

// badgerIterator iterates over the keys in [lowerBound, upperBound).
type badgerIterator struct {
	txn        *badger.Txn
	iter       *badger.Iterator
	lowerBound []byte
	upperBound []byte
	discardTxn bool
}

var _ storage.Iterator = (*badgerIterator)(nil)

func newBadgerIterator(txn *badger.Txn, startPrefix, endPrefix []byte, ops storage.IteratorOption, discardTxn bool) *badgerIterator {
	options := badger.DefaultIteratorOptions
	if ops.KeyOnly {
		options.PrefetchValues = false
	}

	lowerBound, upperBound := storage.StartEndPrefixToLowerUpperBound(startPrefix, endPrefix)

	return &badgerIterator{
		txn:        txn,
		iter:       txn.NewIterator(options),
		lowerBound: lowerBound,
		upperBound: upperBound,
		discardTxn: discardTxn,
	}
}

func (i *badgerIterator) First() bool {
	i.iter.Seek(i.lowerBound)
	return i.Valid()
}

func (i *badgerIterator) Valid() bool {
	if !i.iter.Valid() {
		return false
	}
	if i.upperBound == nil {
		return true
	}
	return bytes.Compare(i.iter.Item().Key(), i.upperBound) < 0
}

func (i *badgerIterator) Next() {
	i.iter.Next()
}

// IterItem returns the current item; *badger.Item satisfies storage.IterItem.
func (i *badgerIterator) IterItem() storage.IterItem {
	return i.iter.Item()
}

func (i *badgerIterator) Close() error {
	i.iter.Close()
	if i.discardTxn {
		i.txn.Discard()
	}
	return nil
}
