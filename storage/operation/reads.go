package operation

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/droplets-system/epoch/module/irrecoverable"
	"github.com/droplets-system/epoch/storage"
	"github.com/droplets-system/epoch/utils/merr"
)

// IterationFunc is a callback function that will be called on each key-value pair during the iteration.
// The key is copied and passed to the function, so key can be modified or retained after iteration.
// The `getValue` function can be called to retrieve the value of the current key and decode value into destVal object.
// The caller can return (true, nil) to stop the iteration early.
type IterationFunc func(keyCopy []byte, getValue func(destVal any) error) (bail bool, err error)

// IterateKeysByPrefixRange will iterate over all keys in the database, where the key starts with a prefix in
// the range [startPrefix, endPrefix] (both inclusive). On every such key, the `check` function is called.
// If `check` errors, iteration is aborted and the error is propagated to the caller.
// No errors expected during normal operations.
func IterateKeysByPrefixRange(r storage.Reader, startPrefix []byte, endPrefix []byte, check func(key []byte) error) error {
	return IterateKeys(r, startPrefix, endPrefix, KeyOnlyIterateFunc(check), storage.IteratorOption{KeyOnly: true})
}

// IterateKeys will iterate over all entries in the database, where the key starts with a prefix in
// the range [startPrefix, endPrefix] (both inclusive).
// No errors expected during normal operations.
func IterateKeys(r storage.Reader, startPrefix []byte, endPrefix []byte, iterFunc IterationFunc, opt storage.IteratorOption) (errToReturn error) {
	if len(startPrefix) == 0 {
		return fmt.Errorf("startPrefix prefix is empty")
	}

	if len(endPrefix) == 0 {
		return fmt.Errorf("endPrefix prefix is empty")
	}

	if bytes.Compare(startPrefix, endPrefix) > 0 {
		return fmt.Errorf("startPrefix key must be less than or equal to endPrefix key")
	}

	it, err := r.NewIter(startPrefix, endPrefix, opt)
	if err != nil {
		return fmt.Errorf("can not create iterator: %w", err)
	}
	defer func() {
		errToReturn = merr.CloseAndMergeError(it, errToReturn)
	}()

	for it.First(); it.Valid(); it.Next() {
		item := it.IterItem()
		key := item.Key()

		// The underlying database may re-use and modify the backing memory of the returned key.
		// For safety we proactively make a copy before passing the key to the upper layer.
		keyCopy := make([]byte, len(key))
		copy(keyCopy, key)

		bail, err := iterFunc(keyCopy, func(destVal any) error {
			return item.Value(func(val []byte) error {
				return decodeValue(val, destVal)
			})
		})
		if err != nil {
			return err
		}
		if bail {
			return nil
		}
	}

	return nil
}

// TraverseByPrefix will iterate over all keys with the given prefix.
// Errors returned by the iteration function are propagated to the caller.
// No other errors are expected during normal operation.
func TraverseByPrefix(r storage.Reader, prefix []byte, iterFunc IterationFunc, opt storage.IteratorOption) error {
	return IterateKeys(r, prefix, prefix, iterFunc, opt)
}

// KeyOnlyIterateFunc returns an IterationFunc that only iterates over keys
func KeyOnlyIterateFunc(fn func(key []byte) error) IterationFunc {
	return func(key []byte, _ func(destVal any) error) (bail bool, err error) {
		err = fn(key)
		if err != nil {
			return true, err
		}
		return false, nil
	}
}

// CountByPrefix returns the number of keys with the given prefix.
// No errors are expected during normal operation.
func CountByPrefix(r storage.Reader, prefix []byte) (uint, error) {
	var count uint
	err := IterateKeysByPrefixRange(r, prefix, prefix, func(key []byte) error {
		count++
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// KeyExists returns true if a key exists in the database.
// No errors are expected during normal operation.
func KeyExists(r storage.Reader, key []byte) (exist bool, errToReturn error) {
	_, closer, err := r.Get(key)
	if err != nil {
		// the key does not exist in the database
		if errors.Is(err, storage.ErrNotFound) {
			return false, nil
		}
		// exception while checking for the key
		return false, irrecoverable.NewExceptionf("could not load data: %w", err)
	}
	defer func() {
		errToReturn = merr.CloseAndMergeError(closer, errToReturn)
	}()

	// the key does exist in the database
	return true, nil
}

// RetrieveByKey will retrieve the binary data under the given key from the database
// and decode it into the given entity. The provided entity needs to be a
// pointer to an initialized entity of the correct type.
// Error returns:
//   - storage.ErrNotFound if the key does not exist in the database
//   - generic error in case of unexpected failure from the database layer, or failure
//     to decode an existing database value
func RetrieveByKey(r storage.Reader, key []byte, entity any) (errToReturn error) {
	val, closer, err := r.Get(key)
	if err != nil {
		return err
	}

	defer func() {
		errToReturn = merr.CloseAndMergeError(closer, errToReturn)
	}()

	return decodeValue(val, entity)
}
