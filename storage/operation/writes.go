package operation

import (
	"fmt"

	"github.com/droplets-system/epoch/module/irrecoverable"
	"github.com/droplets-system/epoch/storage"
)

// UpsertByKey will encode the given entity and store it under the given
// key, overwriting any existing value.
// No errors are expected during normal operation.
func UpsertByKey(w storage.Writer, key []byte, entity any) error {
	value, err := encodeEntity(entity)
	if err != nil {
		return err
	}

	err = w.Set(key, value)
	if err != nil {
		return irrecoverable.NewExceptionf("failed to store data: %w", err)
	}

	return nil
}

// InsertByKey will encode the given entity and store it under the given key.
// Expected error returns:
//   - storage.ErrAlreadyExists if the key already exists
func InsertByKey(rw storage.ReaderBatchWriter, key []byte, entity any) error {
	exists, err := KeyExists(rw.Reader(), key)
	if err != nil {
		return fmt.Errorf("could not check key: %w", err)
	}
	if exists {
		return storage.ErrAlreadyExists
	}
	return UpsertByKey(rw.Writer(), key, entity)
}

// UpdateByKey will encode the given entity and replace the value stored
// under the given key.
// Expected error returns:
//   - storage.ErrNotFound if the key does not exist
func UpdateByKey(rw storage.ReaderBatchWriter, key []byte, entity any) error {
	exists, err := KeyExists(rw.Reader(), key)
	if err != nil {
		return fmt.Errorf("could not check key: %w", err)
	}
	if !exists {
		return storage.ErrNotFound
	}
	return UpsertByKey(rw.Writer(), key, entity)
}

// RemoveByKey removes the entity with the given key, if it exists. If it
// doesn't exist, this is a no-op.
// No errors are expected during normal operation.
func RemoveByKey(w storage.Writer, key []byte) error {
	err := w.Delete(key)
	if err != nil {
		return irrecoverable.NewExceptionf("could not delete item: %w", err)
	}
	return nil
}

// RemoveByKeyPrefix removes all keys with the given prefix.
// No errors are expected during normal operation.
func RemoveByKeyPrefix(w storage.Writer, prefix []byte) error {
	return RemoveByKeyRange(w, prefix, prefix)
}

// RemoveByKeyRange removes all keys with a prefix in [startPrefix, endPrefix],
// both inclusive.
// No errors are expected during normal operation.
func RemoveByKeyRange(w storage.Writer, startPrefix []byte, endPrefix []byte) error {
	err := w.DeleteByRange(startPrefix, endPrefix)
	if err != nil {
		return irrecoverable.NewExceptionf("could not delete range: %w", err)
	}
	return nil
}
