package operation

import (
	"errors"
	"fmt"

	"github.com/droplets-system/epoch/model/drops"
	"github.com/droplets-system/epoch/storage"
)

// Commits and reveals share their layout: the record is stored under
// [dataCode][id], and a composite index [indexCode][epoch][oracle] maps to
// the id. The index is unique per (epoch, oracle) and, since the epoch
// height forms the index key's prefix, doubles as the by-epoch index.

func insertSubmission(rw storage.ReaderBatchWriter, dataCode, indexCode byte, epoch uint64, oracle drops.Name, assignID func(uint64) any) (uint64, error) {
	indexKey := MakePrefix(indexCode, epoch, oracle)
	exists, err := KeyExists(rw.Reader(), indexKey)
	if err != nil {
		return 0, fmt.Errorf("could not check index: %w", err)
	}
	if exists {
		return 0, storage.ErrAlreadyExists
	}

	id, err := nextID(rw, dataCode)
	if err != nil {
		return 0, err
	}

	err = UpsertByKey(rw.Writer(), MakePrefix(dataCode, id), assignID(id))
	if err != nil {
		return 0, fmt.Errorf("could not store record %d: %w", id, err)
	}
	err = UpsertByKey(rw.Writer(), indexKey, id)
	if err != nil {
		return 0, fmt.Errorf("could not index record %d: %w", id, err)
	}
	return id, nil
}

func lookupSubmission(r storage.Reader, dataCode, indexCode byte, epoch uint64, oracle drops.Name, entity any) error {
	var id uint64
	err := RetrieveByKey(r, MakePrefix(indexCode, epoch, oracle), &id)
	if err != nil {
		return err
	}
	err = RetrieveByKey(r, MakePrefix(dataCode, id), entity)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// the index points to a missing record, the database is corrupted
			return fmt.Errorf("record %d indexed for epoch %d and oracle %s is missing: %w", id, epoch, oracle, err)
		}
		return err
	}
	return nil
}

func lookupSubmissionIDs(r storage.Reader, indexCode byte, epoch uint64) ([]uint64, error) {
	ids := make([]uint64, 0)
	err := TraverseByPrefix(r, MakePrefix(indexCode, epoch), func(_ []byte, getValue func(destVal any) error) (bool, error) {
		var id uint64
		err := getValue(&id)
		if err != nil {
			return true, err
		}
		ids = append(ids, id)
		return false, nil
	}, storage.DefaultIteratorOptions())
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func removeSubmission(rw storage.ReaderBatchWriter, dataCode, indexCode byte, epoch uint64, oracle drops.Name) error {
	indexKey := MakePrefix(indexCode, epoch, oracle)
	var id uint64
	err := RetrieveByKey(rw.Reader(), indexKey, &id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	err = RemoveByKey(rw.Writer(), MakePrefix(dataCode, id))
	if err != nil {
		return err
	}
	return RemoveByKey(rw.Writer(), indexKey)
}
