package operation

import (
	"errors"
	"fmt"

	"github.com/droplets-system/epoch/storage"
)

// nextID returns the next available primary key of the table with the given
// code and advances the sequence. Sequences start at 0.
// No errors are expected during normal operation.
func nextID(rw storage.ReaderBatchWriter, code byte) (uint64, error) {
	key := MakePrefix(codeSequence, code)

	var next uint64
	err := RetrieveByKey(rw.Reader(), key, &next)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return 0, fmt.Errorf("could not retrieve sequence %d: %w", code, err)
	}

	err = UpsertByKey(rw.Writer(), key, next+1)
	if err != nil {
		return 0, fmt.Errorf("could not advance sequence %d: %w", code, err)
	}
	return next, nil
}

func removeSequence(w storage.Writer, code byte) error {
	return RemoveByKey(w, MakePrefix(codeSequence, code))
}
