package operation

import (
	"github.com/droplets-system/epoch/model/drops"
	"github.com/droplets-system/epoch/storage"
)

// InsertEpoch stores a new epoch record.
// Expected error returns:
//   - storage.ErrAlreadyExists if a record exists at the epoch's height
func InsertEpoch(rw storage.ReaderBatchWriter, epoch *drops.Epoch) error {
	return InsertByKey(rw, MakePrefix(codeEpoch, epoch.Height), epoch)
}

// UpdateEpoch replaces an existing epoch record.
// Expected error returns:
//   - storage.ErrNotFound if no record exists at the epoch's height
func UpdateEpoch(rw storage.ReaderBatchWriter, epoch *drops.Epoch) error {
	return UpdateByKey(rw, MakePrefix(codeEpoch, epoch.Height), epoch)
}

// RetrieveEpoch retrieves the epoch record at the given height.
// Expected error returns:
//   - storage.ErrNotFound if no record exists at the height
func RetrieveEpoch(r storage.Reader, height uint64, epoch *drops.Epoch) error {
	return RetrieveByKey(r, MakePrefix(codeEpoch, height), epoch)
}

// EpochExists checks whether an epoch record exists at the given height.
// No errors are expected during normal operation.
func EpochExists(r storage.Reader, height uint64) (bool, error) {
	return KeyExists(r, MakePrefix(codeEpoch, height))
}

// RetrieveEpochs retrieves all epoch records with heights in [from, to], in
// ascending order.
// No errors are expected during normal operation.
func RetrieveEpochs(r storage.Reader, from, to uint64, epochs *[]*drops.Epoch) error {
	list := make([]*drops.Epoch, 0)
	err := IterateKeys(r, MakePrefix(codeEpoch, from), MakePrefix(codeEpoch, to), func(_ []byte, getValue func(destVal any) error) (bool, error) {
		var epoch drops.Epoch
		err := getValue(&epoch)
		if err != nil {
			return true, err
		}
		list = append(list, &epoch)
		return false, nil
	}, storage.DefaultIteratorOptions())
	if err != nil {
		return err
	}
	*epochs = list
	return nil
}

// RemoveAllEpochs removes every epoch record.
// No errors are expected during normal operation.
func RemoveAllEpochs(w storage.Writer) error {
	return RemoveByKeyPrefix(w, MakePrefix(codeEpoch))
}
