package operation

import (
	"github.com/droplets-system/epoch/model/drops"
	"github.com/droplets-system/epoch/storage"
)

// InsertOracle registers an oracle.
// Expected error returns:
//   - storage.ErrAlreadyExists if the oracle is already registered
func InsertOracle(rw storage.ReaderBatchWriter, oracle drops.Name) error {
	return InsertByKey(rw, MakePrefix(codeOracle, oracle), oracle)
}

// OracleExists checks whether an oracle is registered.
// No errors are expected during normal operation.
func OracleExists(r storage.Reader, oracle drops.Name) (bool, error) {
	return KeyExists(r, MakePrefix(codeOracle, oracle))
}

// RemoveOracle unregisters an oracle. It is a no-op if the oracle is not registered.
// No errors are expected during normal operation.
func RemoveOracle(w storage.Writer, oracle drops.Name) error {
	return RemoveByKey(w, MakePrefix(codeOracle, oracle))
}

// RetrieveOracles retrieves all registered oracles in byte order of their names.
// No errors are expected during normal operation.
func RetrieveOracles(r storage.Reader, oracles *drops.NameList) error {
	list := make(drops.NameList, 0)
	err := TraverseByPrefix(r, MakePrefix(codeOracle), func(_ []byte, getValue func(destVal any) error) (bool, error) {
		var oracle drops.Name
		err := getValue(&oracle)
		if err != nil {
			return true, err
		}
		list = append(list, oracle)
		return false, nil
	}, storage.DefaultIteratorOptions())
	if err != nil {
		return err
	}
	*oracles = list
	return nil
}

// RemoveAllOracles unregisters every oracle.
// No errors are expected during normal operation.
func RemoveAllOracles(w storage.Writer) error {
	return RemoveByKeyPrefix(w, MakePrefix(codeOracle))
}
