package operation

import (
	"github.com/droplets-system/epoch/model/drops"
	"github.com/droplets-system/epoch/storage"
)

// UpsertState stores the singleton system state.
// No errors are expected during normal operation.
func UpsertState(w storage.Writer, state *drops.State) error {
	return UpsertByKey(w, MakePrefix(codeState), state)
}

// RetrieveState retrieves the singleton system state.
// Expected error returns:
//   - storage.ErrNotFound if no state was ever stored
func RetrieveState(r storage.Reader, state *drops.State) error {
	return RetrieveByKey(r, MakePrefix(codeState), state)
}

// RemoveState removes the singleton system state.
// No errors are expected during normal operation.
func RemoveState(w storage.Writer) error {
	return RemoveByKey(w, MakePrefix(codeState))
}
