// Package registry maintains the set of oracles eligible to participate in
// future epochs.
package registry

import (
	"errors"
	"fmt"

	"github.com/droplets-system/epoch/model/drops"
	"github.com/droplets-system/epoch/state/protocol"
	"github.com/droplets-system/epoch/storage"
)

// Registry is the set of registered oracles. Changes only affect epochs
// created afterwards, since every epoch snapshots the registry on creation.
type Registry struct {
	oracles storage.Oracles
}

func New(oracles storage.Oracles) *Registry {
	return &Registry{oracles: oracles}
}

// Add registers an oracle.
// Expected errors during normal operations:
//   - protocol.ErrOracleAlreadyExists if the oracle is already registered
func (r *Registry) Add(rw storage.ReaderBatchWriter, oracle drops.Name) error {
	err := r.oracles.BatchInsert(rw, oracle)
	if errors.Is(err, storage.ErrAlreadyExists) {
		return protocol.ErrOracleAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("could not register oracle %s: %w", oracle, err)
	}
	return nil
}

// Remove unregisters an oracle. Existing epoch snapshots are not affected.
// Expected errors during normal operations:
//   - protocol.ErrOracleNotFound if the oracle is not registered
func (r *Registry) Remove(rw storage.ReaderBatchWriter, oracle drops.Name) error {
	err := r.oracles.BatchRemove(rw, oracle)
	if errors.Is(err, storage.ErrNotFound) {
		return protocol.ErrOracleNotFound
	}
	if err != nil {
		return fmt.Errorf("could not unregister oracle %s: %w", oracle, err)
	}
	return nil
}

// Has returns whether the oracle is registered.
// No errors are expected during normal operation.
func (r *Registry) Has(reader storage.Reader, oracle drops.Name) (bool, error) {
	return r.oracles.Exists(reader, oracle)
}

// List returns all registered oracles, ordered by name.
// No errors are expected during normal operation.
func (r *Registry) List(reader storage.Reader) (drops.NameList, error) {
	return r.oracles.All(reader)
}

// Snapshot returns the registered oracles to be copied into a new epoch.
// Expected errors during normal operations:
//   - protocol.ErrEmptyRegistry if no oracle is registered
func (r *Registry) Snapshot(reader storage.Reader) (drops.NameList, error) {
	oracles, err := r.oracles.All(reader)
	if err != nil {
		return nil, err
	}
	if len(oracles) == 0 {
		return nil, protocol.ErrEmptyRegistry
	}
	return oracles, nil
}

// Clear unregisters every oracle.
// No errors are expected during normal operation.
func (r *Registry) Clear(rw storage.ReaderBatchWriter) error {
	return r.oracles.BatchRemoveAll(rw)
}
