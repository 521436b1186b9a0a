// Package ledger keeps the epoch records: one per height, created lazily
// the first time the height is needed, and finalized once its seed is known.
package ledger

import (
	"errors"
	"fmt"

	"github.com/droplets-system/epoch/model/drops"
	"github.com/droplets-system/epoch/module"
	"github.com/droplets-system/epoch/state/protocol"
	"github.com/droplets-system/epoch/state/protocol/registry"
	"github.com/droplets-system/epoch/storage"
)

// GenesisHeight is the height of the first epoch.
const GenesisHeight = uint64(1)

type Ledger struct {
	epochs   storage.Epochs
	registry *registry.Registry
	metrics  module.ProtocolMetrics
}

func New(epochs storage.Epochs, registry *registry.Registry, metrics module.ProtocolMetrics) *Ledger {
	return &Ledger{
		epochs:   epochs,
		registry: registry,
		metrics:  metrics,
	}
}

// Get returns the epoch record at height as seen by r.
// Expected errors during normal operations:
//   - protocol.EpochNotFoundError if no record exists at height
func (l *Ledger) Get(r storage.Reader, height uint64) (*drops.Epoch, error) {
	epoch, err := l.epochs.ByHeightTx(r, height)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, protocol.NewEpochNotFoundError(height)
	}
	if err != nil {
		return nil, err
	}
	return epoch, nil
}

// Committed returns the committed epoch record at height, served from cache
// once the epoch is completed.
// Expected errors during normal operations:
//   - protocol.EpochNotFoundError if no record exists at height
func (l *Ledger) Committed(height uint64) (*drops.Epoch, error) {
	epoch, err := l.epochs.ByHeight(height)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, protocol.NewEpochNotFoundError(height)
	}
	if err != nil {
		return nil, err
	}
	return epoch, nil
}

// Exists returns whether a record exists at height.
// No errors are expected during normal operation.
func (l *Ledger) Exists(r storage.Reader, height uint64) (bool, error) {
	return l.epochs.Exists(r, height)
}

// Range returns the records with heights in [from, to], ascending. Heights
// without a record are skipped.
// No errors are expected during normal operation.
func (l *Ledger) Range(r storage.Reader, from, to uint64) ([]*drops.Epoch, error) {
	return l.epochs.Range(r, from, to)
}

// EnsureCurrent returns the record at height, creating it with a snapshot of
// the registry if it does not exist yet. It is idempotent: created is only
// true for the call which created the record.
// Expected errors during normal operations:
//   - protocol.ErrEmptyRegistry if the record must be created but no oracle is registered
func (l *Ledger) EnsureCurrent(rw storage.ReaderBatchWriter, height uint64) (*drops.Epoch, bool, error) {
	epoch, err := l.epochs.ByHeightTx(rw.Reader(), height)
	if err == nil {
		return epoch, false, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, false, fmt.Errorf("could not load epoch %d: %w", height, err)
	}

	oracles, err := l.registry.Snapshot(rw.Reader())
	if errors.Is(err, protocol.ErrEmptyRegistry) {
		return nil, false, fmt.Errorf("%w - cannot advance.", err)
	}
	if err != nil {
		return nil, false, fmt.Errorf("could not snapshot oracles for epoch %d: %w", height, err)
	}

	epoch, err = l.create(rw, height, oracles)
	if err != nil {
		return nil, false, err
	}
	return epoch, true, nil
}

// Bootstrap creates the first epoch with a snapshot of the registry.
// Expected errors during normal operations:
//   - protocol.ErrAlreadyInitialized if the first epoch exists
//   - protocol.ErrEmptyRegistry if no oracle is registered
func (l *Ledger) Bootstrap(rw storage.ReaderBatchWriter) (*drops.Epoch, error) {
	exists, err := l.epochs.Exists(rw.Reader(), GenesisHeight)
	if err != nil {
		return nil, fmt.Errorf("could not check genesis epoch: %w", err)
	}
	if exists {
		return nil, protocol.ErrAlreadyInitialized
	}

	oracles, err := l.registry.Snapshot(rw.Reader())
	if errors.Is(err, protocol.ErrEmptyRegistry) {
		return nil, fmt.Errorf("%w, cannot init.", err)
	}
	if err != nil {
		return nil, fmt.Errorf("could not snapshot oracles for genesis epoch: %w", err)
	}

	return l.create(rw, GenesisHeight, oracles)
}

func (l *Ledger) create(rw storage.ReaderBatchWriter, height uint64, oracles drops.NameList) (*drops.Epoch, error) {
	epoch := &drops.Epoch{
		Height:  height,
		Oracles: oracles,
	}
	err := l.epochs.BatchInsert(rw, epoch)
	if err != nil {
		return nil, fmt.Errorf("could not create epoch %d: %w", height, err)
	}

	rw.AddCallback(func(err error) {
		if err == nil {
			l.metrics.EpochCreated(height, len(oracles))
		}
	})
	return epoch, nil
}

// Finalize marks the epoch at height completed with the given seed and
// clears its oracle snapshot. It returns the snapshot as it was before
// clearing.
// Expected errors during normal operations:
//   - protocol.EpochNotFoundError if no record exists at height
//   - protocol.ErrEpochAlreadyCompleted if the epoch is already completed
func (l *Ledger) Finalize(rw storage.ReaderBatchWriter, height uint64, seed drops.Digest) (drops.NameList, error) {
	epoch, err := l.Get(rw.Reader(), height)
	if err != nil {
		return nil, err
	}
	if epoch.Completed {
		return nil, protocol.ErrEpochAlreadyCompleted
	}

	snapshot := epoch.Oracles
	epoch.Completed = true
	epoch.Seed = seed
	epoch.Oracles = nil

	err = l.epochs.BatchUpdate(rw, epoch)
	if err != nil {
		return nil, fmt.Errorf("could not finalize epoch %d: %w", height, err)
	}
	return snapshot, nil
}

// Clear removes every epoch record.
// No errors are expected during normal operation.
func (l *Ledger) Clear(rw storage.ReaderBatchWriter) error {
	return l.epochs.BatchRemoveAll(rw)
}
