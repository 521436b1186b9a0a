package storage

import (
	"github.com/droplets-system/epoch/model/drops"
)

// States is persistent storage for the singleton system state.
type States interface {
	// Retrieve returns the system state.
	// Expected errors during normal operations:
	//   - storage.ErrNotFound if the state was never stored
	Retrieve(r Reader) (*drops.State, error)

	// BatchStore stores the system state, replacing any existing state.
	BatchStore(rw ReaderBatchWriter, state *drops.State) error

	// BatchRemove removes the system state.
	BatchRemove(rw ReaderBatchWriter) error
}

// Oracles is persistent storage for the oracle registry.
type Oracles interface {
	// Exists returns whether the oracle is registered.
	Exists(r Reader, oracle drops.Name) (bool, error)

	// All returns every registered oracle in byte order of the names.
	All(r Reader) (drops.NameList, error)

	// BatchInsert registers the oracle.
	// Expected errors during normal operations:
	//   - storage.ErrAlreadyExists if the oracle is already registered
	BatchInsert(rw ReaderBatchWriter, oracle drops.Name) error

	// BatchRemove unregisters the oracle.
	// Expected errors during normal operations:
	//   - storage.ErrNotFound if the oracle is not registered
	BatchRemove(rw ReaderBatchWriter, oracle drops.Name) error

	// BatchRemoveAll unregisters every oracle.
	BatchRemoveAll(rw ReaderBatchWriter) error
}

// Epochs is persistent storage for epoch records.
type Epochs interface {
	// ByHeight returns the committed epoch record at the given height.
	// Expected errors during normal operations:
	//   - storage.ErrNotFound if no record exists at the height
	ByHeight(height uint64) (*drops.Epoch, error)

	// ByHeightTx returns the epoch record at the given height as seen by r,
	// which may be the reader of a pending batch.
	// Expected errors during normal operations:
	//   - storage.ErrNotFound if no record exists at the height
	ByHeightTx(r Reader, height uint64) (*drops.Epoch, error)

	// Exists returns whether a record exists at the given height.
	Exists(r Reader, height uint64) (bool, error)

	// Range returns the records with heights in [from, to], ascending.
	Range(r Reader, from, to uint64) ([]*drops.Epoch, error)

	// BatchInsert stores a new epoch record.
	// Expected errors during normal operations:
	//   - storage.ErrAlreadyExists if a record exists at the epoch's height
	BatchInsert(rw ReaderBatchWriter, epoch *drops.Epoch) error

	// BatchUpdate replaces an existing epoch record.
	// Expected errors during normal operations:
	//   - storage.ErrNotFound if no record exists at the epoch's height
	BatchUpdate(rw ReaderBatchWriter, epoch *drops.Epoch) error

	// BatchRemoveAll removes every epoch record.
	BatchRemoveAll(rw ReaderBatchWriter) error
}

// Commits is persistent storage for oracle commits.
type Commits interface {
	// ByEpochOracle returns the commit of the oracle for the epoch.
	// Expected errors during normal operations:
	//   - storage.ErrNotFound if the oracle did not commit for the epoch
	ByEpochOracle(r Reader, epoch uint64, oracle drops.Name) (*drops.Commit, error)

	// ByEpoch returns all commits of the epoch, ordered by oracle name.
	ByEpoch(r Reader, epoch uint64) ([]*drops.Commit, error)

	// Exists returns whether the oracle committed for the epoch.
	Exists(r Reader, epoch uint64, oracle drops.Name) (bool, error)

	// Count returns the number of commits of the epoch.
	Count(r Reader, epoch uint64) (uint, error)

	// BatchStore stores the commit and assigns its ID.
	// Expected errors during normal operations:
	//   - storage.ErrAlreadyExists if the oracle already committed for the epoch
	BatchStore(rw ReaderBatchWriter, commit *drops.Commit) error

	// BatchRemove removes the commit of the oracle for the epoch, if any.
	BatchRemove(rw ReaderBatchWriter, epoch uint64, oracle drops.Name) error

	// BatchRemoveAll removes every commit and resets the ID sequence.
	BatchRemoveAll(rw ReaderBatchWriter) error
}

// Reveals is persistent storage for oracle reveals.
type Reveals interface {
	// ByEpochOracle returns the reveal of the oracle for the epoch.
	// Expected errors during normal operations:
	//   - storage.ErrNotFound if the oracle did not reveal for the epoch
	ByEpochOracle(r Reader, epoch uint64, oracle drops.Name) (*drops.Reveal, error)

	// ByEpoch returns all reveals of the epoch, ordered by oracle name.
	ByEpoch(r Reader, epoch uint64) ([]*drops.Reveal, error)

	// Exists returns whether the oracle revealed for the epoch.
	Exists(r Reader, epoch uint64, oracle drops.Name) (bool, error)

	// Count returns the number of reveals of the epoch.
	Count(r Reader, epoch uint64) (uint, error)

	// BatchStore stores the reveal and assigns its ID.
	// Expected errors during normal operations:
	//   - storage.ErrAlreadyExists if the oracle already revealed for the epoch
	BatchStore(rw ReaderBatchWriter, reveal *drops.Reveal) error

	// BatchRemove removes the reveal of the oracle for the epoch, if any.
	BatchRemove(rw ReaderBatchWriter, epoch uint64, oracle drops.Name) error

	// BatchRemoveAll removes every reveal and resets the ID sequence.
	BatchRemoveAll(rw ReaderBatchWriter) error
}
