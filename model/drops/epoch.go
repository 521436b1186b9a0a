package drops

// Epoch is the ledger record of one epoch height.
//
// Oracles is the set of oracles snapshotted from the registry when the record
// was created. It is cleared once the epoch is finalized.
type Epoch struct {
	Height    uint64
	Oracles   NameList
	Completed bool
	Seed      Digest
}

// HasOracle returns true if the oracle is part of the epoch's snapshot.
func (e *Epoch) HasOracle(oracle Name) bool {
	return e.Oracles.Contains(oracle)
}

// Copy returns a deep copy of the epoch.
func (e *Epoch) Copy() *Epoch {
	if e == nil {
		return nil
	}
	dup := *e
	dup.Oracles = e.Oracles.Copy()
	return &dup
}

// Commit binds an oracle to a value for an epoch without exposing it.
type Commit struct {
	ID     uint64
	Epoch  uint64
	Oracle Name
	Commit Digest
}

// Reveal is the plaintext an oracle disclosed for a past epoch.
type Reveal struct {
	ID     uint64
	Epoch  uint64
	Oracle Name
	Reveal string
}
