package storage

// All includes all the storage modules
type All struct {
	States  States
	Oracles Oracles
	Epochs  Epochs
	Commits Commits
	Reveals Reveals
}
