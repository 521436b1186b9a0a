package store

import (
	"github.com/droplets-system/epoch/module"
	"github.com/droplets-system/epoch/storage"
)

// InitAll creates every store of the service on top of db.
func InitAll(collector module.CacheMetrics, db storage.DB, epochCacheSize uint) *storage.All {
	return &storage.All{
		States:  NewStates(),
		Oracles: NewOracles(),
		Epochs:  NewEpochs(collector, db, epochCacheSize),
		Commits: NewCommits(),
		Reveals: NewReveals(),
	}
}
