package store

import (
	"fmt"

	"github.com/droplets-system/epoch/model/drops"
	"github.com/droplets-system/epoch/storage"
	"github.com/droplets-system/epoch/storage/operation"
)

type Commits struct{}

var _ storage.Commits = (*Commits)(nil)

func NewCommits() *Commits {
	return &Commits{}
}

func (c *Commits) ByEpochOracle(r storage.Reader, epoch uint64, oracle drops.Name) (*drops.Commit, error) {
	var commit drops.Commit
	err := operation.LookupCommit(r, epoch, oracle, &commit)
	if err != nil {
		return nil, fmt.Errorf("could not retrieve commit of %s for epoch %d: %w", oracle, epoch, err)
	}
	return &commit, nil
}

func (c *Commits) ByEpoch(r storage.Reader, epoch uint64) ([]*drops.Commit, error) {
	var commits []*drops.Commit
	err := operation.RetrieveCommits(r, epoch, &commits)
	if err != nil {
		return nil, fmt.Errorf("could not retrieve commits for epoch %d: %w", epoch, err)
	}
	return commits, nil
}

func (c *Commits) Exists(r storage.Reader, epoch uint64, oracle drops.Name) (bool, error) {
	return operation.CommitExists(r, epoch, oracle)
}

func (c *Commits) Count(r storage.Reader, epoch uint64) (uint, error) {
	return operation.CountCommits(r, epoch)
}

func (c *Commits) BatchStore(rw storage.ReaderBatchWriter, commit *drops.Commit) error {
	return operation.InsertCommit(rw, commit)
}

func (c *Commits) BatchRemove(rw storage.ReaderBatchWriter, epoch uint64, oracle drops.Name) error {
	return operation.RemoveCommit(rw, epoch, oracle)
}

func (c *Commits) BatchRemoveAll(rw storage.ReaderBatchWriter) error {
	return operation.RemoveAllCommits(rw.Writer())
}
