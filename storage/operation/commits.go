package operation

import (
	"fmt"

	"github.com/droplets-system/epoch/model/drops"
	"github.com/droplets-system/epoch/storage"
)

// InsertCommit assigns the next commit ID to the commit and stores it,
// indexed by epoch and oracle.
// Expected error returns:
//   - storage.ErrAlreadyExists if the oracle already committed for the epoch
func InsertCommit(rw storage.ReaderBatchWriter, commit *drops.Commit) error {
	_, err := insertSubmission(rw, codeCommit, codeCommitByEpochOracle, commit.Epoch, commit.Oracle, func(id uint64) any {
		commit.ID = id
		return commit
	})
	return err
}

// RetrieveCommit retrieves a commit by its ID.
// Expected error returns:
//   - storage.ErrNotFound if no commit has the ID
func RetrieveCommit(r storage.Reader, id uint64, commit *drops.Commit) error {
	return RetrieveByKey(r, MakePrefix(codeCommit, id), commit)
}

// LookupCommit retrieves the commit of an oracle for an epoch.
// Expected error returns:
//   - storage.ErrNotFound if the oracle did not commit for the epoch
func LookupCommit(r storage.Reader, epoch uint64, oracle drops.Name, commit *drops.Commit) error {
	return lookupSubmission(r, codeCommit, codeCommitByEpochOracle, epoch, oracle, commit)
}

// CommitExists checks whether the oracle committed for the epoch.
// No errors are expected during normal operation.
func CommitExists(r storage.Reader, epoch uint64, oracle drops.Name) (bool, error) {
	return KeyExists(r, MakePrefix(codeCommitByEpochOracle, epoch, oracle))
}

// CountCommits returns the number of commits recorded for the epoch.
// No errors are expected during normal operation.
func CountCommits(r storage.Reader, epoch uint64) (uint, error) {
	return CountByPrefix(r, MakePrefix(codeCommitByEpochOracle, epoch))
}

// RetrieveCommits retrieves all commits of the epoch, ordered by oracle name.
// No errors are expected during normal operation.
func RetrieveCommits(r storage.Reader, epoch uint64, commits *[]*drops.Commit) error {
	ids, err := lookupSubmissionIDs(r, codeCommitByEpochOracle, epoch)
	if err != nil {
		return fmt.Errorf("could not look up commits of epoch %d: %w", epoch, err)
	}
	list := make([]*drops.Commit, 0, len(ids))
	for _, id := range ids {
		var commit drops.Commit
		err = RetrieveCommit(r, id, &commit)
		if err != nil {
			return fmt.Errorf("could not retrieve commit %d: %w", id, err)
		}
		list = append(list, &commit)
	}
	*commits = list
	return nil
}

// RemoveCommit removes the commit of an oracle for an epoch along with its
// index entry. It is a no-op if there is no such commit.
// No errors are expected during normal operation.
func RemoveCommit(rw storage.ReaderBatchWriter, epoch uint64, oracle drops.Name) error {
	return removeSubmission(rw, codeCommit, codeCommitByEpochOracle, epoch, oracle)
}

// RemoveAllCommits removes every commit and index entry, and resets
// the commit ID sequence.
// No errors are expected during normal operation.
func RemoveAllCommits(w storage.Writer) error {
	err := RemoveByKeyRange(w, MakePrefix(codeCommit), MakePrefix(codeCommitByEpochOracle))
	if err != nil {
		return err
	}
	return removeSequence(w, codeCommit)
}
