package operation

import (
	"fmt"

	"github.com/droplets-system/epoch/model/drops"
	"github.com/droplets-system/epoch/storage"
)

// InsertReveal assigns the next reveal ID to the reveal and stores it,
// indexed by epoch and oracle.
// Expected error returns:
//   - storage.ErrAlreadyExists if the oracle already revealed for the epoch
func InsertReveal(rw storage.ReaderBatchWriter, reveal *drops.Reveal) error {
	_, err := insertSubmission(rw, codeReveal, codeRevealByEpochOracle, reveal.Epoch, reveal.Oracle, func(id uint64) any {
		reveal.ID = id
		return reveal
	})
	return err
}

// RetrieveReveal retrieves a reveal by its ID.
// Expected error returns:
//   - storage.ErrNotFound if no reveal has the ID
func RetrieveReveal(r storage.Reader, id uint64, reveal *drops.Reveal) error {
	return RetrieveByKey(r, MakePrefix(codeReveal, id), reveal)
}

// LookupReveal retrieves the reveal of an oracle for an epoch.
// Expected error returns:
//   - storage.ErrNotFound if the oracle did not reveal for the epoch
func LookupReveal(r storage.Reader, epoch uint64, oracle drops.Name, reveal *drops.Reveal) error {
	return lookupSubmission(r, codeReveal, codeRevealByEpochOracle, epoch, oracle, reveal)
}

// RevealExists checks whether the oracle revealed for the epoch.
// No errors are expected during normal operation.
func RevealExists(r storage.Reader, epoch uint64, oracle drops.Name) (bool, error) {
	return KeyExists(r, MakePrefix(codeRevealByEpochOracle, epoch, oracle))
}

// CountReveals returns the number of reveals recorded for the epoch.
// No errors are expected during normal operation.
func CountReveals(r storage.Reader, epoch uint64) (uint, error) {
	return CountByPrefix(r, MakePrefix(codeRevealByEpochOracle, epoch))
}

// RetrieveReveals retrieves all reveals of the epoch, ordered by oracle name.
// No errors are expected during normal operation.
func RetrieveReveals(r storage.Reader, epoch uint64, reveals *[]*drops.Reveal) error {
	ids, err := lookupSubmissionIDs(r, codeRevealByEpochOracle, epoch)
	if err != nil {
		return fmt.Errorf("could not look up reveals of epoch %d: %w", epoch, err)
	}
	list := make([]*drops.Reveal, 0, len(ids))
	for _, id := range ids {
		var reveal drops.Reveal
		err = RetrieveReveal(r, id, &reveal)
		if err != nil {
			return fmt.Errorf("could not retrieve reveal %d: %w", id, err)
		}
		list = append(list, &reveal)
	}
	*reveals = list
	return nil
}

// RemoveReveal removes the reveal of an oracle for an epoch along with its
// index entry. It is a no-op if there is no such reveal.
// No errors are expected during normal operation.
func RemoveReveal(rw storage.ReaderBatchWriter, epoch uint64, oracle drops.Name) error {
	return removeSubmission(rw, codeReveal, codeRevealByEpochOracle, epoch, oracle)
}

// RemoveAllReveals removes every reveal and index entry, and resets
// the reveal ID sequence.
// No errors are expected during normal operation.
func RemoveAllReveals(w storage.Writer) error {
	err := RemoveByKeyRange(w, MakePrefix(codeReveal), MakePrefix(codeRevealByEpochOracle))
	if err != nil {
		return err
	}
	return removeSequence(w, codeReveal)
}
