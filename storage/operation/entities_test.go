package operation_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/droplets-system/epoch/model/drops"
	"github.com/droplets-system/epoch/storage"
	"github.com/droplets-system/epoch/storage/operation"
	"github.com/droplets-system/epoch/storage/operation/dbtest"
)

func TestState_UpsertRetrieve(t *testing.T) {
	dbtest.RunWithDB(t, func(t *testing.T, db storage.DB) {
		var state drops.State
		err := operation.RetrieveState(db.Reader(), &state)
		require.ErrorIs(t, err, storage.ErrNotFound)

		expected := drops.State{Genesis: time.Unix(1_600_000_000, 0), Duration: 10, Enabled: true}
		require.NoError(t, db.WithReaderBatchWriter(storage.OnlyWriter(func(w storage.Writer) error {
			return operation.UpsertState(w, &expected)
		})))

		require.NoError(t, operation.RetrieveState(db.Reader(), &state))
		assert.True(t, expected.Genesis.Equal(state.Genesis))
		assert.Equal(t, expected.Duration, state.Duration)
		assert.True(t, state.Enabled)

		require.NoError(t, db.WithReaderBatchWriter(storage.OnlyWriter(operation.RemoveState)))
		err = operation.RetrieveState(db.Reader(), &state)
		require.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestOracles(t *testing.T) {
	dbtest.RunWithDB(t, func(t *testing.T, db storage.DB) {
		var oracles drops.NameList
		require.NoError(t, operation.RetrieveOracles(db.Reader(), &oracles))
		require.Empty(t, oracles)

		for _, name := range []drops.Name{"carol", "alice", "bob"} {
			require.NoError(t, db.WithReaderBatchWriter(func(rw storage.ReaderBatchWriter) error {
				return operation.InsertOracle(rw, name)
			}))
		}

		err := db.WithReaderBatchWriter(func(rw storage.ReaderBatchWriter) error {
			return operation.InsertOracle(rw, "alice")
		})
		require.ErrorIs(t, err, storage.ErrAlreadyExists)

		require.NoError(t, operation.RetrieveOracles(db.Reader(), &oracles))
		require.Equal(t, drops.NameList{"alice", "bob", "carol"}, oracles)

		require.NoError(t, db.WithReaderBatchWriter(storage.OnlyWriter(func(w storage.Writer) error {
			return operation.RemoveOracle(w, "bob")
		})))
		exists, err := operation.OracleExists(db.Reader(), "bob")
		require.NoError(t, err)
		require.False(t, exists)

		require.NoError(t, db.WithReaderBatchWriter(storage.OnlyWriter(operation.RemoveAllOracles)))
		require.NoError(t, operation.RetrieveOracles(db.Reader(), &oracles))
		require.Empty(t, oracles)
	})
}

func TestEpochs(t *testing.T) {
	dbtest.RunWithDB(t, func(t *testing.T, db storage.DB) {
		for height := uint64(1); height <= 300; height += 100 {
			epoch := &drops.Epoch{Height: height, Oracles: drops.NameList{"alice"}}
			require.NoError(t, db.WithReaderBatchWriter(func(rw storage.ReaderBatchWriter) error {
				return operation.InsertEpoch(rw, epoch)
			}))
		}

		err := db.WithReaderBatchWriter(func(rw storage.ReaderBatchWriter) error {
			return operation.InsertEpoch(rw, &drops.Epoch{Height: 101})
		})
		require.ErrorIs(t, err, storage.ErrAlreadyExists)

		err = db.WithReaderBatchWriter(func(rw storage.ReaderBatchWriter) error {
			return operation.UpdateEpoch(rw, &drops.Epoch{Height: 2})
		})
		require.ErrorIs(t, err, storage.ErrNotFound)

		// heights are encoded big-endian, so ranges iterate in numeric order
		var epochs []*drops.Epoch
		require.NoError(t, operation.RetrieveEpochs(db.Reader(), 1, 201, &epochs))
		require.Len(t, epochs, 3)
		assert.Equal(t, []uint64{1, 101, 201}, []uint64{epochs[0].Height, epochs[1].Height, epochs[2].Height})

		finalized := &drops.Epoch{Height: 101, Completed: true, Seed: drops.Digest{1}}
		require.NoError(t, db.WithReaderBatchWriter(func(rw storage.ReaderBatchWriter) error {
			return operation.UpdateEpoch(rw, finalized)
		}))
		var epoch drops.Epoch
		require.NoError(t, operation.RetrieveEpoch(db.Reader(), 101, &epoch))
		assert.Equal(t, *finalized, epoch)

		require.NoError(t, db.WithReaderBatchWriter(storage.OnlyWriter(operation.RemoveAllEpochs)))
		exists, err := operation.EpochExists(db.Reader(), 1)
		require.NoError(t, err)
		require.False(t, exists)
	})
}

func TestCommits(t *testing.T) {
	dbtest.RunWithDB(t, func(t *testing.T, db storage.DB) {
		insert := func(epoch uint64, oracle drops.Name) error {
			return db.WithReaderBatchWriter(func(rw storage.ReaderBatchWriter) error {
				return operation.InsertCommit(rw, &drops.Commit{Epoch: epoch, Oracle: oracle, Commit: drops.Digest{byte(epoch)}})
			})
		}
		require.NoError(t, insert(1, "bob"))
		require.NoError(t, insert(1, "alice"))
		require.NoError(t, insert(2, "alice"))
		require.ErrorIs(t, insert(1, "alice"), storage.ErrAlreadyExists)

		var commit drops.Commit
		require.NoError(t, operation.LookupCommit(db.Reader(), 2, "alice", &commit))
		assert.Equal(t, drops.Commit{ID: 2, Epoch: 2, Oracle: "alice", Commit: drops.Digest{2}}, commit)

		err := operation.LookupCommit(db.Reader(), 2, "bob", &commit)
		require.ErrorIs(t, err, storage.ErrNotFound)

		count, err := operation.CountCommits(db.Reader(), 1)
		require.NoError(t, err)
		assert.Equal(t, uint(2), count)

		var commits []*drops.Commit
		require.NoError(t, operation.RetrieveCommits(db.Reader(), 1, &commits))
		require.Len(t, commits, 2)
		assert.Equal(t, drops.Name("alice"), commits[0].Oracle)
		assert.Equal(t, uint64(1), commits[0].ID)
		assert.Equal(t, drops.Name("bob"), commits[1].Oracle)
		assert.Equal(t, uint64(0), commits[1].ID)

		require.NoError(t, db.WithReaderBatchWriter(func(rw storage.ReaderBatchWriter) error {
			return operation.RemoveCommit(rw, 1, "alice")
		}))
		exists, err := operation.CommitExists(db.Reader(), 1, "alice")
		require.NoError(t, err)
		require.False(t, exists)
		err = operation.RetrieveCommit(db.Reader(), 1, &commit)
		require.ErrorIs(t, err, storage.ErrNotFound)

		// removing a missing commit is a no-op
		require.NoError(t, db.WithReaderBatchWriter(func(rw storage.ReaderBatchWriter) error {
			return operation.RemoveCommit(rw, 9, "alice")
		}))

		require.NoError(t, db.WithReaderBatchWriter(storage.OnlyWriter(operation.RemoveAllCommits)))
		count, err = operation.CountCommits(db.Reader(), 2)
		require.NoError(t, err)
		assert.Zero(t, count)

		// sequences restart after a reset
		require.NoError(t, insert(5, "carol"))
		require.NoError(t, operation.LookupCommit(db.Reader(), 5, "carol", &commit))
		assert.Equal(t, uint64(0), commit.ID)
	})
}

func TestReveals(t *testing.T) {
	dbtest.RunWithDB(t, func(t *testing.T, db storage.DB) {
		require.NoError(t, db.WithReaderBatchWriter(func(rw storage.ReaderBatchWriter) error {
			// several submissions in one batch draw consecutive IDs
			for _, oracle := range []drops.Name{"bob", "alice"} {
				err := operation.InsertReveal(rw, &drops.Reveal{Epoch: 4, Oracle: oracle, Reveal: string(oracle)})
				if err != nil {
					return err
				}
			}
			return nil
		}))

		var reveals []*drops.Reveal
		require.NoError(t, operation.RetrieveReveals(db.Reader(), 4, &reveals))
		require.Len(t, reveals, 2)
		assert.Equal(t, drops.Reveal{ID: 1, Epoch: 4, Oracle: "alice", Reveal: "alice"}, *reveals[0])
		assert.Equal(t, drops.Reveal{ID: 0, Epoch: 4, Oracle: "bob", Reveal: "bob"}, *reveals[1])

		exists, err := operation.RevealExists(db.Reader(), 4, "bob")
		require.NoError(t, err)
		assert.True(t, exists)

		// reveals do not share the commit tables
		count, err := operation.CountCommits(db.Reader(), 4)
		require.NoError(t, err)
		assert.Zero(t, count)

		require.NoError(t, db.WithReaderBatchWriter(func(rw storage.ReaderBatchWriter) error {
			return operation.RemoveReveal(rw, 4, "bob")
		}))
		count, err = operation.CountReveals(db.Reader(), 4)
		require.NoError(t, err)
		assert.Equal(t, uint(1), count)

		require.NoError(t, db.WithReaderBatchWriter(storage.OnlyWriter(operation.RemoveAllReveals)))
		var reveal drops.Reveal
		err = operation.LookupReveal(db.Reader(), 4, "alice", &reveal)
		require.ErrorIs(t, err, storage.ErrNotFound)
	})
}
