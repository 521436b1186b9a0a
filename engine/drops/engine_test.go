package drops_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	testifymock "github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/sync/errgroup"

	"github.com/droplets-system/epoch/crypto/hash"
	engine "github.com/droplets-system/epoch/engine/drops"
	"github.com/droplets-system/epoch/model/drops"
	"github.com/droplets-system/epoch/module/auth"
	"github.com/droplets-system/epoch/module/clock"
	"github.com/droplets-system/epoch/module/metrics"
	"github.com/droplets-system/epoch/module/mock"
	"github.com/droplets-system/epoch/module/trace"
	"github.com/droplets-system/epoch/state/protocol"
	"github.com/droplets-system/epoch/storage"
	"github.com/droplets-system/epoch/storage/operation/badgerimpl"
	"github.com/droplets-system/epoch/storage/operation/dbtest"
	"github.com/droplets-system/epoch/storage/operation/pebbleimpl"
	"github.com/droplets-system/epoch/storage/store"
	"github.com/droplets-system/epoch/utils/unittest"
)

const (
	self  drops.Name = "epoch.drops"
	alice drops.Name = "alice"
	bob   drops.Name = "bob"
	day              = 86400 * time.Second
)

func newEngine(t *testing.T, db storage.DB, clk *clock.Mock) *engine.Engine {
	e, err := engine.New(
		unittest.Logger(),
		db,
		store.InitAll(metrics.NewNoopCollector(), db, 10),
		hash.NewSHA2_256(),
		clk,
		auth.NewCallerAuthenticator(),
		auth.NewStaticAccounts(alice, bob),
		trace.NewNoopTracer(),
		metrics.NewNoopCollector(),
		engine.DefaultConfig(),
	)
	require.NoError(t, err)
	return e
}

func as(caller drops.Name) context.Context {
	return auth.WithCaller(context.Background(), caller)
}

type EngineSuite struct {
	suite.Suite
	open   func(dir string, log zerolog.Logger) (storage.DB, error)
	db     storage.DB
	clock  *clock.Mock
	engine *engine.Engine
}

func TestEngine(t *testing.T) {
	t.Run("BadgerStorage", func(t *testing.T) {
		suite.Run(t, &EngineSuite{open: func(dir string, log zerolog.Logger) (storage.DB, error) {
			return badgerimpl.Open(dir, log)
		}})
	})
	t.Run("PebbleStorage", func(t *testing.T) {
		suite.Run(t, &EngineSuite{open: func(dir string, log zerolog.Logger) (storage.DB, error) {
			return pebbleimpl.Open(dir, log)
		}})
	})
}

func (s *EngineSuite) SetupTest() {
	db, err := s.open("", zerolog.Nop())
	s.Require().NoError(err)
	s.db = db
	s.clock = clock.NewMock(unittest.Genesis)
	s.engine = newEngine(s.T(), db, s.clock)
}

func (s *EngineSuite) TearDownTest() {
	s.Require().NoError(s.db.Close())
}

// bootstrap registers the given oracles and initializes the protocol.
func (s *EngineSuite) bootstrap(oracles ...drops.Name) {
	for _, oracle := range oracles {
		s.Require().NoError(s.engine.AddOracle(as(self), oracle))
	}
	_, err := s.engine.InitializeProtocol(as(self))
	s.Require().NoError(err)
}

func (s *EngineSuite) TestDefaultState() {
	state, err := s.engine.State(context.Background())
	s.Require().NoError(err)
	s.Assert().Equal(&drops.State{Genesis: unittest.Genesis, Duration: 86400, Enabled: false}, state)

	_, err = s.engine.Epoch(context.Background(), 1)
	s.Assert().True(protocol.IsEpochNotFoundError(err))
}

func (s *EngineSuite) TestInitialize() {
	s.Require().NoError(s.engine.AddOracle(as(self), alice))

	s.clock.Add(5 * time.Hour)
	epoch, err := s.engine.InitializeProtocol(as(self))
	s.Require().NoError(err)
	s.Assert().Equal(&drops.Epoch{Height: 1, Oracles: drops.NameList{alice}}, epoch)

	state, err := s.engine.State(context.Background())
	s.Require().NoError(err)
	s.Assert().True(state.Enabled)
	s.Assert().Equal(unittest.Genesis, state.Genesis, "genesis is aligned to the start of the day")

	stored, err := s.engine.Epoch(context.Background(), 1)
	s.Require().NoError(err)
	s.Assert().Equal(epoch, stored)

	s.Run("twice", func() {
		_, err := s.engine.InitializeProtocol(as(self))
		s.Assert().ErrorIs(err, protocol.ErrAlreadyInitialized)
	})
}

func (s *EngineSuite) TestInitializeWithoutOracles() {
	_, err := s.engine.InitializeProtocol(as(self))
	s.Require().ErrorIs(err, protocol.ErrEmptyRegistry)
	s.Assert().EqualError(err, "No active oracles, cannot init.")

	// the state change is rolled back with the failed action
	state, err := s.engine.State(context.Background())
	s.Require().NoError(err)
	s.Assert().False(state.Enabled)
}

func (s *EngineSuite) TestSetEnabled() {
	s.Require().NoError(s.engine.SetEnabled(as(self), true))
	state, err := s.engine.State(context.Background())
	s.Require().NoError(err)
	s.Assert().Equal(&drops.State{Genesis: unittest.Genesis, Duration: 86400, Enabled: true}, state)

	s.Require().NoError(s.engine.SetEnabled(as(self), false))
	state, err = s.engine.State(context.Background())
	s.Require().NoError(err)
	s.Assert().False(state.Enabled)
}

func (s *EngineSuite) TestSetDuration() {
	s.Require().NoError(s.engine.SetDuration(as(self), 888888))
	state, err := s.engine.State(context.Background())
	s.Require().NoError(err)
	s.Assert().Equal(&drops.State{Genesis: unittest.Genesis, Duration: 888888, Enabled: false}, state)

	err = s.engine.SetDuration(as(self), 0)
	s.Assert().ErrorIs(err, protocol.ErrInvalidDuration)
}

func (s *EngineSuite) TestSetDurationMovesCurrentHeight() {
	s.bootstrap(alice)
	s.clock.Add(2 * day)

	height, err := s.engine.CurrentEpochHeight(context.Background())
	s.Require().NoError(err)
	s.Assert().Equal(uint64(3), height)

	s.Require().NoError(s.engine.SetDuration(as(self), 3600))
	height, err = s.engine.CurrentEpochHeight(context.Background())
	s.Require().NoError(err)
	s.Assert().Equal(uint64(49), height)
}

func (s *EngineSuite) TestOracles() {
	s.Run("add", func() {
		s.Require().NoError(s.engine.AddOracle(as(self), alice))
		oracles, err := s.engine.Oracles(context.Background())
		s.Require().NoError(err)
		s.Assert().Equal(drops.NameList{alice}, oracles)
	})

	s.Run("add twice", func() {
		err := s.engine.AddOracle(as(self), alice)
		s.Assert().ErrorIs(err, protocol.ErrOracleAlreadyExists)
	})

	s.Run("unknown account", func() {
		err := s.engine.AddOracle(as(self), "charlie")
		s.Assert().ErrorIs(err, protocol.ErrUnknownAccount)
		s.Assert().EqualError(err, "Account does not exist.")
	})

	s.Run("remove", func() {
		s.Require().NoError(s.engine.RemoveOracle(as(self), alice))
		oracles, err := s.engine.Oracles(context.Background())
		s.Require().NoError(err)
		s.Assert().Empty(oracles)
	})

	s.Run("remove missing", func() {
		err := s.engine.RemoveOracle(as(self), alice)
		s.Assert().ErrorIs(err, protocol.ErrOracleNotFound)
		s.Assert().EqualError(err, "Oracle not found")
	})
}

func (s *EngineSuite) TestAdminCheck() {
	actions := map[string]func(context.Context) error{
		"add oracle": func(ctx context.Context) error { return s.engine.AddOracle(ctx, bob) },
		"remove oracle": func(ctx context.Context) error {
			return s.engine.RemoveOracle(ctx, alice)
		},
		"enable":   func(ctx context.Context) error { return s.engine.SetEnabled(ctx, true) },
		"duration": func(ctx context.Context) error { return s.engine.SetDuration(ctx, 888888) },
		"init": func(ctx context.Context) error {
			_, err := s.engine.InitializeProtocol(ctx)
			return err
		},
		"advance": func(ctx context.Context) error {
			_, _, err := s.engine.AdvanceEpoch(ctx)
			return err
		},
		"wipe": func(ctx context.Context) error { return s.engine.Wipe(ctx) },
	}
	for name, action := range actions {
		s.Run(name, func() {
			err := action(as(alice))
			s.Require().True(protocol.IsUnauthorizedError(err))
			s.Assert().EqualError(err, "missing required authority epoch.drops")

			err = action(context.Background())
			s.Assert().True(protocol.IsUnauthorizedError(err))
		})
	}
}

func (s *EngineSuite) TestCommit() {
	s.bootstrap(alice)

	commit, err := s.engine.SubmitCommit(as(alice), alice, 1, unittest.MockCommit)
	s.Require().NoError(err)
	s.Assert().Equal(&drops.Commit{ID: 0, Epoch: 1, Oracle: alice, Commit: unittest.MockCommit}, commit)

	commits, err := s.engine.Commits(context.Background(), 1)
	s.Require().NoError(err)
	s.Assert().Equal([]*drops.Commit{commit}, commits)
}

func (s *EngineSuite) TestCommitAdvancesEpoch() {
	s.bootstrap(alice)
	_, err := s.engine.SubmitCommit(as(alice), alice, 1, unittest.MockCommit)
	s.Require().NoError(err)

	epochs, err := s.engine.Epochs(context.Background(), 1, 10)
	s.Require().NoError(err)
	s.Assert().Len(epochs, 1)

	s.clock.Add(day)
	_, err = s.engine.SubmitCommit(as(alice), alice, 2, unittest.MockCommit)
	s.Require().NoError(err)

	epochs, err = s.engine.Epochs(context.Background(), 1, 10)
	s.Require().NoError(err)
	s.Assert().Len(epochs, 2)

	commits, err := s.engine.Commits(context.Background(), 2)
	s.Require().NoError(err)
	s.Require().Len(commits, 1)
	s.Assert().Equal(uint64(1), commits[0].ID)
}

func (s *EngineSuite) TestCommitErrors() {
	s.bootstrap(alice)

	s.Run("invalid auth", func() {
		_, err := s.engine.SubmitCommit(as(bob), alice, 1, unittest.MockCommit)
		s.Assert().EqualError(err, "missing required authority alice")
	})

	s.Run("not in epoch", func() {
		_, err := s.engine.SubmitCommit(as(bob), bob, 1, unittest.MockCommit)
		s.Assert().EqualError(err, "Oracle is not in the list of oracles for Epoch 1.")
	})

	s.Run("invalid epoch", func() {
		_, err := s.engine.SubmitCommit(as(alice), alice, 2, unittest.MockCommit)
		s.Assert().EqualError(err, "Epoch submitted (2) is not the current epoch (1).")
	})

	s.Run("already committed", func() {
		_, err := s.engine.SubmitCommit(as(alice), alice, 1, unittest.MockCommit)
		s.Require().NoError(err)
		_, err = s.engine.SubmitCommit(as(alice), alice, 1, unittest.MockCommit)
		s.Assert().EqualError(err, "Oracle has already committed")
	})

	s.Run("disabled", func() {
		s.Require().NoError(s.engine.SetEnabled(as(self), false))
		defer func() { s.Require().NoError(s.engine.SetEnabled(as(self), true)) }()
		_, err := s.engine.SubmitCommit(as(alice), alice, 1, unittest.MockCommit)
		s.Assert().EqualError(err, "Drops system is disabled.")
	})

	s.Run("epoch has ended", func() {
		s.clock.Add(day)
		defer s.clock.Set(unittest.Genesis)
		_, err := s.engine.SubmitCommit(as(alice), alice, 1, unittest.MockCommit)
		s.Assert().EqualError(err, "Epoch submitted (1) is not the current epoch (2).")
	})

	s.Run("cannot advance with no oracles", func() {
		s.Require().NoError(s.engine.RemoveOracle(as(self), alice))
		s.clock.Add(day)
		_, err := s.engine.SubmitCommit(as(alice), alice, 2, unittest.MockCommit)
		s.Assert().EqualError(err, "No active oracles - cannot advance.")
	})
}

func (s *EngineSuite) TestReveal() {
	s.bootstrap(alice)
	_, err := s.engine.SubmitCommit(as(alice), alice, 1, unittest.MockCommit)
	s.Require().NoError(err)

	s.clock.Add(day)
	result, err := s.engine.SubmitReveal(as(alice), alice, 1, unittest.MockReveal)
	s.Require().NoError(err)
	s.Assert().True(result.Finalized)
	s.Assert().Equal(&drops.Reveal{ID: 0, Epoch: 1, Oracle: alice, Reveal: unittest.MockReveal}, result.Reveal)

	epoch, err := s.engine.Epoch(context.Background(), 1)
	s.Require().NoError(err)
	s.Assert().Equal("aa64858f9aef574443d0595ef57665d4252475b3f9a5a484c40654401a4116e5", epoch.Seed.String())
	s.Assert().True(epoch.Completed)
	s.Assert().Empty(epoch.Oracles)

	reveals, err := s.engine.Reveals(context.Background(), 1)
	s.Require().NoError(err)
	s.Assert().Empty(reveals)
}

func (s *EngineSuite) TestRevealWaitsForAllCommitters() {
	s.bootstrap(alice, bob)
	_, err := s.engine.SubmitCommit(as(alice), alice, 1, unittest.MockCommit)
	s.Require().NoError(err)
	_, err = s.engine.SubmitCommit(as(bob), bob, 1, unittest.MockCommit)
	s.Require().NoError(err)

	s.clock.Add(day)
	_, err = s.engine.SubmitReveal(as(alice), alice, 1, unittest.MockReveal)
	s.Require().NoError(err)

	reveals, err := s.engine.Reveals(context.Background(), 1)
	s.Require().NoError(err)
	s.Assert().Len(reveals, 1)
	epoch, err := s.engine.Epoch(context.Background(), 1)
	s.Require().NoError(err)
	s.Assert().True(epoch.Seed.IsZero())

	_, err = s.engine.SubmitReveal(as(bob), bob, 1, unittest.MockReveal)
	s.Require().NoError(err)

	epoch, err = s.engine.Epoch(context.Background(), 1)
	s.Require().NoError(err)
	s.Assert().Equal("2202d9f6ff083b8061e9741c7a03392ded42acbfc563ef1ad400386af8f38ff5", epoch.Seed.String())
}

func (s *EngineSuite) TestRevealErrors() {
	s.bootstrap(alice)
	_, err := s.engine.SubmitCommit(as(alice), alice, 1, unittest.MockCommit)
	s.Require().NoError(err)

	s.Run("epoch has not ended", func() {
		_, err := s.engine.SubmitReveal(as(alice), alice, 1, unittest.MockReveal)
		s.Assert().EqualError(err, "Epoch (1) has not completed.")
	})

	s.Run("epoch does not exist", func() {
		_, err := s.engine.SubmitReveal(as(alice), alice, 10, unittest.MockReveal)
		s.Assert().EqualError(err, "Epoch 10 does not exist.")
	})

	s.Run("oracle not included in epoch", func() {
		_, err := s.engine.SubmitReveal(as(bob), bob, 1, unittest.MockReveal)
		s.Assert().EqualError(err, "Oracle is not in the list of oracles for Epoch 1.")
	})

	s.Run("invalid auth", func() {
		_, err := s.engine.SubmitReveal(as(bob), alice, 1, unittest.MockReveal)
		s.Assert().EqualError(err, "missing required authority alice")
	})

	s.clock.Add(day)

	s.Run("disabled", func() {
		s.Require().NoError(s.engine.SetEnabled(as(self), false))
		defer func() { s.Require().NoError(s.engine.SetEnabled(as(self), true)) }()
		_, err := s.engine.SubmitReveal(as(alice), alice, 1, unittest.MockReveal)
		s.Assert().EqualError(err, "Drops system is disabled.")
	})

	s.Run("reveal does not match commit", func() {
		_, err := s.engine.SubmitReveal(as(alice), alice, 1, "foo")
		s.Assert().EqualError(err, "Reveal value 'foo' hashes to "+
			"'2c26b46b68ffc68ff99b453c1d30413413422d706483bfa0f98a5e886266e7ae' which does not match "+
			"commit value '3d1f01d81f9d605b2da582fbf5a4110ef35477caf7f2c5ae4fa0e3877ed16747'.")
	})
}

// TestRevealAlreadyRevealed needs an epoch which stays open after the first
// reveal, so two oracles commit.
func (s *EngineSuite) TestRevealAlreadyRevealed() {
	s.bootstrap(alice, bob)
	for _, oracle := range []drops.Name{alice, bob} {
		_, err := s.engine.SubmitCommit(as(oracle), oracle, 1, unittest.MockCommit)
		s.Require().NoError(err)
	}
	s.clock.Add(day)

	_, err := s.engine.SubmitReveal(as(alice), alice, 1, unittest.MockReveal)
	s.Require().NoError(err)
	_, err = s.engine.SubmitReveal(as(alice), alice, 1, unittest.MockReveal)
	s.Assert().EqualError(err, "Oracle has already revealed")
}

func (s *EngineSuite) TestAdvanceEpoch() {
	s.bootstrap(alice)

	epoch, created, err := s.engine.AdvanceEpoch(as(self))
	s.Require().NoError(err)
	s.Assert().False(created, "epoch 1 exists since initialization")
	s.Assert().Equal(uint64(1), epoch.Height)

	s.clock.Add(day)
	s.Require().NoError(s.engine.AddOracle(as(self), bob))
	epoch, created, err = s.engine.AdvanceEpoch(as(self))
	s.Require().NoError(err)
	s.Assert().True(created)
	s.Assert().Equal(&drops.Epoch{Height: 2, Oracles: drops.NameList{alice, bob}}, epoch)

	_, created, err = s.engine.AdvanceEpoch(as(self))
	s.Require().NoError(err)
	s.Assert().False(created)
}

func (s *EngineSuite) TestActiveOraclesForCurrentEpoch() {
	s.bootstrap(alice)
	s.Require().NoError(s.engine.AddOracle(as(self), bob))

	// epoch 1 snapshotted only alice
	oracles, err := s.engine.ActiveOraclesForCurrentEpoch(context.Background())
	s.Require().NoError(err)
	s.Assert().Equal(drops.NameList{alice}, oracles)

	// epoch 2 does not exist yet, so the registry is what it will snapshot
	s.clock.Add(day)
	oracles, err = s.engine.ActiveOraclesForCurrentEpoch(context.Background())
	s.Require().NoError(err)
	s.Assert().Equal(drops.NameList{alice, bob}, oracles)

	height, err := s.engine.CurrentEpochHeight(context.Background())
	s.Require().NoError(err)
	s.Assert().Equal(uint64(2), height)
}

func (s *EngineSuite) TestWipe() {
	s.bootstrap(alice, bob)
	_, err := s.engine.SubmitCommit(as(alice), alice, 1, unittest.MockCommit)
	s.Require().NoError(err)
	s.clock.Add(day)
	_, err = s.engine.SubmitReveal(as(alice), alice, 1, unittest.MockReveal)
	s.Require().NoError(err)

	// epoch 1 is completed and cached
	epoch, err := s.engine.Epoch(context.Background(), 1)
	s.Require().NoError(err)
	s.Require().True(epoch.Completed)

	s.Require().NoError(s.engine.Wipe(as(self)))

	_, err = s.engine.Epoch(context.Background(), 1)
	s.Assert().True(protocol.IsEpochNotFoundError(err))
	oracles, err := s.engine.Oracles(context.Background())
	s.Require().NoError(err)
	s.Assert().Empty(oracles)
	state, err := s.engine.State(context.Background())
	s.Require().NoError(err)
	s.Assert().Equal(&drops.State{Genesis: unittest.Genesis.Add(day), Duration: 86400}, state)

	// the protocol can be set up again
	s.bootstrap(alice)
	_, err = s.engine.SubmitCommit(as(alice), alice, 1, unittest.MockCommit)
	s.Require().NoError(err)
}

// TestScenario runs the two oracle scenario: both commit, the epoch rolls
// over, and the seed is derived from both reveals once the second arrives.
func (s *EngineSuite) TestScenario() {
	hasher := hash.NewSHA2_256()
	s.bootstrap(alice, bob)

	_, err := s.engine.SubmitCommit(as(alice), alice, 1, hasher.ComputeHash([]byte("x")))
	s.Require().NoError(err)
	_, err = s.engine.SubmitCommit(as(bob), bob, 1, hasher.ComputeHash([]byte("y")))
	s.Require().NoError(err)

	_, err = s.engine.SubmitReveal(as(alice), alice, 1, "x")
	s.Require().True(protocol.IsEpochNotYetClosedError(err))

	s.clock.Add(day)
	result, err := s.engine.SubmitReveal(as(alice), alice, 1, "x")
	s.Require().NoError(err)
	s.Assert().False(result.Finalized)

	result, err = s.engine.SubmitReveal(as(bob), bob, 1, "y")
	s.Require().NoError(err)
	s.Require().True(result.Finalized)

	epoch, err := s.engine.Epoch(context.Background(), 1)
	s.Require().NoError(err)
	s.Assert().True(epoch.Completed)
	s.Assert().Empty(epoch.Oracles)
	s.Assert().Equal(hasher.ComputeHash([]byte("1xy")), epoch.Seed)

	commits, err := s.engine.Commits(context.Background(), 1)
	s.Require().NoError(err)
	s.Assert().Empty(commits)
	reveals, err := s.engine.Reveals(context.Background(), 1)
	s.Require().NoError(err)
	s.Assert().Empty(reveals)
}

// TestConcurrentCommits submits commits of many oracles in parallel; each
// must be recorded exactly once.
func TestConcurrentCommits(t *testing.T) {
	dbtest.RunWithDB(t, func(t *testing.T, db storage.DB) {
		clk := clock.NewMock(unittest.Genesis)
		oracles := unittest.NameListFixture(20)

		e, err := engine.New(
			unittest.Logger(),
			db,
			store.InitAll(metrics.NewNoopCollector(), db, 10),
			hash.NewSHA2_256(),
			clk,
			auth.NewCallerAuthenticator(),
			auth.AnyAccount{},
			trace.NewNoopTracer(),
			metrics.NewNoopCollector(),
			engine.DefaultConfig(),
		)
		require.NoError(t, err)

		for _, oracle := range oracles {
			require.NoError(t, e.AddOracle(as(self), oracle))
		}
		_, err = e.InitializeProtocol(as(self))
		require.NoError(t, err)

		var g errgroup.Group
		for _, oracle := range oracles {
			oracle := oracle
			g.Go(func() error {
				_, err := e.SubmitCommit(as(oracle), oracle, 1, unittest.MockCommit)
				if err != nil {
					return fmt.Errorf("commit of %s failed: %w", oracle, err)
				}
				return nil
			})
		}
		require.NoError(t, g.Wait())

		commits, err := e.Commits(context.Background(), 1)
		require.NoError(t, err)
		require.Len(t, commits, len(oracles))
		ids := make(map[uint64]struct{})
		for _, commit := range commits {
			ids[commit.ID] = struct{}{}
		}
		assert.Len(t, ids, len(oracles), "commit IDs must be unique")
	})
}

// TestAccountCheckFailure checks that a failing account lookup is reported
// as an internal failure rather than a rejection.
func TestAccountCheckFailure(t *testing.T) {
	dbtest.RunWithBadgerDB(t, func(t *testing.T, db storage.DB) {
		accounts := mock.NewAccountChecker(t)
		accounts.On("AccountExists", testifymock.Anything, alice).Return(false, errors.New("node unreachable")).Once()

		e, err := engine.New(
			unittest.Logger(),
			db,
			store.InitAll(metrics.NewNoopCollector(), db, 10),
			hash.NewSHA2_256(),
			clock.NewMock(unittest.Genesis),
			auth.NewCallerAuthenticator(),
			accounts,
			trace.NewNoopTracer(),
			metrics.NewNoopCollector(),
			engine.DefaultConfig(),
		)
		require.NoError(t, err)

		err = e.AddOracle(as(self), alice)
		require.Error(t, err)
		assert.False(t, protocol.IsRejection(err))
		assert.Contains(t, err.Error(), "node unreachable")
	})
}

func TestAuthenticatorIsConsulted(t *testing.T) {
	dbtest.RunWithBadgerDB(t, func(t *testing.T, db storage.DB) {
		authenticator := mock.NewAuthenticator(t)
		authenticator.On("Authenticate", testifymock.Anything, self).Return(protocol.NewUnauthorizedError(self)).Once()

		e, err := engine.New(
			unittest.Logger(),
			db,
			store.InitAll(metrics.NewNoopCollector(), db, 10),
			hash.NewSHA2_256(),
			clock.NewMock(unittest.Genesis),
			authenticator,
			auth.AnyAccount{},
			trace.NewNoopTracer(),
			metrics.NewNoopCollector(),
			engine.DefaultConfig(),
		)
		require.NoError(t, err)

		err = e.SetEnabled(context.Background(), true)
		assert.True(t, protocol.IsUnauthorizedError(err))
	})
}

// failingCommitDB runs every action against the wrapped database but fails
// the batch after the action succeeded, as a failed commit would.
type failingCommitDB struct {
	storage.DB
	err error
}

func (db failingCommitDB) WithReaderBatchWriter(fn func(storage.ReaderBatchWriter) error) error {
	return db.DB.WithReaderBatchWriter(func(rw storage.ReaderBatchWriter) error {
		err := fn(rw)
		if err != nil {
			return err
		}
		return db.err
	})
}

type heightRecorder struct {
	*metrics.NoopCollector
	heights []uint64
}

func (r *heightRecorder) CurrentEpochHeight(height uint64) {
	r.heights = append(r.heights, height)
}

// TestFailedCommitIsNotReported checks that actions whose batch fails to
// commit are neither logged as applied nor metered.
func TestFailedCommitIsNotReported(t *testing.T) {
	dbtest.RunWithDB(t, func(t *testing.T, db storage.DB) {
		clk := clock.NewMock(unittest.Genesis)
		setup := newEngine(t, db, clk)
		require.NoError(t, setup.AddOracle(as(self), alice))
		_, err := setup.InitializeProtocol(as(self))
		require.NoError(t, err)

		var logs bytes.Buffer
		recorder := &heightRecorder{NoopCollector: metrics.NewNoopCollector()}
		commitErr := errors.New("disk full")
		e, err := engine.New(
			unittest.LoggerWithWriter(&logs),
			failingCommitDB{DB: db, err: commitErr},
			store.InitAll(metrics.NewNoopCollector(), db, 10),
			hash.NewSHA2_256(),
			clk,
			auth.NewCallerAuthenticator(),
			auth.NewStaticAccounts(alice, bob),
			trace.NewNoopTracer(),
			recorder,
			engine.DefaultConfig(),
		)
		require.NoError(t, err)

		_, err = e.SubmitCommit(as(alice), alice, 1, unittest.MockCommit)
		require.ErrorIs(t, err, commitErr)
		_, _, err = e.AdvanceEpoch(as(self))
		require.ErrorIs(t, err, commitErr)
		require.ErrorIs(t, e.AddOracle(as(self), bob), commitErr)
		require.ErrorIs(t, e.Wipe(as(self)), commitErr)

		assert.Empty(t, recorder.heights)
		for _, msg := range []string{"commit accepted", "epoch advanced", "oracle added", "all protocol data wiped"} {
			assert.NotContains(t, logs.String(), msg)
		}

		commits, err := setup.Commits(context.Background(), 1)
		require.NoError(t, err)
		assert.Empty(t, commits)
		oracles, err := setup.Oracles(context.Background())
		require.NoError(t, err)
		assert.Equal(t, drops.NameList{alice}, oracles)

		// the discarded commit does not block a later one
		_, err = setup.SubmitCommit(as(alice), alice, 1, unittest.MockCommit)
		require.NoError(t, err)
	})
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	dbtest.RunWithBadgerDB(t, func(t *testing.T, db storage.DB) {
		config := engine.DefaultConfig()
		config.DefaultDuration = 0
		_, err := engine.New(unittest.Logger(), db, store.InitAll(metrics.NewNoopCollector(), db, 10),
			hash.NewSHA2_256(), clock.NewMock(unittest.Genesis), auth.NewCallerAuthenticator(), auth.AnyAccount{},
			trace.NewNoopTracer(), metrics.NewNoopCollector(), config)
		assert.ErrorIs(t, err, protocol.ErrInvalidDuration)

		config = engine.DefaultConfig()
		config.Self = "Not Valid"
		_, err = engine.New(unittest.Logger(), db, store.InitAll(metrics.NewNoopCollector(), db, 10),
			hash.NewSHA2_256(), clock.NewMock(unittest.Genesis), auth.NewCallerAuthenticator(), auth.AnyAccount{},
			trace.NewNoopTracer(), metrics.NewNoopCollector(), config)
		assert.Error(t, err)
	})
}
