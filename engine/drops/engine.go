// Package drops implements the service which owns the epoch randomness
// protocol. Every action is authenticated, serialized and applied to storage
// as a single batch, so a failed action leaves no trace.
package drops

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/droplets-system/epoch/crypto/hash"
	"github.com/droplets-system/epoch/model/drops"
	"github.com/droplets-system/epoch/module"
	"github.com/droplets-system/epoch/module/metrics"
	"github.com/droplets-system/epoch/module/trace"
	"github.com/droplets-system/epoch/state/protocol"
	"github.com/droplets-system/epoch/state/protocol/aggregator"
	"github.com/droplets-system/epoch/state/protocol/clock"
	"github.com/droplets-system/epoch/state/protocol/commitreveal"
	"github.com/droplets-system/epoch/state/protocol/ledger"
	"github.com/droplets-system/epoch/state/protocol/registry"
	"github.com/droplets-system/epoch/storage"
)

// Config holds the parameters of the engine.
type Config struct {
	// Self is the service's own identity, required for administrative actions.
	Self drops.Name
	// DefaultDuration is the epoch length in seconds in effect until an
	// administrator sets one.
	DefaultDuration uint32
	// CompletionPolicy decides when a past epoch has been fully revealed.
	CompletionPolicy aggregator.CompletionPolicy
}

func DefaultConfig() Config {
	return Config{
		Self:             "epoch.drops",
		DefaultDuration:  drops.DefaultDuration,
		CompletionPolicy: aggregator.DefaultCompletionPolicy,
	}
}

// Engine is the entry point of every protocol action.
type Engine struct {
	log      zerolog.Logger
	mu       sync.RWMutex
	db       storage.DB
	states   storage.States
	commits  storage.Commits
	reveals  storage.Reveals
	registry *registry.Registry
	ledger   *ledger.Ledger
	protocol *commitreveal.Protocol
	clock    module.Clock
	auth     module.Authenticator
	accounts module.AccountChecker
	tracer   module.Tracer
	metrics  module.ProtocolMetrics
	config   Config
}

func New(
	log zerolog.Logger,
	db storage.DB,
	all *storage.All,
	hasher hash.Hasher,
	clk module.Clock,
	authenticator module.Authenticator,
	accounts module.AccountChecker,
	tracer module.Tracer,
	collector module.ProtocolMetrics,
	config Config,
) (*Engine, error) {
	if err := config.Self.Validate(); err != nil {
		return nil, fmt.Errorf("invalid service identity: %w", err)
	}
	if config.DefaultDuration == 0 {
		return nil, protocol.ErrInvalidDuration
	}

	log = log.With().Str("engine", "drops").Logger()
	reg := registry.New(all.Oracles)
	l := ledger.New(all.Epochs, reg, collector)
	agg := aggregator.New(log, l, all.Commits, all.Reveals, hasher, config.CompletionPolicy, collector)

	return &Engine{
		log:      log,
		db:       db,
		states:   all.States,
		commits:  all.Commits,
		reveals:  all.Reveals,
		registry: reg,
		ledger:   l,
		protocol: commitreveal.New(log, l, all.Commits, all.Reveals, agg, hasher, collector),
		clock:    clk,
		auth:     authenticator,
		accounts: accounts,
		tracer:   tracer,
		metrics:  collector,
		config:   config,
	}, nil
}

// Self returns the identity required for administrative actions.
func (e *Engine) Self() drops.Name {
	return e.config.Self
}

// AddOracle registers an oracle. Requires the service's own authority.
// Expected errors during normal operations:
//   - protocol.UnauthorizedError if the caller is not the service
//   - protocol.ErrUnknownAccount if the oracle is not an existing account
//   - protocol.ErrOracleAlreadyExists if the oracle is registered
func (e *Engine) AddOracle(ctx context.Context, oracle drops.Name) error {
	return e.mutate(ctx, trace.DropsAddOracle, metrics.ActionAddOracle, func(ctx context.Context, rw storage.ReaderBatchWriter) error {
		err := e.auth.Authenticate(ctx, e.config.Self)
		if err != nil {
			return err
		}
		exists, err := e.accounts.AccountExists(ctx, oracle)
		if err != nil {
			return fmt.Errorf("could not check account %s: %w", oracle, err)
		}
		if !exists {
			return protocol.ErrUnknownAccount
		}
		err = e.registry.Add(rw, oracle)
		if err != nil {
			return err
		}
		storage.OnCommitSucceed(rw, func() {
			e.log.Info().Str("oracle", oracle.String()).Msg("oracle added")
		})
		return nil
	})
}

// RemoveOracle unregisters an oracle. Epochs which already snapshotted the
// oracle keep it. Requires the service's own authority.
// Expected errors during normal operations:
//   - protocol.UnauthorizedError if the caller is not the service
//   - protocol.ErrOracleNotFound if the oracle is not registered
func (e *Engine) RemoveOracle(ctx context.Context, oracle drops.Name) error {
	return e.mutate(ctx, trace.DropsRemoveOracle, metrics.ActionRemoveOracle, func(ctx context.Context, rw storage.ReaderBatchWriter) error {
		err := e.auth.Authenticate(ctx, e.config.Self)
		if err != nil {
			return err
		}
		err = e.registry.Remove(rw, oracle)
		if err != nil {
			return err
		}
		storage.OnCommitSucceed(rw, func() {
			e.log.Info().Str("oracle", oracle.String()).Msg("oracle removed")
		})
		return nil
	})
}

// InitializeProtocol aligns genesis to the start of the current epoch
// period, enables the system and creates epoch 1 with a snapshot of the
// registry. Requires the service's own authority.
// Expected errors during normal operations:
//   - protocol.UnauthorizedError if the caller is not the service
//   - protocol.ErrAlreadyInitialized if epoch 1 exists
//   - protocol.ErrEmptyRegistry if no oracle is registered
func (e *Engine) InitializeProtocol(ctx context.Context) (*drops.Epoch, error) {
	var epoch *drops.Epoch
	err := e.mutate(ctx, trace.DropsInitialize, metrics.ActionInit, func(ctx context.Context, rw storage.ReaderBatchWriter) error {
		err := e.auth.Authenticate(ctx, e.config.Self)
		if err != nil {
			return err
		}
		state, err := e.state(rw.Reader())
		if err != nil {
			return err
		}
		state.Genesis = clock.AlignGenesis(e.clock.Now(), state.Duration)
		state.Enabled = true
		err = e.states.BatchStore(rw, state)
		if err != nil {
			return fmt.Errorf("could not store state: %w", err)
		}

		epoch, err = e.ledger.Bootstrap(rw)
		if err != nil {
			return err
		}
		oracles := epoch.Oracles.Strings()
		storage.OnCommitSucceed(rw, func() {
			e.log.Info().
				Time("genesis", state.Genesis).
				Uint32("duration", state.Duration).
				Strs("oracles", oracles).
				Msg("protocol initialized")
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return epoch.Copy(), nil
}

// SetEnabled turns the system gate on or off. Requires the service's own
// authority.
// Expected errors during normal operations:
//   - protocol.UnauthorizedError if the caller is not the service
func (e *Engine) SetEnabled(ctx context.Context, enabled bool) error {
	return e.mutate(ctx, trace.DropsSetEnabled, metrics.ActionSetEnabled, func(ctx context.Context, rw storage.ReaderBatchWriter) error {
		err := e.auth.Authenticate(ctx, e.config.Self)
		if err != nil {
			return err
		}
		state, err := e.state(rw.Reader())
		if err != nil {
			return err
		}
		state.Enabled = enabled
		err = e.states.BatchStore(rw, state)
		if err != nil {
			return fmt.Errorf("could not store state: %w", err)
		}
		storage.OnCommitSucceed(rw, func() {
			e.log.Info().Bool("enabled", enabled).Msg("system gate changed")
		})
		return nil
	})
}

// SetDuration changes the epoch length. Genesis is kept, so the current
// height is recomputed under the new length. Requires the service's own
// authority.
// Expected errors during normal operations:
//   - protocol.UnauthorizedError if the caller is not the service
//   - protocol.ErrInvalidDuration if duration is zero
func (e *Engine) SetDuration(ctx context.Context, duration uint32) error {
	return e.mutate(ctx, trace.DropsSetDuration, metrics.ActionSetDuration, func(ctx context.Context, rw storage.ReaderBatchWriter) error {
		err := e.auth.Authenticate(ctx, e.config.Self)
		if err != nil {
			return err
		}
		if duration == 0 {
			return protocol.ErrInvalidDuration
		}
		state, err := e.state(rw.Reader())
		if err != nil {
			return err
		}
		state.Duration = duration
		err = e.states.BatchStore(rw, state)
		if err != nil {
			return fmt.Errorf("could not store state: %w", err)
		}
		storage.OnCommitSucceed(rw, func() {
			e.log.Info().Uint32("duration", duration).Msg("epoch duration changed")
		})
		return nil
	})
}

// SubmitCommit records the digest the oracle commits to for the current
// epoch. Requires the oracle's authority.
// Expected errors during normal operations:
//   - protocol.UnauthorizedError if the caller is not the oracle
//   - the rejections of commitreveal.Protocol.SubmitCommit
func (e *Engine) SubmitCommit(ctx context.Context, oracle drops.Name, height uint64, digest drops.Digest) (*drops.Commit, error) {
	var commit *drops.Commit
	err := e.mutate(ctx, trace.DropsSubmitCommit, metrics.ActionCommit, func(ctx context.Context, rw storage.ReaderBatchWriter) error {
		err := e.auth.Authenticate(ctx, oracle)
		if err != nil {
			return err
		}
		state, err := e.state(rw.Reader())
		if err != nil {
			return err
		}
		commit, err = e.protocol.SubmitCommit(rw, state, e.clock.Now(), oracle, height, digest)
		if err != nil {
			return err
		}
		storage.OnCommitSucceed(rw, func() {
			e.metrics.CurrentEpochHeight(height)
			e.log.Info().
				Str("oracle", oracle.String()).
				Uint64("height", height).
				Msg("commit accepted")
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return commit, nil
}

// SubmitReveal records the value the oracle committed to for a past epoch,
// finalizing the epoch if it is fully revealed. Requires the oracle's
// authority.
// Expected errors during normal operations:
//   - protocol.UnauthorizedError if the caller is not the oracle
//   - the rejections of commitreveal.Protocol.SubmitReveal
func (e *Engine) SubmitReveal(ctx context.Context, oracle drops.Name, height uint64, value string) (*commitreveal.RevealResult, error) {
	var result *commitreveal.RevealResult
	err := e.mutate(ctx, trace.DropsSubmitReveal, metrics.ActionReveal, func(ctx context.Context, rw storage.ReaderBatchWriter) error {
		err := e.auth.Authenticate(ctx, oracle)
		if err != nil {
			return err
		}
		state, err := e.state(rw.Reader())
		if err != nil {
			return err
		}
		result, err = e.protocol.SubmitReveal(rw, state, e.clock.Now(), oracle, height, value)
		if err != nil {
			return err
		}
		finalized := result.Finalized
		storage.OnCommitSucceed(rw, func() {
			e.log.Info().
				Str("oracle", oracle.String()).
				Uint64("height", height).
				Bool("finalized", finalized).
				Msg("reveal accepted")
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// AdvanceEpoch creates the record of the current epoch if it does not exist
// yet, as commits and reveals do lazily. It returns the current epoch and
// whether it was created by this call. Requires the service's own authority.
// Expected errors during normal operations:
//   - protocol.UnauthorizedError if the caller is not the service
//   - protocol.ErrEmptyRegistry if the epoch must be created but no oracle is registered
func (e *Engine) AdvanceEpoch(ctx context.Context) (*drops.Epoch, bool, error) {
	var (
		epoch   *drops.Epoch
		created bool
	)
	err := e.mutate(ctx, trace.DropsAdvanceEpoch, metrics.ActionAdvanceEpoch, func(ctx context.Context, rw storage.ReaderBatchWriter) error {
		err := e.auth.Authenticate(ctx, e.config.Self)
		if err != nil {
			return err
		}
		state, err := e.state(rw.Reader())
		if err != nil {
			return err
		}
		height := clock.Height(state, e.clock.Now())
		epoch, created, err = e.ledger.EnsureCurrent(rw, height)
		if err != nil {
			return err
		}
		isNew := created
		storage.OnCommitSucceed(rw, func() {
			e.metrics.CurrentEpochHeight(height)
			e.log.Info().Uint64("height", height).Bool("created", isNew).Msg("epoch advanced")
		})
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return epoch.Copy(), created, nil
}

// Wipe removes all oracles, epochs, commits and reveals and resets the state
// to its defaults. Requires the service's own authority.
// Expected errors during normal operations:
//   - protocol.UnauthorizedError if the caller is not the service
func (e *Engine) Wipe(ctx context.Context) error {
	return e.mutate(ctx, trace.DropsWipe, metrics.ActionWipe, func(ctx context.Context, rw storage.ReaderBatchWriter) error {
		err := e.auth.Authenticate(ctx, e.config.Self)
		if err != nil {
			return err
		}
		err = e.registry.Clear(rw)
		if err != nil {
			return fmt.Errorf("could not clear oracles: %w", err)
		}
		err = e.ledger.Clear(rw)
		if err != nil {
			return fmt.Errorf("could not clear epochs: %w", err)
		}
		err = e.commits.BatchRemoveAll(rw)
		if err != nil {
			return fmt.Errorf("could not clear commits: %w", err)
		}
		err = e.reveals.BatchRemoveAll(rw)
		if err != nil {
			return fmt.Errorf("could not clear reveals: %w", err)
		}
		err = e.states.BatchStore(rw, e.defaultState())
		if err != nil {
			return fmt.Errorf("could not reset state: %w", err)
		}
		storage.OnCommitSucceed(rw, func() {
			e.log.Warn().Msg("all protocol data wiped")
		})
		return nil
	})
}

// CurrentEpochHeight returns the height of the epoch containing the current
// instant. No errors are expected during normal operation.
func (e *Engine) CurrentEpochHeight(ctx context.Context) (uint64, error) {
	var height uint64
	err := e.read(ctx, trace.DropsReadCurrentEpoch, func(r storage.Reader) error {
		state, err := e.state(r)
		if err != nil {
			return err
		}
		height = clock.Height(state, e.clock.Now())
		return nil
	})
	if err != nil {
		return 0, err
	}
	e.metrics.CurrentEpochHeight(height)
	return height, nil
}

// ActiveOraclesForCurrentEpoch returns the oracles expected to commit to the
// current epoch: its snapshot if the epoch record exists, otherwise the
// registry, which is what the snapshot will be once the epoch is created.
// No errors are expected during normal operation.
func (e *Engine) ActiveOraclesForCurrentEpoch(ctx context.Context) (drops.NameList, error) {
	var oracles drops.NameList
	err := e.read(ctx, trace.DropsReadCurrentEpoch.Child("oracles"), func(r storage.Reader) error {
		state, err := e.state(r)
		if err != nil {
			return err
		}
		epoch, err := e.ledger.Get(r, clock.Height(state, e.clock.Now()))
		if err == nil {
			oracles = epoch.Oracles.Copy()
			return nil
		}
		if !protocol.IsEpochNotFoundError(err) {
			return err
		}
		oracles, err = e.registry.List(r)
		return err
	})
	if err != nil {
		return nil, err
	}
	return oracles, nil
}

// Epoch returns the epoch at height.
// Expected errors during normal operations:
//   - protocol.EpochNotFoundError if no epoch exists at height
func (e *Engine) Epoch(ctx context.Context, height uint64) (*drops.Epoch, error) {
	var epoch *drops.Epoch
	err := e.read(ctx, trace.DropsAction.Child("epoch"), func(storage.Reader) error {
		var err error
		epoch, err = e.ledger.Committed(height)
		return err
	})
	if err != nil {
		return nil, err
	}
	return epoch, nil
}

// Epochs returns the existing epochs with heights in [from, to].
// No errors are expected during normal operation.
func (e *Engine) Epochs(ctx context.Context, from, to uint64) ([]*drops.Epoch, error) {
	var epochs []*drops.Epoch
	err := e.read(ctx, trace.DropsAction.Child("epochs"), func(r storage.Reader) error {
		var err error
		epochs, err = e.ledger.Range(r, from, to)
		return err
	})
	if err != nil {
		return nil, err
	}
	return epochs, nil
}

// State returns the system configuration, or its defaults if no
// administrative action happened yet.
// No errors are expected during normal operation.
func (e *Engine) State(ctx context.Context) (*drops.State, error) {
	var state *drops.State
	err := e.read(ctx, trace.DropsAction.Child("state"), func(r storage.Reader) error {
		var err error
		state, err = e.state(r)
		return err
	})
	if err != nil {
		return nil, err
	}
	return state, nil
}

// Oracles returns the registered oracles in ascending order.
// No errors are expected during normal operation.
func (e *Engine) Oracles(ctx context.Context) (drops.NameList, error) {
	var oracles drops.NameList
	err := e.read(ctx, trace.DropsAction.Child("oracles"), func(r storage.Reader) error {
		var err error
		oracles, err = e.registry.List(r)
		return err
	})
	if err != nil {
		return nil, err
	}
	return oracles, nil
}

// Commits returns the commits recorded for the epoch at height. Commits of
// finalized epochs have been removed.
// No errors are expected during normal operation.
func (e *Engine) Commits(ctx context.Context, height uint64) ([]*drops.Commit, error) {
	var commits []*drops.Commit
	err := e.read(ctx, trace.DropsAction.Child("commits"), func(r storage.Reader) error {
		var err error
		commits, err = e.commits.ByEpoch(r, height)
		return err
	})
	if err != nil {
		return nil, err
	}
	return commits, nil
}

// Reveals returns the reveals recorded for the epoch at height. Reveals of
// finalized epochs have been removed.
// No errors are expected during normal operation.
func (e *Engine) Reveals(ctx context.Context, height uint64) ([]*drops.Reveal, error) {
	var reveals []*drops.Reveal
	err := e.read(ctx, trace.DropsAction.Child("reveals"), func(r storage.Reader) error {
		var err error
		reveals, err = e.reveals.ByEpoch(r, height)
		return err
	})
	if err != nil {
		return nil, err
	}
	return reveals, nil
}

// state reads the persisted state, falling back to the defaults, whose
// genesis is the current instant.
func (e *Engine) state(r storage.Reader) (*drops.State, error) {
	state, err := e.states.Retrieve(r)
	if errors.Is(err, storage.ErrNotFound) {
		return e.defaultState(), nil
	}
	if err != nil {
		return nil, err
	}
	return state, nil
}

func (e *Engine) defaultState() *drops.State {
	state := drops.DefaultState()
	state.Duration = e.config.DefaultDuration
	state.Genesis = e.clock.Now().Truncate(time.Second).UTC()
	return &state
}

// mutate runs fn as one atomic action: the writes fn stages are committed
// only if it returns nil.
func (e *Engine) mutate(
	ctx context.Context,
	spanName trace.SpanName,
	action string,
	fn func(context.Context, storage.ReaderBatchWriter) error,
) error {
	span, ctx := e.tracer.StartSpanFromContext(ctx, spanName)
	defer span.End()
	start := time.Now()

	e.mu.Lock()
	err := e.db.WithReaderBatchWriter(func(rw storage.ReaderBatchWriter) error {
		return fn(ctx, rw)
	})
	e.mu.Unlock()

	e.metrics.ActionDuration(action, time.Since(start))
	if err == nil {
		return nil
	}

	if protocol.IsRejection(err) {
		reason := protocol.RejectionReason(err)
		e.metrics.ActionRejected(action, reason)
		span.SetAttributes(attribute.String("rejection", reason))
		e.log.Debug().Err(err).Str("action", action).Str("reason", reason).Msg("action rejected")
		return err
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, "action failed")
	e.log.Error().Err(err).Str("action", action).Msg("action failed")
	return fmt.Errorf("could not execute %s: %w", action, err)
}

func (e *Engine) read(ctx context.Context, spanName trace.SpanName, fn func(storage.Reader) error) error {
	span, _ := e.tracer.StartSpanFromContext(ctx, spanName)
	defer span.End()
	start := time.Now()

	e.mu.RLock()
	err := fn(e.db.Reader())
	e.mu.RUnlock()

	e.metrics.ActionDuration(metrics.ActionRead, time.Since(start))
	if err != nil && !protocol.IsRejection(err) {
		span.RecordError(err)
		span.SetStatus(codes.Error, "read failed")
		e.log.Error().Err(err).Msg("read failed")
	}
	return err
}
