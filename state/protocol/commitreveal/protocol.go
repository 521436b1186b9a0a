// Package commitreveal admits commits and reveals of oracles.
//
// During epoch h an oracle commits the SHA-256 digest of a secret value.
// Once h has ended it reveals the value, which must hash to the committed
// digest. Checks run in a fixed order, so that a request failing several
// checks always reports the same error.
package commitreveal

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/droplets-system/epoch/crypto/hash"
	"github.com/droplets-system/epoch/model/drops"
	"github.com/droplets-system/epoch/module"
	"github.com/droplets-system/epoch/state/protocol"
	"github.com/droplets-system/epoch/state/protocol/aggregator"
	"github.com/droplets-system/epoch/state/protocol/clock"
	"github.com/droplets-system/epoch/state/protocol/ledger"
	"github.com/droplets-system/epoch/storage"
)

// RevealResult is the outcome of an accepted reveal.
type RevealResult struct {
	Reveal *drops.Reveal
	// Finalized is true if this reveal completed the epoch.
	Finalized bool
	// Seed is the epoch's seed if Finalized is true.
	Seed drops.Digest
}

type Protocol struct {
	log        zerolog.Logger
	ledger     *ledger.Ledger
	commits    storage.Commits
	reveals    storage.Reveals
	aggregator *aggregator.Aggregator
	hasher     hash.Hasher
	metrics    module.ProtocolMetrics
}

func New(
	log zerolog.Logger,
	ledger *ledger.Ledger,
	commits storage.Commits,
	reveals storage.Reveals,
	aggregator *aggregator.Aggregator,
	hasher hash.Hasher,
	metrics module.ProtocolMetrics,
) *Protocol {
	return &Protocol{
		log:        log.With().Str("component", "commit_reveal").Logger(),
		ledger:     ledger,
		commits:    commits,
		reveals:    reveals,
		aggregator: aggregator,
		hasher:     hasher,
		metrics:    metrics,
	}
}

// SubmitCommit records the digest committed by the oracle for the epoch at
// height, which must be the current epoch. The caller must have verified
// that the request was authorized by the oracle.
// Expected errors during normal operations:
//   - protocol.ErrSystemDisabled if the system is disabled
//   - protocol.WrongEpochError if height is not the current height
//   - protocol.ErrEmptyRegistry if the current epoch must be created but no oracle is registered
//   - protocol.OracleNotInEpochError if the oracle is not in the epoch's snapshot
//   - protocol.ErrAlreadyCommitted if the oracle already committed for the epoch
func (p *Protocol) SubmitCommit(
	rw storage.ReaderBatchWriter,
	state *drops.State,
	now time.Time,
	oracle drops.Name,
	height uint64,
	digest drops.Digest,
) (*drops.Commit, error) {
	if !state.Enabled {
		return nil, protocol.ErrSystemDisabled
	}

	current := clock.Height(state, now)
	if height != current {
		return nil, protocol.NewWrongEpochError(height, current)
	}

	epoch, _, err := p.ledger.EnsureCurrent(rw, current)
	if err != nil {
		return nil, err
	}
	if !epoch.HasOracle(oracle) {
		return nil, protocol.NewOracleNotInEpochError(oracle, height)
	}

	commit := &drops.Commit{
		Epoch:  height,
		Oracle: oracle,
		Commit: digest,
	}
	err = p.commits.BatchStore(rw, commit)
	if errors.Is(err, storage.ErrAlreadyExists) {
		return nil, protocol.ErrAlreadyCommitted
	}
	if err != nil {
		return nil, fmt.Errorf("could not store commit of %s for epoch %d: %w", oracle, height, err)
	}

	rw.AddCallback(func(err error) {
		if err == nil {
			p.metrics.CommitAccepted()
		}
	})
	return commit, nil
}

// SubmitReveal records the value revealed by the oracle for the epoch at
// height, which must have ended, and finalizes the epoch if the reveal
// completes it. The caller must have verified that the request was
// authorized by the oracle.
// Expected errors during normal operations:
//   - protocol.ErrSystemDisabled if the system is disabled
//   - protocol.EpochNotFoundError if no epoch exists at height
//   - protocol.OracleNotInEpochError if the oracle is not in the epoch's snapshot
//   - protocol.EpochNotYetClosedError if the epoch has not ended
//   - protocol.ErrEmptyRegistry if the current epoch must be created but no oracle is registered
//   - protocol.ErrAlreadyRevealed if the oracle already revealed for the epoch
//   - protocol.ErrNoCommitFound if the oracle did not commit for the epoch
//   - protocol.RevealMismatchError if the value does not hash to the committed digest
func (p *Protocol) SubmitReveal(
	rw storage.ReaderBatchWriter,
	state *drops.State,
	now time.Time,
	oracle drops.Name,
	height uint64,
	value string,
) (*RevealResult, error) {
	if !state.Enabled {
		return nil, protocol.ErrSystemDisabled
	}

	epoch, err := p.ledger.Get(rw.Reader(), height)
	if err != nil {
		return nil, err
	}
	if !epoch.HasOracle(oracle) {
		return nil, protocol.NewOracleNotInEpochError(oracle, height)
	}

	current := clock.Height(state, now)
	if height >= current {
		return nil, protocol.NewEpochNotYetClosedError(height)
	}

	_, _, err = p.ledger.EnsureCurrent(rw, current)
	if err != nil {
		return nil, err
	}

	revealed, err := p.reveals.Exists(rw.Reader(), height, oracle)
	if err != nil {
		return nil, fmt.Errorf("could not check reveal of %s for epoch %d: %w", oracle, height, err)
	}
	if revealed {
		return nil, protocol.ErrAlreadyRevealed
	}

	commit, err := p.commits.ByEpochOracle(rw.Reader(), height, oracle)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, protocol.ErrNoCommitFound
	}
	if err != nil {
		return nil, err
	}

	digest := p.hasher.ComputeHash([]byte(value))
	if digest != commit.Commit {
		return nil, protocol.NewRevealMismatchError(value, digest, commit.Commit)
	}

	reveal := &drops.Reveal{
		Epoch:  height,
		Oracle: oracle,
		Reveal: value,
	}
	err = p.reveals.BatchStore(rw, reveal)
	if err != nil {
		return nil, fmt.Errorf("could not store reveal of %s for epoch %d: %w", oracle, height, err)
	}
	rw.AddCallback(func(err error) {
		if err == nil {
			p.metrics.RevealAccepted()
		}
	})

	finalized, seed, err := p.aggregator.CheckCompletion(rw, height)
	if err != nil {
		return nil, fmt.Errorf("could not check completion of epoch %d: %w", height, err)
	}
	if finalized {
		rw.AddCallback(func(err error) {
			if err == nil {
				p.log.Info().
					Uint64("height", height).
					Str("seed", seed.String()).
					Msg("epoch finalized")
			}
		})
	}

	return &RevealResult{
		Reveal:    reveal,
		Finalized: finalized,
		Seed:      seed,
	}, nil
}
