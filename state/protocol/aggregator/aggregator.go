// Package aggregator detects the end of an epoch's reveal phase and
// derives the epoch's seed from the revealed values.
package aggregator

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/droplets-system/epoch/crypto/hash"
	"github.com/droplets-system/epoch/model/drops"
	"github.com/droplets-system/epoch/module"
	"github.com/droplets-system/epoch/state/protocol/ledger"
	"github.com/droplets-system/epoch/storage"
)

type Aggregator struct {
	log     zerolog.Logger
	ledger  *ledger.Ledger
	commits storage.Commits
	reveals storage.Reveals
	hasher  hash.Hasher
	policy  CompletionPolicy
	metrics module.ProtocolMetrics
}

func New(
	log zerolog.Logger,
	ledger *ledger.Ledger,
	commits storage.Commits,
	reveals storage.Reveals,
	hasher hash.Hasher,
	policy CompletionPolicy,
	metrics module.ProtocolMetrics,
) *Aggregator {
	return &Aggregator{
		log:     log.With().Str("component", "seed_aggregator").Logger(),
		ledger:  ledger,
		commits: commits,
		reveals: reveals,
		hasher:  hasher,
		policy:  policy,
		metrics: metrics,
	}
}

// Policy returns the completion policy in effect.
func (a *Aggregator) Policy() CompletionPolicy {
	return a.policy
}

// CheckCompletion finalizes the epoch at height if its reveal phase is
// complete: it computes the seed, marks the epoch completed and deletes the
// commits and reveals of the snapshotted oracles for the epoch.
// Expected errors during normal operations:
//   - protocol.EpochNotFoundError if no record exists at height
func (a *Aggregator) CheckCompletion(rw storage.ReaderBatchWriter, height uint64) (bool, drops.Digest, error) {
	epoch, err := a.ledger.Get(rw.Reader(), height)
	if err != nil {
		return false, drops.ZeroDigest, err
	}
	if epoch.Completed {
		return false, drops.ZeroDigest, nil
	}

	revealCount, err := a.reveals.Count(rw.Reader(), height)
	if err != nil {
		return false, drops.ZeroDigest, fmt.Errorf("could not count reveals of epoch %d: %w", height, err)
	}
	commitCount, err := a.commits.Count(rw.Reader(), height)
	if err != nil {
		return false, drops.ZeroDigest, fmt.Errorf("could not count commits of epoch %d: %w", height, err)
	}
	if !a.policy.complete(revealCount, commitCount, len(epoch.Oracles)) {
		a.log.Debug().
			Uint64("height", height).
			Uint("reveals", revealCount).
			Uint("commits", commitCount).
			Int("oracles", len(epoch.Oracles)).
			Msg("reveal phase still open")
		return false, drops.ZeroDigest, nil
	}

	reveals, err := a.reveals.ByEpoch(rw.Reader(), height)
	if err != nil {
		return false, drops.ZeroDigest, err
	}
	values := make([]string, 0, len(reveals))
	for _, reveal := range reveals {
		values = append(values, reveal.Reveal)
	}
	seed := ComputeSeed(a.hasher, height, values)

	snapshot, err := a.ledger.Finalize(rw, height, seed)
	if err != nil {
		return false, drops.ZeroDigest, err
	}

	for _, oracle := range snapshot {
		err = a.commits.BatchRemove(rw, height, oracle)
		if err != nil {
			return false, drops.ZeroDigest, fmt.Errorf("could not remove commit of %s for epoch %d: %w", oracle, height, err)
		}
		err = a.reveals.BatchRemove(rw, height, oracle)
		if err != nil {
			return false, drops.ZeroDigest, fmt.Errorf("could not remove reveal of %s for epoch %d: %w", oracle, height, err)
		}
	}

	rw.AddCallback(func(err error) {
		if err == nil {
			a.metrics.EpochFinalized(height, len(values))
		}
	})
	return true, seed, nil
}

// ComputeSeed returns SHA-256 over the decimal height followed by the
// reveals in ascending byte order. The values are concatenated without a
// delimiter, so different reveal sets can produce the same preimage, e.g.
// {"ab", "c"} and {"a", "bc"}.
func ComputeSeed(hasher hash.Hasher, height uint64, reveals []string) drops.Digest {
	sorted := make([]string, len(reveals))
	copy(sorted, reveals)
	sort.Strings(sorted)

	parts := make([][]byte, 0, len(sorted)+1)
	parts = append(parts, []byte(strconv.FormatUint(height, 10)))
	for _, reveal := range sorted {
		parts = append(parts, []byte(reveal))
	}
	return hasher.ComputeHashParts(parts...)
}
