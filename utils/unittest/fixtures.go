package unittest

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/droplets-system/epoch/crypto/hash"
	"github.com/droplets-system/epoch/model/drops"
)

// MockReveal is a reveal value used throughout the tests, and MockCommit is
// its SHA-256 commitment.
const MockReveal = "0094332e9a84e85be7ce60903f0419b49a4bfcec8c6f6e8620add18999a878d0"

var MockCommit = drops.MustHexStringToDigest("3d1f01d81f9d605b2da582fbf5a4110ef35477caf7f2c5ae4fa0e3877ed16747")

// Genesis is the genesis time used by most tests, 2024-01-29T00:00:00Z.
var Genesis = time.Date(2024, 1, 29, 0, 0, 0, 0, time.UTC)

const letters = "abcdefghijklmnopqrstuvwxyz12345"

// NameFixture returns a random valid account name.
func NameFixture() drops.Name {
	b := make([]byte, 8)
	for i := range b {
		b[i] = letters[rand.Intn(len(letters))]
	}
	return drops.Name(b)
}

func NameListFixture(n int) drops.NameList {
	names := make(drops.NameList, 0, n)
	for i := 0; i < n; i++ {
		names = append(names, drops.Name(fmt.Sprintf("oracle%c", letters[i%len(letters)])))
	}
	return names
}

func DigestFixture() drops.Digest {
	var d drops.Digest
	_, _ = rand.Read(d[:])
	return d
}

// RevealFixture returns a random reveal value together with its commitment.
func RevealFixture() (string, drops.Digest) {
	value := DigestFixture().String()
	return value, hash.NewSHA2_256().ComputeHash([]byte(value))
}

func StateFixture(opts ...func(*drops.State)) *drops.State {
	state := &drops.State{
		Genesis:  Genesis,
		Duration: drops.DefaultDuration,
		Enabled:  true,
	}
	for _, opt := range opts {
		opt(state)
	}
	return state
}

func WithEnabled(enabled bool) func(*drops.State) {
	return func(s *drops.State) {
		s.Enabled = enabled
	}
}

func WithDuration(duration uint32) func(*drops.State) {
	return func(s *drops.State) {
		s.Duration = duration
	}
}

func EpochFixture(height uint64, opts ...func(*drops.Epoch)) *drops.Epoch {
	epoch := &drops.Epoch{
		Height:  height,
		Oracles: NameListFixture(3),
	}
	for _, opt := range opts {
		opt(epoch)
	}
	return epoch
}

func WithOracles(oracles ...drops.Name) func(*drops.Epoch) {
	return func(e *drops.Epoch) {
		e.Oracles = oracles
	}
}

func WithSeed(seed drops.Digest) func(*drops.Epoch) {
	return func(e *drops.Epoch) {
		e.Completed = true
		e.Seed = seed
		e.Oracles = nil
	}
}

func CommitFixture(epoch uint64, oracle drops.Name) *drops.Commit {
	return &drops.Commit{
		Epoch:  epoch,
		Oracle: oracle,
		Commit: MockCommit,
	}
}

func RevealRecordFixture(epoch uint64, oracle drops.Name) *drops.Reveal {
	return &drops.Reveal{
		Epoch:  epoch,
		Oracle: oracle,
		Reveal: MockReveal,
	}
}
