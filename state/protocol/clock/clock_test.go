package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

var genesis = time.Date(2024, 1, 29, 0, 0, 0, 0, time.UTC)

func TestCurrentHeight(t *testing.T) {
	const day = 86400

	assert.Equal(t, uint64(1), CurrentHeight(genesis, day, genesis))
	assert.Equal(t, uint64(1), CurrentHeight(genesis, day, genesis.Add(day*time.Second-time.Nanosecond)))
	assert.Equal(t, uint64(2), CurrentHeight(genesis, day, genesis.Add(day*time.Second)))
	assert.Equal(t, uint64(11), CurrentHeight(genesis, day, genesis.Add(10*day*time.Second+5*time.Second)))

	t.Run("before genesis", func(t *testing.T) {
		assert.Equal(t, uint64(1), CurrentHeight(genesis, day, genesis.Add(-time.Hour)))
	})

	t.Run("zero duration", func(t *testing.T) {
		assert.Equal(t, uint64(1), CurrentHeight(genesis, 0, genesis.Add(time.Hour)))
	})
}

func TestEpochBounds(t *testing.T) {
	assert.Equal(t, genesis, EpochStart(genesis, 60, 1))
	assert.Equal(t, genesis.Add(2*time.Minute), EpochStart(genesis, 60, 3))
	assert.Equal(t, genesis.Add(3*time.Minute), EpochEnd(genesis, 60, 3))
}

func TestAlignGenesis(t *testing.T) {
	now := genesis.Add(13*time.Hour + 7*time.Minute + 500*time.Millisecond)
	assert.Equal(t, genesis, AlignGenesis(now, 86400))
	assert.Equal(t, genesis.Add(13*time.Hour), AlignGenesis(now, 3600))
	assert.Equal(t, genesis.Add(13*time.Hour+7*time.Minute), AlignGenesis(now, 1))
}

// TestHeightMonotonic checks that the height never decreases as time moves
// forward and that it steps by exactly one at every epoch boundary.
func TestHeightMonotonic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		duration := rapid.Uint32Range(1, 30*86400).Draw(t, "duration")
		offset := rapid.Int64Range(-86400, 10*365*86400).Draw(t, "offset")
		step := rapid.Int64Range(0, 365*86400).Draw(t, "step")

		now := genesis.Add(time.Duration(offset) * time.Second)
		later := now.Add(time.Duration(step) * time.Second)

		h1 := CurrentHeight(genesis, duration, now)
		h2 := CurrentHeight(genesis, duration, later)
		if h2 < h1 {
			t.Fatalf("height decreased from %d to %d", h1, h2)
		}
		if h1 < 1 {
			t.Fatalf("height %d below 1", h1)
		}

		start := EpochStart(genesis, duration, h1)
		if CurrentHeight(genesis, duration, start) != h1 {
			t.Fatalf("epoch %d does not contain its own start", h1)
		}
		if CurrentHeight(genesis, duration, EpochEnd(genesis, duration, h1)) != h1+1 {
			t.Fatalf("epoch after %d does not start at its end", h1)
		}
	})
}
