// Package clock maps wall-clock instants to epoch heights.
//
// Epoch h covers the half-open interval
// [genesis + (h-1)*duration, genesis + h*duration), in whole seconds.
package clock

import (
	"time"

	"github.com/droplets-system/epoch/model/drops"
)

// CurrentHeight returns the height of the epoch containing now. Instants
// before genesis belong to epoch 1. duration must be positive; a zero
// duration is treated as a single never-ending epoch.
func CurrentHeight(genesis time.Time, duration uint32, now time.Time) uint64 {
	if duration == 0 {
		return 1
	}
	elapsed := now.Unix() - genesis.Unix()
	if elapsed < 0 {
		return 1
	}
	return uint64(elapsed)/uint64(duration) + 1
}

// Height returns the height of the epoch containing now under the given state.
func Height(state *drops.State, now time.Time) uint64 {
	return CurrentHeight(state.Genesis, state.Duration, now)
}

// EpochStart returns the first instant of the epoch at height, which must be
// at least 1.
func EpochStart(genesis time.Time, duration uint32, height uint64) time.Time {
	if height == 0 {
		height = 1
	}
	return genesis.Add(time.Duration(height-1) * time.Duration(duration) * time.Second)
}

// EpochEnd returns the first instant after the epoch at height.
func EpochEnd(genesis time.Time, duration uint32, height uint64) time.Time {
	return EpochStart(genesis, duration, height+1)
}

// AlignGenesis truncates now to a multiple of duration seconds since the
// Unix epoch, so that epochs of a day start at midnight UTC.
func AlignGenesis(now time.Time, duration uint32) time.Time {
	seconds := now.Unix()
	if duration > 0 {
		seconds -= seconds % int64(duration)
	}
	return time.Unix(seconds, 0).UTC()
}
