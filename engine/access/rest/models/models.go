// Package models holds the JSON representations of the REST API.
package models

import (
	"strconv"
	"time"

	"github.com/droplets-system/epoch/model/drops"
	"github.com/droplets-system/epoch/state/protocol/clock"
)

type Epoch struct {
	Height    string   `json:"height"`
	Start     string   `json:"start"`
	End       string   `json:"end"`
	Oracles   []string `json:"oracles"`
	Completed bool     `json:"completed"`
	Seed      string   `json:"seed"`
}

// Build fills the epoch from its record. The bounds are computed from the
// current state, so they move if the duration is changed afterwards.
func (e *Epoch) Build(epoch *drops.Epoch, state *drops.State) {
	e.Height = fromUint64(epoch.Height)
	e.Start = clock.EpochStart(state.Genesis, state.Duration, epoch.Height).Format(time.RFC3339)
	e.End = clock.EpochEnd(state.Genesis, state.Duration, epoch.Height).Format(time.RFC3339)
	e.Oracles = epoch.Oracles.Strings()
	if e.Oracles == nil {
		e.Oracles = []string{}
	}
	e.Completed = epoch.Completed
	e.Seed = epoch.Seed.String()
}

type CurrentEpoch struct {
	Height  string   `json:"height"`
	Oracles []string `json:"oracles"`
}

type Commit struct {
	Id     string `json:"id"`
	Epoch  string `json:"epoch"`
	Oracle string `json:"oracle"`
	Commit string `json:"commit"`
}

func (c *Commit) Build(commit *drops.Commit) {
	c.Id = fromUint64(commit.ID)
	c.Epoch = fromUint64(commit.Epoch)
	c.Oracle = commit.Oracle.String()
	c.Commit = commit.Commit.String()
}

type Reveal struct {
	Id     string `json:"id"`
	Epoch  string `json:"epoch"`
	Oracle string `json:"oracle"`
	Reveal string `json:"reveal"`
}

func (r *Reveal) Build(reveal *drops.Reveal) {
	r.Id = fromUint64(reveal.ID)
	r.Epoch = fromUint64(reveal.Epoch)
	r.Oracle = reveal.Oracle.String()
	r.Reveal = reveal.Reveal
}

type RevealResult struct {
	Reveal    Reveal `json:"reveal"`
	Finalized bool   `json:"finalized"`
	Seed      string `json:"seed,omitempty"`
}

type State struct {
	Genesis  string `json:"genesis"`
	Duration uint32 `json:"duration"`
	Enabled  bool   `json:"enabled"`
}

func (s *State) Build(state *drops.State) {
	s.Genesis = state.Genesis.UTC().Format(time.RFC3339)
	s.Duration = state.Duration
	s.Enabled = state.Enabled
}

func fromUint64(number uint64) string {
	return strconv.FormatUint(number, 10)
}
