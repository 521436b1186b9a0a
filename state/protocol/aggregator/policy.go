package aggregator

import (
	"fmt"
)

// CompletionPolicy decides when the reveal phase of an epoch is complete.
type CompletionPolicy string

const (
	// RevealsMatchCommits completes an epoch once every oracle which
	// committed has revealed, and at least one did.
	RevealsMatchCommits CompletionPolicy = "reveals-match-commits"

	// RevealsMatchSnapshot completes an epoch once every oracle of the
	// epoch's snapshot has revealed. An oracle which never committed blocks
	// the epoch forever.
	RevealsMatchSnapshot CompletionPolicy = "reveals-match-snapshot"

	DefaultCompletionPolicy = RevealsMatchCommits
)

// ParseCompletionPolicy parses a policy name. The empty string selects the default.
func ParseCompletionPolicy(s string) (CompletionPolicy, error) {
	switch CompletionPolicy(s) {
	case "":
		return DefaultCompletionPolicy, nil
	case RevealsMatchCommits, RevealsMatchSnapshot:
		return CompletionPolicy(s), nil
	default:
		return "", fmt.Errorf("unknown completion policy %q (expected %q or %q)", s, RevealsMatchCommits, RevealsMatchSnapshot)
	}
}

func (p CompletionPolicy) String() string {
	return string(p)
}

// complete returns whether the reveal phase is complete given the number of
// reveals, commits and snapshotted oracles of an epoch.
func (p CompletionPolicy) complete(reveals, commits uint, snapshot int) bool {
	switch p {
	case RevealsMatchSnapshot:
		return reveals > 0 && reveals == uint(snapshot)
	default:
		return commits > 0 && reveals == commits
	}
}
