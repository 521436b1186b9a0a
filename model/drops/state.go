package drops

import (
	"time"
)

// DefaultDuration is the epoch duration in seconds before an administrator
// configures one: one day.
const DefaultDuration uint32 = 86400

// State is the singleton system configuration.
type State struct {
	// Genesis is the instant at which epoch 1 starts. It is aligned to a
	// duration boundary when the protocol is initialized.
	Genesis time.Time
	// Duration is the epoch length in seconds.
	Duration uint32
	Enabled  bool
}

// DefaultState returns the state in effect before any administrative action.
func DefaultState() State {
	return State{
		Duration: DefaultDuration,
	}
}
