// Package clock provides the wall clocks the engine reads the current time
// from.
package clock

import (
	"time"

	"go.uber.org/atomic"

	"github.com/droplets-system/epoch/module"
)

// System reads the operating system clock.
type System struct{}

var _ module.Clock = System{}

func (System) Now() time.Time {
	return time.Now().UTC()
}

// Mock is a clock that only moves when told to. It is safe for concurrent use.
type Mock struct {
	now *atomic.Time
}

var _ module.Clock = (*Mock)(nil)

func NewMock(now time.Time) *Mock {
	return &Mock{now: atomic.NewTime(now.UTC())}
}

func (m *Mock) Now() time.Time {
	return m.now.Load()
}

// Set moves the clock to t.
func (m *Mock) Set(t time.Time) {
	m.now.Store(t.UTC())
}

// Add moves the clock forward by d.
func (m *Mock) Add(d time.Duration) {
	m.now.Store(m.now.Load().Add(d))
}
