package metrics

import (
	"time"

	"github.com/droplets-system/epoch/module"
)

type NoopCollector struct{}

var _ module.DropsMetrics = (*NoopCollector)(nil)

func NewNoopCollector() *NoopCollector {
	nc := &NoopCollector{}
	return nc
}

func (nc *NoopCollector) CacheEntries(resource string, entries uint)                         {}
func (nc *NoopCollector) CacheHit(resource string)                                           {}
func (nc *NoopCollector) CacheNotFound(resource string)                                      {}
func (nc *NoopCollector) CacheMiss(resource string)                                          {}
func (nc *NoopCollector) CommitAccepted()                                                    {}
func (nc *NoopCollector) RevealAccepted()                                                    {}
func (nc *NoopCollector) EpochCreated(height uint64, oracles int)                            {}
func (nc *NoopCollector) EpochFinalized(height uint64, reveals int)                          {}
func (nc *NoopCollector) CurrentEpochHeight(height uint64)                                   {}
func (nc *NoopCollector) ActionRejected(action string, reason string)                        {}
func (nc *NoopCollector) ActionDuration(action string, duration time.Duration)               {}
func (nc *NoopCollector) ObserveHTTPRequest(route, method string, code int, d time.Duration) {}
