package module

import (
	"time"
)

// CacheMetrics reports the effectiveness of storage caches.
type CacheMetrics interface {
	// CacheEntries report the total number of cached items
	CacheEntries(resource string, entries uint)
	// CacheHit report the number of times the queried item is found in the cache
	CacheHit(resource string)
	// CacheNotFound records the number of times the queried item was not found in either cache or database.
	CacheNotFound(resource string)
	// CacheMiss report the number of times the queried item is not found in the cache, but found in the database.
	CacheMiss(resource string)
}

// ProtocolMetrics tracks the commit-reveal protocol.
type ProtocolMetrics interface {
	// CommitAccepted is called when a commit was persisted.
	CommitAccepted()
	// RevealAccepted is called when a reveal was persisted.
	RevealAccepted()
	// EpochCreated is called when a new epoch record was created, lazily or on demand.
	EpochCreated(height uint64, oracles int)
	// EpochFinalized is called when an epoch's seed was computed.
	EpochFinalized(height uint64, reveals int)
	// CurrentEpochHeight reports the latest epoch height observed by an action.
	CurrentEpochHeight(height uint64)
	// ActionRejected is called when an action failed with a caller-correctable error.
	ActionRejected(action string, reason string)
	// ActionDuration reports how long an action took, including storage commit.
	ActionDuration(action string, duration time.Duration)
}

// RestMetrics tracks the HTTP API.
type RestMetrics interface {
	// ObserveHTTPRequest records the duration of a served request.
	ObserveHTTPRequest(route string, method string, code int, duration time.Duration)
}

// DropsMetrics combines all metrics of the service.
type DropsMetrics interface {
	CacheMetrics
	ProtocolMetrics
	RestMetrics
}
