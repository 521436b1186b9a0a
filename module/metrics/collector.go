package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/droplets-system/epoch/module"
)

// Collector implements module.DropsMetrics with prometheus metrics
// registered on a single registerer.
type Collector struct {
	*CacheCollector
	*ProtocolCollector
	*RestCollector
}

var _ module.DropsMetrics = (*Collector)(nil)

// NewCollector registers all metrics of the service. It panics if any
// metric is already registered, so it must be called once per registerer.
func NewCollector(registerer prometheus.Registerer) *Collector {
	return &Collector{
		CacheCollector:    NewCacheCollector(registerer),
		ProtocolCollector: NewProtocolCollector(registerer),
		RestCollector:     NewRestCollector(registerer),
	}
}
