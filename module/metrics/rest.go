package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/droplets-system/epoch/module"
)

type RestCollector struct {
	requests *prometheus.HistogramVec
}

var _ module.RestMetrics = (*RestCollector)(nil)

func NewRestCollector(registerer prometheus.Registerer) *RestCollector {
	return &RestCollector{
		requests: promauto.With(registerer).NewHistogramVec(prometheus.HistogramOpts{
			Name:      "request_duration_seconds",
			Namespace: namespaceDrops,
			Subsystem: subsystemRest,
			Help:      "the duration of served HTTP requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{LabelRoute, LabelMethod, LabelCode}),
	}
}

func (rc *RestCollector) ObserveHTTPRequest(route string, method string, code int, duration time.Duration) {
	rc.requests.With(prometheus.Labels{
		LabelRoute:  route,
		LabelMethod: method,
		LabelCode:   strconv.Itoa(code),
	}).Observe(duration.Seconds())
}
