package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/droplets-system/epoch/module"
)

type ProtocolCollector struct {
	commits        prometheus.Counter
	reveals        prometheus.Counter
	epochsCreated  prometheus.Counter
	epochsFinal    prometheus.Counter
	epochOracles   prometheus.Gauge
	epochReveals   prometheus.Gauge
	finalizedEpoch prometheus.Gauge
	currentEpoch   prometheus.Gauge
	rejected       *prometheus.CounterVec
	duration       *prometheus.HistogramVec
}

var _ module.ProtocolMetrics = (*ProtocolCollector)(nil)

func NewProtocolCollector(registerer prometheus.Registerer) *ProtocolCollector {
	factory := promauto.With(registerer)

	pc := &ProtocolCollector{
		commits: factory.NewCounter(prometheus.CounterOpts{
			Name:      "commits_accepted_total",
			Namespace: namespaceDrops,
			Subsystem: subsystemProtocol,
			Help:      "the number of commits persisted",
		}),
		reveals: factory.NewCounter(prometheus.CounterOpts{
			Name:      "reveals_accepted_total",
			Namespace: namespaceDrops,
			Subsystem: subsystemProtocol,
			Help:      "the number of reveals persisted",
		}),
		epochsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name:      "epochs_created_total",
			Namespace: namespaceDrops,
			Subsystem: subsystemProtocol,
			Help:      "the number of epoch records created",
		}),
		epochsFinal: factory.NewCounter(prometheus.CounterOpts{
			Name:      "epochs_finalized_total",
			Namespace: namespaceDrops,
			Subsystem: subsystemProtocol,
			Help:      "the number of epochs for which a seed was computed",
		}),
		epochOracles: factory.NewGauge(prometheus.GaugeOpts{
			Name:      "last_created_epoch_oracles",
			Namespace: namespaceDrops,
			Subsystem: subsystemProtocol,
			Help:      "the number of oracles snapshotted into the last created epoch",
		}),
		epochReveals: factory.NewGauge(prometheus.GaugeOpts{
			Name:      "last_finalized_epoch_reveals",
			Namespace: namespaceDrops,
			Subsystem: subsystemProtocol,
			Help:      "the number of reveals aggregated into the last finalized seed",
		}),
		finalizedEpoch: factory.NewGauge(prometheus.GaugeOpts{
			Name:      "last_finalized_epoch_height",
			Namespace: namespaceDrops,
			Subsystem: subsystemProtocol,
			Help:      "the height of the last finalized epoch",
		}),
		currentEpoch: factory.NewGauge(prometheus.GaugeOpts{
			Name:      "current_epoch_height",
			Namespace: namespaceDrops,
			Subsystem: subsystemProtocol,
			Help:      "the current epoch height as last observed by an action",
		}),
		rejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name:      "actions_rejected_total",
			Namespace: namespaceDrops,
			Subsystem: subsystemProtocol,
			Help:      "the number of actions rejected, by action and reason",
		}, []string{LabelAction, LabelReason}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:      "action_duration_seconds",
			Namespace: namespaceDrops,
			Subsystem: subsystemProtocol,
			Help:      "the duration of actions including the storage commit",
			Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1},
		}, []string{LabelAction}),
	}

	return pc
}

func (pc *ProtocolCollector) CommitAccepted() {
	pc.commits.Inc()
}

func (pc *ProtocolCollector) RevealAccepted() {
	pc.reveals.Inc()
}

func (pc *ProtocolCollector) EpochCreated(height uint64, oracles int) {
	pc.epochsCreated.Inc()
	pc.epochOracles.Set(float64(oracles))
	pc.currentEpoch.Set(float64(height))
}

func (pc *ProtocolCollector) EpochFinalized(height uint64, reveals int) {
	pc.epochsFinal.Inc()
	pc.epochReveals.Set(float64(reveals))
	pc.finalizedEpoch.Set(float64(height))
}

func (pc *ProtocolCollector) CurrentEpochHeight(height uint64) {
	pc.currentEpoch.Set(float64(height))
}

func (pc *ProtocolCollector) ActionRejected(action string, reason string) {
	pc.rejected.With(prometheus.Labels{LabelAction: action, LabelReason: reason}).Inc()
}

func (pc *ProtocolCollector) ActionDuration(action string, duration time.Duration) {
	pc.duration.With(prometheus.Labels{LabelAction: action}).Observe(duration.Seconds())
}
