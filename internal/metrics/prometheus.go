package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/arloliu/elector/types"
)

// PrometheusCollector implements types.MetricsCollector backed by Prometheus.
//
// Collectors are created and registered lazily on first use, so constructing a
// PrometheusCollector that is never used registers nothing.
type PrometheusCollector struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	leadershipChanges *prometheus.CounterVec
	isLeader          *prometheus.GaugeVec
	watchFired        *prometheus.CounterVec
	relistDuration    prometheus.Histogram
	candidates        prometheus.Gauge
	protocolErrors    *prometheus.CounterVec
	eventsDropped     prometheus.Counter
	announces         *prometheus.CounterVec
	treeOpDuration    *prometheus.HistogramVec
	treeOpResults     *prometheus.CounterVec
}

// Compile-time assertion that PrometheusCollector implements MetricsCollector.
var _ types.MetricsCollector = (*PrometheusCollector)(nil)

// NewPrometheus creates a new Prometheus-backed metrics collector.
//
// Parameters:
//   - reg: Prometheus registerer interface (uses prometheus.DefaultRegisterer if nil)
//   - namespace: Prometheus metrics namespace (defaults to "elector" if empty)
//
// Returns:
//   - *PrometheusCollector: A MetricsCollector implementation using Prometheus
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "elector"
	}

	return &PrometheusCollector{reg: reg, namespace: namespace}
}

func (p *PrometheusCollector) ensureRegistered() {
	p.once.Do(func() {
		p.leadershipChanges = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "session",
			Name:      "leadership_changes_total",
			Help:      "Total leadership flips by resulting role (leader,follower).",
		}, []string{"role"})

		p.isLeader = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "session",
			Name:      "is_leader",
			Help:      "Whether the candidate currently holds leadership (1=leader,0=follower).",
		}, []string{"candidate"})

		p.watchFired = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "session",
			Name:      "watch_fired_total",
			Help:      "Fired watches by event type and whether they were discarded during teardown.",
		}, []string{"event", "discarded"})

		p.relistDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "session",
			Name:      "relist_duration_seconds",
			Help:      "Duration of a relist, rank and re-arm cycle in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms .. ~2s
		})

		p.candidates = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "session",
			Name:      "candidates",
			Help:      "Number of live candidates observed by the last relist.",
		})

		p.protocolErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "session",
			Name:      "protocol_errors_total",
			Help:      "Protocol errors surfaced to the caller by kind.",
		}, []string{"kind"})

		p.eventsDropped = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "session",
			Name:      "events_dropped_total",
			Help:      "Subscriber notifications dropped because the subscriber was slow.",
		})

		p.announces = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "announce",
			Name:      "results_total",
			Help:      "Announcement outcomes (success,failure).",
		}, []string{"result"})

		p.treeOpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "tree",
			Name:      "operation_duration_seconds",
			Help:      "Latency of coordination tree operations in seconds.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"op"})

		p.treeOpResults = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "tree",
			Name:      "operations_total",
			Help:      "Coordination tree operations by op and result (success,failure).",
		}, []string{"op", "result"})

		p.reg.MustRegister(p.leadershipChanges)
		p.reg.MustRegister(p.isLeader)
		p.reg.MustRegister(p.watchFired)
		p.reg.MustRegister(p.relistDuration)
		p.reg.MustRegister(p.candidates)
		p.reg.MustRegister(p.protocolErrors)
		p.reg.MustRegister(p.eventsDropped)
		p.reg.MustRegister(p.announces)
		p.reg.MustRegister(p.treeOpDuration)
		p.reg.MustRegister(p.treeOpResults)
	})
}

// RecordLeadershipChange increments the flip counter and sets the per-candidate gauge.
func (p *PrometheusCollector) RecordLeadershipChange(candidateID string, leader bool) {
	p.ensureRegistered()
	if leader {
		p.leadershipChanges.WithLabelValues("leader").Inc()
		p.isLeader.WithLabelValues(candidateID).Set(1)
	} else {
		p.leadershipChanges.WithLabelValues("follower").Inc()
		p.isLeader.WithLabelValues(candidateID).Set(0)
	}
}

// RecordWatchFired counts a fired watch.
func (p *PrometheusCollector) RecordWatchFired(eventType string, discarded bool) {
	p.ensureRegistered()
	p.watchFired.WithLabelValues(eventType, strconv.FormatBool(discarded)).Inc()
}

// RecordRelist observes relist latency and the observed candidate count.
func (p *PrometheusCollector) RecordRelist(duration float64, candidates int) {
	p.ensureRegistered()
	p.relistDuration.Observe(duration)
	p.candidates.Set(float64(candidates))
}

// RecordProtocolError counts a surfaced protocol error.
func (p *PrometheusCollector) RecordProtocolError(kind string) {
	p.ensureRegistered()
	p.protocolErrors.WithLabelValues(kind).Inc()
}

// RecordEventDropped counts a dropped subscriber notification.
func (p *PrometheusCollector) RecordEventDropped() {
	p.ensureRegistered()
	p.eventsDropped.Inc()
}

// RecordAnnounce counts an announcement outcome.
func (p *PrometheusCollector) RecordAnnounce(success bool) {
	p.ensureRegistered()
	p.announces.WithLabelValues(result(success)).Inc()
}

// RecordTreeOperation observes a tree operation.
func (p *PrometheusCollector) RecordTreeOperation(operation string, duration float64, success bool) {
	p.ensureRegistered()
	p.treeOpDuration.WithLabelValues(operation).Observe(duration)
	p.treeOpResults.WithLabelValues(operation, result(success)).Inc()
}

func result(success bool) string {
	if success {
		return "success"
	}

	return "failure"
}
