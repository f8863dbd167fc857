package platform

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/on-the-ground/subscript_ive_go/subs"
)

// runtimeMetrics holds Prometheus instruments for the dispatch loop.
// Every record method tolerates a nil receiver so the loop never has to
// ask whether metrics are enabled.
type runtimeMetrics struct {
	iterations prometheus.Counter
	starts     *prometheus.CounterVec // by kind
	stops      *prometheus.CounterVec // by kind
	dispatched *prometheus.CounterVec // by kind
	dropped    *prometheus.CounterVec // by kind
	duplicates *prometheus.CounterVec // by kind
	active     *prometheus.GaugeVec   // by kind
}

// newRuntimeMetrics creates and registers the loop instruments with the
// provided registerer.
func newRuntimeMetrics(reg prometheus.Registerer) (*runtimeMetrics, error) {
	if reg == nil {
		return nil, nil // Metrics disabled
	}

	m := &runtimeMetrics{
		iterations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "subscriptive",
			Subsystem: "runtime",
			Name:      "iterations_total",
			Help:      "Total number of dispatch loop iterations",
		}),
		starts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "subscriptive",
			Subsystem: "runtime",
			Name:      "subscriptions_started_total",
			Help:      "Total number of subscriptions started",
		}, []string{"kind"}),
		stops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "subscriptive",
			Subsystem: "runtime",
			Name:      "subscriptions_stopped_total",
			Help:      "Total number of subscriptions stopped",
		}, []string{"kind"}),
		dispatched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "subscriptive",
			Subsystem: "runtime",
			Name:      "events_dispatched_total",
			Help:      "Total number of manager events mapped into messages",
		}, []string{"kind"}),
		dropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "subscriptive",
			Subsystem: "runtime",
			Name:      "events_dropped_total",
			Help:      "Total number of late events dropped for inactive keys",
		}, []string{"kind"}),
		duplicates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "subscriptive",
			Subsystem: "runtime",
			Name:      "duplicate_keys_total",
			Help:      "Total number of duplicate subscription keys within one tree",
		}, []string{"kind"}),
		active: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "subscriptive",
			Subsystem: "runtime",
			Name:      "active_subscriptions",
			Help:      "Current number of active subscriptions",
		}, []string{"kind"}),
	}

	collectors := []prometheus.Collector{
		m.iterations, m.starts, m.stops, m.dispatched, m.dropped, m.duplicates, m.active,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *runtimeMetrics) iteration() {
	if m == nil {
		return
	}
	m.iterations.Inc()
}

func (m *runtimeMetrics) recordStarts(kind subs.Kind, n int) {
	if m == nil || n == 0 {
		return
	}
	m.starts.WithLabelValues(string(kind)).Add(float64(n))
}

func (m *runtimeMetrics) recordStops(kind subs.Kind, n int) {
	if m == nil || n == 0 {
		return
	}
	m.stops.WithLabelValues(string(kind)).Add(float64(n))
}

func (m *runtimeMetrics) recordDispatched(kind subs.Kind) {
	if m == nil {
		return
	}
	m.dispatched.WithLabelValues(string(kind)).Inc()
}

func (m *runtimeMetrics) recordDropped(kind subs.Kind) {
	if m == nil {
		return
	}
	m.dropped.WithLabelValues(string(kind)).Inc()
}

func (m *runtimeMetrics) recordDuplicate(kind subs.Kind) {
	if m == nil {
		return
	}
	m.duplicates.WithLabelValues(string(kind)).Inc()
}

func (m *runtimeMetrics) setActive(kind subs.Kind, n int) {
	if m == nil {
		return
	}
	m.active.WithLabelValues(string(kind)).Set(float64(n))
}
