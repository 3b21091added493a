package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus implements Collector with Prometheus metrics registered on its
// own registry.
type Prometheus struct {
	spawns       *prometheus.CounterVec
	exits        *prometheus.CounterVec
	terminations *prometheus.HistogramVec
	transitions  *prometheus.CounterVec
	reapFailures *prometheus.CounterVec

	registry *prometheus.Registry
}

// NewPrometheus creates a collector under namespace ("extui" when empty).
func NewPrometheus(namespace string) *Prometheus {
	if namespace == "" {
		namespace = "extui"
	}

	p := &Prometheus{registry: prometheus.NewRegistry()}

	p.spawns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "spawn_attempts_total",
			Help:      "External UI launch attempts",
		},
		[]string{"backend", "status"},
	)
	p.exits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "child_exits_total",
			Help:      "External UI processes that exited on their own",
		},
		[]string{"backend", "code", "signaled"},
	)
	p.terminations = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "termination_duration_seconds",
			Help:      "Time taken to terminate and reap the external UI",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"backend", "escalated"},
	)
	p.transitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "state_transitions_total",
			Help:      "Lifecycle state transitions",
		},
		[]string{"from_state", "to_state"},
	)
	p.reapFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reap_failures_total",
			Help:      "Wait errors while polling the external UI",
		},
		[]string{"backend"},
	)

	p.registry.MustRegister(p.spawns, p.exits, p.terminations, p.transitions, p.reapFailures)

	return p
}

// Registry returns the registry holding the collector's metrics.
func (p *Prometheus) Registry() *prometheus.Registry {
	return p.registry
}

func (p *Prometheus) SpawnAttempt(backend string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	p.spawns.WithLabelValues(backend, status).Inc()
}

func (p *Prometheus) ChildExited(backend string, code int, signaled bool) {
	p.exits.WithLabelValues(backend, strconv.Itoa(code), strconv.FormatBool(signaled)).Inc()
}

func (p *Prometheus) ChildTerminated(backend string, duration time.Duration, escalated bool) {
	p.terminations.WithLabelValues(backend, strconv.FormatBool(escalated)).Observe(duration.Seconds())
}

func (p *Prometheus) StateTransition(from, to string) {
	p.transitions.WithLabelValues(from, to).Inc()
}

func (p *Prometheus) ReapFailure(backend string) {
	p.reapFailures.WithLabelValues(backend).Inc()
}
