// Package metrics exports session activity as Prometheus collectors.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/routes64/pkg/domain"
)

// Recorder turns the stream of session snapshots into counters and gauges.
type Recorder struct {
	registry *prometheus.Registry

	nodeVisits       *prometheus.CounterVec
	phaseTransitions *prometheus.CounterVec
	endings          *prometheus.CounterVec
	sessions         prometheus.Counter
	notices          *prometheus.CounterVec
	depth            prometheus.Gauge

	mu   sync.Mutex
	prev *domain.Snapshot
}

// NewRecorder creates a Recorder with its own registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		nodeVisits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "routes64_node_visits_total",
			Help: "Total number of node visits",
		}, []string{"node_id"}),
		phaseTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "routes64_phase_transitions_total",
			Help: "Session phase changes",
		}, []string{"from", "to"}),
		endings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "routes64_endings_total",
			Help: "Endings reached, by tag",
		}, []string{"tag"}),
		sessions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "routes64_sessions_started_total",
			Help: "Sessions started or resumed",
		}),
		notices: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "routes64_notices_total",
			Help: "Non-fatal problems reported to the player",
		}, []string{"notice"}),
		depth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "routes64_current_depth",
			Help: "Depth of the active traversal state",
		}),
	}
	r.registry.MustRegister(r.nodeVisits, r.phaseTransitions, r.endings, r.sessions, r.notices, r.depth)
	return r
}

// Registry returns the registry the collectors live in.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Observe records snap. It is meant to be passed to session.Controller.Subscribe.
func (r *Recorder) Observe(snap domain.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	diff := domain.Diff(r.prev, &snap)
	r.prev = &snap

	if snap.Notice != "" {
		r.notices.WithLabelValues(snap.Notice).Inc()
	}
	if snap.State != nil {
		r.depth.Set(float64(snap.State.Depth))
	} else {
		r.depth.Set(0)
	}
	if diff.IsEmpty() {
		return
	}

	if diff.SessionStarted {
		r.sessions.Inc()
	}
	for _, id := range diff.Visited {
		r.nodeVisits.WithLabelValues(id).Inc()
	}
	if diff.PhaseChanged && diff.From != "" {
		r.phaseTransitions.WithLabelValues(string(diff.From), string(diff.To)).Inc()
	}
	if diff.PhaseChanged && diff.To == domain.PhaseEnding && snap.View != nil {
		r.endings.WithLabelValues(snap.View.EndingTag).Inc()
	}
}
