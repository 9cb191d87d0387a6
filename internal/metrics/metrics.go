package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Session lifecycle events.
const (
	SessionStarted   = "started"
	SessionResumed   = "resumed"
	SessionFinalized = "finalized"
	SessionTimedOut  = "timed_out"
	SessionDiscarded = "discarded"
)

// Metrics groups the client's prometheus collectors. A nil *Metrics is valid
// and records nothing, so components can take it optionally.
type Metrics struct {
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	sessions     *prometheus.CounterVec
	checkpoints  prometheus.Counter
}

// New creates and registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "triviago",
			Name:      "http_requests_total",
			Help:      "Outbound HTTP calls by method and outcome.",
		}, []string{"method", "outcome"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "triviago",
			Name:      "http_request_duration_seconds",
			Help:      "Outbound HTTP call latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		sessions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "triviago",
			Name:      "quiz_sessions_total",
			Help:      "Quiz session lifecycle events.",
		}, []string{"event"}),
		checkpoints: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "triviago",
			Name:      "quiz_checkpoints_total",
			Help:      "Quiz session snapshots written to storage.",
		}),
	}
	reg.MustRegister(m.httpRequests, m.httpDuration, m.sessions, m.checkpoints)
	return m
}

// ObserveRequest records one outbound call. outcome is "ok" or "error".
func (m *Metrics) ObserveRequest(method, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, outcome).Inc()
	m.httpDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

func (m *Metrics) SessionEvent(event string) {
	if m == nil {
		return
	}
	m.sessions.WithLabelValues(event).Inc()
}

func (m *Metrics) Checkpoint() {
	if m == nil {
		return
	}
	m.checkpoints.Inc()
}
