package swarm

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is an optional Prometheus instrumentation sink. A nil
// *Metrics is safe to call methods on: every method is a no-op when
// the receiver or its underlying collector is nil, so wiring metrics
// in is opt-in and never required to run a swarm.
type Metrics struct {
	pumpIterations  prometheus.Counter
	toolCallSeconds prometheus.Histogram
}

// NewMetrics registers and returns a Metrics instance against the
// given registerer. Pass prometheus.DefaultRegisterer for the global
// registry, or a fresh prometheus.NewRegistry() in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		pumpIterations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "swarm_pump_iterations_total",
			Help: "Total number of task pump loop iterations across all tasks.",
		}),
		toolCallSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name: "swarm_tool_call_duration_seconds",
			Help: "Duration of individual tool calls made during an agent's tool-call loop.",
		}),
	}
	reg.MustRegister(m.pumpIterations, m.toolCallSeconds)
	return m
}

// ObservePumpIteration records one task pump loop iteration.
func (m *Metrics) ObservePumpIteration() {
	if m == nil || m.pumpIterations == nil {
		return
	}
	m.pumpIterations.Inc()
}

// ObserveToolCall records the wall-clock duration of a single tool
// call.
func (m *Metrics) ObserveToolCall(d time.Duration) {
	if m == nil || m.toolCallSeconds == nil {
		return
	}
	m.toolCallSeconds.Observe(d.Seconds())
}
