// Package metrics collects sync run statistics with prometheus.
//
// A nil *Metrics is valid and collects nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "solsync"

// Outcome label values
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Metrics for sync runs
type Metrics struct {
	registry      *prometheus.Registry
	cycles        *prometheus.CounterVec
	cycleDuration *prometheus.HistogramVec
	toolRuns      *prometheus.CounterVec
	importPolls   prometheus.Counter
}

// New set of metrics, registered on a private registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		cycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cycles_total",
			Help:      "Number of bundle sync cycles, by mode and outcome.",
		}, []string{"mode", "outcome"}),
		cycleDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cycle_duration_seconds",
			Help:      "Duration of bundle sync cycles.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}, []string{"mode"}),
		toolRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tool_runs_total",
			Help:      "Number of packaging tool runs, by action and outcome.",
		}, []string{"action", "outcome"}),
		importPolls: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "import_polls_total",
			Help:      "Number of import job status queries.",
		}),
	}
	m.registry.MustRegister(m.cycles, m.cycleDuration, m.toolRuns, m.importPolls)
	return m
}

func outcome(err error) string {
	if err != nil {
		return OutcomeFailure
	}
	return OutcomeSuccess
}

// CycleDone records a completed cycle
func (m *Metrics) CycleDone(mode string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.cycles.WithLabelValues(mode, outcome(err)).Inc()
	m.cycleDuration.WithLabelValues(mode).Observe(elapsed.Seconds())
}

// ToolRun records a packaging tool run
func (m *Metrics) ToolRun(action string, err error) {
	if m == nil {
		return
	}
	m.toolRuns.WithLabelValues(action, outcome(err)).Inc()
}

// ImportPoll records a job status query
func (m *Metrics) ImportPoll() {
	if m == nil {
		return
	}
	m.importPolls.Inc()
}

// Registry exposes the underlying registry, e.g. to dump it for the node exporter textfile collector
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}
