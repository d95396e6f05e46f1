package exec

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics instruments remote statement execution. One instance is
// shared by every scanner and modifier built from the same bridge.
type Metrics struct {
	executeDuration *prometheus.HistogramVec
	executeFailures *prometheus.CounterVec
}

// NewMetrics registers and returns the execution metrics.
func NewMetrics(r prometheus.Registerer) *Metrics {
	return &Metrics{
		executeDuration: promauto.With(r).NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "cassandra_fdw",
			Name:      "remote_execute_duration_seconds",
			Help:      "Time spent executing statements against Cassandra.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		executeFailures: promauto.With(r).NewCounterVec(prometheus.CounterOpts{
			Namespace: "cassandra_fdw",
			Name:      "remote_execute_failures_total",
			Help:      "Statements that came back from Cassandra with an error.",
		}, []string{"operation"}),
	}
}

func (m *Metrics) observe(op Op, seconds float64) {
	if m == nil {
		return
	}
	m.executeDuration.WithLabelValues(string(op)).Observe(seconds)
}

func (m *Metrics) failure(op Op) {
	if m == nil {
		return
	}
	m.executeFailures.WithLabelValues(string(op)).Inc()
}
