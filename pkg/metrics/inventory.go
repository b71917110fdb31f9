package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels.
const (
	OutcomeCommitted  = "committed"
	OutcomeRejected   = "rejected"    // validation or business rule, nothing written
	OutcomeRolledBack = "rolled_back" // failed inside the transaction
)

// InventoryMetrics records engine outcomes. A nil receiver is a no-op.
type InventoryMetrics struct {
	operations *prometheus.CounterVec
	commit     *prometheus.HistogramVec
}

// NewInventoryMetrics registers the engine metrics on reg. A nil registerer yields a no-op recorder.
func NewInventoryMetrics(reg prometheus.Registerer) *InventoryMetrics {
	if reg == nil {
		return &InventoryMetrics{}
	}
	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_operations_total",
		Help: "Inventory engine operations by outcome.",
	}, []string{"op", "outcome"})
	commit := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "inventory_commit_seconds",
		Help:    "Time spent inside the store transaction.",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})
	reg.MustRegister(operations, commit)
	return &InventoryMetrics{operations: operations, commit: commit}
}

// Inc counts one operation with its outcome.
func (m *InventoryMetrics) Inc(op, outcome string) {
	if m == nil || m.operations == nil {
		return
	}
	m.operations.WithLabelValues(normalizeLabel(op), normalizeLabel(outcome)).Inc()
}

// ObserveCommit records how long the transaction stayed open.
func (m *InventoryMetrics) ObserveCommit(op string, d time.Duration) {
	if m == nil || m.commit == nil {
		return
	}
	m.commit.WithLabelValues(normalizeLabel(op)).Observe(d.Seconds())
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
