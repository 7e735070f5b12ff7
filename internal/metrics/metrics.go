// Package metrics defines the Prometheus collectors recorded by sync
// planning and reference repair.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the collectors. Create one per registry with New.
type Metrics struct {
	// Decisions counts plan outcomes by status (no_change, needs_sync, unsynced, undecided).
	Decisions *prometheus.CounterVec

	// FingerprintFailures counts digests that could not be computed, by reason
	// (validation, digest_unavailable, cancelled, store).
	FingerprintFailures *prometheus.CounterVec

	// FingerprintDuration measures canonicalize plus digest time per record.
	FingerprintDuration prometheus.Histogram

	// ReferenceRepairs counts settings fields rewritten by the sanitizer.
	ReferenceRepairs *prometheus.CounterVec

	// MarkedSynced counts records stamped as synced.
	MarkedSynced prometheus.Counter
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Decisions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "jobsync_plan_decisions_total",
			Help: "Sync plan decisions by resulting status",
		}, []string{"status"}),

		FingerprintFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "jobsync_fingerprint_failures_total",
			Help: "Fingerprint computations that left the comparison undecided",
		}, []string{"reason"}),

		FingerprintDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "jobsync_fingerprint_duration_seconds",
			Help:    "Time spent canonicalizing and digesting one record",
			Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1},
		}),

		ReferenceRepairs: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "jobsync_reference_repairs_total",
			Help: "Settings account references repaired after account changes",
		}, []string{"field"}),

		MarkedSynced: factory.NewCounter(prometheus.CounterOpts{
			Name: "jobsync_marked_synced_total",
			Help: "Records stamped with a freshly pushed fingerprint",
		}),
	}
}

// Discard returns collectors registered on a private registry, for callers
// that do not export metrics.
func Discard() *Metrics {
	return New(prometheus.NewRegistry())
}

// WriteTextfile writes everything gathered by g in the Prometheus text format,
// for pickup by a node_exporter textfile collector.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	return prometheus.WriteToTextfile(path, g)
}
