package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.Decisions.WithLabelValues("needs_sync").Inc()
	m.Decisions.WithLabelValues("needs_sync").Inc()
	m.FingerprintFailures.WithLabelValues("digest_unavailable").Inc()
	m.ReferenceRepairs.WithLabelValues("default_payment_account").Inc()
	m.MarkedSynced.Inc()
	m.FingerprintDuration.Observe(0.0002)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Decisions.WithLabelValues("needs_sync")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FingerprintFailures.WithLabelValues("digest_unavailable")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ReferenceRepairs.WithLabelValues("default_payment_account")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MarkedSynced))

	count, err := testutil.GatherAndCount(reg, "jobsync_fingerprint_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestNewTwiceOnSameRegistryPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) })
}

func TestDiscardIsIndependent(t *testing.T) {
	a := Discard()
	b := Discard()
	a.MarkedSynced.Inc()
	assert.Equal(t, 0.0, testutil.ToFloat64(b.MarkedSynced))
}

func TestWriteTextfile(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.Decisions.WithLabelValues("no_change").Add(3)

	path := filepath.Join(t.TempDir(), "jobsync.prom")
	require.NoError(t, WriteTextfile(path, reg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `jobsync_plan_decisions_total{status="no_change"} 3`)
}
