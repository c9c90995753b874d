package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	r := NewPrometheusRecorder()

	r.ScanCycle(12, 2, 3*time.Second)
	r.ScanCycle(8, 0, 2*time.Second)

	r.Attempt("success", 20*time.Second)
	r.Attempt("failure", 16*time.Second)
	r.Attempt("failure", 5*time.Second)

	r.PingResult(true)
	r.PingResult(false)

	r.DiscoveryMethod("arp-table", "empty")
	r.DiscoveryMethod("arp-scan", "success")
	r.DevicesDiscovered("arp-scan", 7)

	assert.InDelta(t, 2, testutil.ToFloat64(r.scanCycles), 1e-9)
	assert.InDelta(t, 20, testutil.ToFloat64(r.networksFound), 1e-9)
	assert.InDelta(t, 2, testutil.ToFloat64(r.recordsSkipped), 1e-9)

	assert.InDelta(t, 1, testutil.ToFloat64(r.attemptsTotal.WithLabelValues("success")), 1e-9)
	assert.InDelta(t, 2, testutil.ToFloat64(r.attemptsTotal.WithLabelValues("failure")), 1e-9)

	assert.InDelta(t, 1, testutil.ToFloat64(r.pingResults.WithLabelValues("true")), 1e-9)
	assert.InDelta(t, 1, testutil.ToFloat64(r.pingResults.WithLabelValues("false")), 1e-9)

	assert.InDelta(t, 1, testutil.ToFloat64(r.methodRuns.WithLabelValues("arp-scan", "success")), 1e-9)
	assert.InDelta(t, 7, testutil.ToFloat64(r.devicesObserved.WithLabelValues("arp-scan")), 1e-9)
}

func TestPrivateRegistry(t *testing.T) {
	// Two recorders must never collide; each owns its registry.
	a := NewPrometheusRecorder()
	b := NewPrometheusRecorder()

	a.ScanCycle(5, 0, time.Second)

	assert.NotSame(t, a.Registry(), b.Registry())
	assert.InDelta(t, 0, testutil.ToFloat64(b.scanCycles), 1e-9)

	families, err := a.Registry().Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}

	// All measurements are discarded without panicking.
	r.ScanCycle(1, 0, time.Second)
	r.Attempt("success", time.Second)
	r.PingResult(true)
	r.DiscoveryMethod("arp-table", "success")
	r.DevicesDiscovered("arp-table", 3)
}
