// Package metrics provides Prometheus-based metrics collection for wifiscout
// survey operations: scan cycles, connection attempts and device discovery.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const (
	// Namespace for all wifiscout metrics
	namespace = "wifiscout"

	// Subsystems
	subsystemScan      = "scan"
	subsystemConnect   = "connect"
	subsystemDiscovery = "discovery"
)

// Recorder is the interface engine components record through. It allows the
// CLI to run with a no-op recorder when metrics are disabled.
type Recorder interface {
	ScanCycle(networksFound, skippedRecords int, duration time.Duration)
	Attempt(outcome string, duration time.Duration)
	PingResult(success bool)
	DiscoveryMethod(method, result string)
	DevicesDiscovered(method string, count int)
}

// Ensure implementations satisfy Recorder.
var (
	_ Recorder = (*PrometheusRecorder)(nil)
	_ Recorder = NoopRecorder{}
)

// NoopRecorder discards all measurements.
type NoopRecorder struct{}

func (NoopRecorder) ScanCycle(int, int, time.Duration) {}
func (NoopRecorder) Attempt(string, time.Duration)     {}
func (NoopRecorder) PingResult(bool)                   {}
func (NoopRecorder) DiscoveryMethod(string, string)    {}
func (NoopRecorder) DevicesDiscovered(string, int)     {}

// PrometheusRecorder holds all Prometheus metric collectors.
type PrometheusRecorder struct {
	scanCycles     prometheus.Counter
	scanDuration   prometheus.Histogram
	networksFound  prometheus.Counter
	recordsSkipped prometheus.Counter

	attemptsTotal   *prometheus.CounterVec
	attemptDuration prometheus.Histogram
	pingResults     *prometheus.CounterVec

	methodRuns      *prometheus.CounterVec
	devicesObserved *prometheus.CounterVec

	registry *prometheus.Registry
}

// NewPrometheusRecorder creates a recorder with all collectors registered on
// a private registry.
func NewPrometheusRecorder() *PrometheusRecorder {
	registry := prometheus.NewRegistry()

	r := &PrometheusRecorder{
		scanCycles: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystemScan,
			Name:      "cycles_total",
			Help:      "Total number of completed scan cycles",
		}),
		scanDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystemScan,
			Name:      "cycle_duration_seconds",
			Help:      "Duration of scan-parse-report cycles",
			Buckets:   prometheus.DefBuckets,
		}),
		networksFound: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystemScan,
			Name:      "networks_found_total",
			Help:      "Total networks parsed from scan output",
		}),
		recordsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystemScan,
			Name:      "records_skipped_total",
			Help:      "Total malformed records skipped by the parser",
		}),
		attemptsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystemConnect,
			Name:      "attempts_total",
			Help:      "Connection attempts by outcome",
		}, []string{"outcome"}),
		attemptDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystemConnect,
			Name:      "attempt_duration_seconds",
			Help:      "Duration of full connect-lease-ping-disconnect attempts",
			Buckets:   []float64{1, 5, 10, 15, 30, 60, 120},
		}),
		pingResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystemConnect,
			Name:      "ping_results_total",
			Help:      "Ping validation results by success",
		}, []string{"success"}),
		methodRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystemDiscovery,
			Name:      "method_runs_total",
			Help:      "Discovery method executions by method and result",
		}, []string{"method", "result"}),
		devicesObserved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystemDiscovery,
			Name:      "devices_observed_total",
			Help:      "Devices yielded per discovery method",
		}, []string{"method"}),
		registry: registry,
	}

	registry.MustRegister(
		r.scanCycles, r.scanDuration, r.networksFound, r.recordsSkipped,
		r.attemptsTotal, r.attemptDuration, r.pingResults,
		r.methodRuns, r.devicesObserved,
	)
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return r
}

// Registry exposes the underlying registry for scraping or test assertions.
func (r *PrometheusRecorder) Registry() *prometheus.Registry {
	return r.registry
}

// ScanCycle records one completed scan-parse cycle.
func (r *PrometheusRecorder) ScanCycle(networksFound, skippedRecords int, duration time.Duration) {
	r.scanCycles.Inc()
	r.scanDuration.Observe(duration.Seconds())
	r.networksFound.Add(float64(networksFound))
	r.recordsSkipped.Add(float64(skippedRecords))
}

// Attempt records one connection attempt outcome.
func (r *PrometheusRecorder) Attempt(outcome string, duration time.Duration) {
	r.attemptsTotal.WithLabelValues(outcome).Inc()
	r.attemptDuration.Observe(duration.Seconds())
}

// PingResult records one ping validation result.
func (r *PrometheusRecorder) PingResult(success bool) {
	label := "false"
	if success {
		label = "true"
	}
	r.pingResults.WithLabelValues(label).Inc()
}

// DiscoveryMethod records one discovery method run.
func (r *PrometheusRecorder) DiscoveryMethod(method, result string) {
	r.methodRuns.WithLabelValues(method, result).Inc()
}

// DevicesDiscovered records how many devices a method yielded.
func (r *PrometheusRecorder) DevicesDiscovered(method string, count int) {
	r.devicesObserved.WithLabelValues(method).Add(float64(count))
}
