// Package telemetry exposes Prometheus metrics for the inference engine and
// the HTTP layer.
package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "spaceoverview"

// Metrics owns its registry so tests can create independent instances.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	recomputeRuns     *prometheus.CounterVec
	recomputeDuration prometheus.Histogram
	computations      prometheus.Gauge
	recomputeTriggers prometheus.Counter

	httpRequests *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		recomputeRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "recompute_runs_total",
				Help:      "Number of recompute runs by result",
			},
			[]string{"result"},
		),
		recomputeDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "recompute_duration_seconds",
				Help:      "Duration of a full recompute including load and replace",
				Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
			},
		),
		computations: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "computations",
				Help:      "Number of computations written by the last successful recompute",
			},
		),
		recomputeTriggers: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "recompute_triggers_total",
				Help:      "Number of asynchronous recompute triggers received",
			},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by method and status code",
			},
			[]string{"method", "code"},
		),
	}

	registry.MustRegister(
		m.recomputeRuns,
		m.recomputeDuration,
		m.computations,
		m.recomputeTriggers,
		m.httpRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// ObserveRecompute records one recompute run. count is ignored when err is set.
func (m *Metrics) ObserveRecompute(d time.Duration, count int, err error) {
	if m == nil {
		return
	}
	m.recomputeDuration.Observe(d.Seconds())
	if err != nil {
		m.recomputeRuns.WithLabelValues("error").Inc()
		return
	}
	m.recomputeRuns.WithLabelValues("ok").Inc()
	m.computations.Set(float64(count))
}

func (m *Metrics) ObserveTrigger() {
	if m == nil {
		return
	}
	m.recomputeTriggers.Inc()
}

func (m *Metrics) ObserveRequest(method string, status int) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
