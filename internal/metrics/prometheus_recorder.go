// Package metrics contains the Prometheus implementation of subsystems.MetricsRecorder.
//
// This package is internal and its API may change at any time.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// DefaultNamespace is the metric namespace used when none is configured.
const DefaultNamespace = "mendel_client"

// PrometheusRecorder records request counts, request latencies and cache hits as Prometheus metrics.
//
// Metrics:
//
//	<ns>_requests_total{kind,operation,outcome}
//	<ns>_request_duration_seconds{kind,operation}
//	<ns>_cache_hits_total{kind,cache}
type PrometheusRecorder struct {
	requests  *prometheus.CounterVec
	durations *prometheus.HistogramVec
	cacheHits *prometheus.CounterVec
}

// NewPrometheusRecorder creates the collectors and registers them with reg. If collectors with the same
// names are already registered, as happens when several clients share a registry, the existing ones are
// used.
func NewPrometheusRecorder(reg prometheus.Registerer, namespace string) (*PrometheusRecorder, error) {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "requests_total",
		Help:      "Requests made to the Mendel API.",
	}, []string{"kind", "operation", "outcome"})
	durations := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "request_duration_seconds",
		Help:      "Latency of requests made to the Mendel API.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"kind", "operation"})
	cacheHits := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_hits_total",
		Help:      "Requests avoided because cached data was used.",
	}, []string{"kind", "cache"})

	var err error
	if requests, err = register(reg, requests); err != nil {
		return nil, err
	}
	if durations, err = register(reg, durations); err != nil {
		return nil, err
	}
	if cacheHits, err = register(reg, cacheHits); err != nil {
		return nil, err
	}
	return &PrometheusRecorder{requests: requests, durations: durations, cacheHits: cacheHits}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordRequest implements subsystems.MetricsRecorder.
func (r *PrometheusRecorder) RecordRequest(kind, operation, outcome string, duration time.Duration) {
	r.requests.WithLabelValues(kind, operation, outcome).Inc()
	r.durations.WithLabelValues(kind, operation).Observe(duration.Seconds())
}

// RecordCacheHit implements subsystems.MetricsRecorder.
func (r *PrometheusRecorder) RecordCacheHit(kind, cache string) {
	r.cacheHits.WithLabelValues(kind, cache).Inc()
}
