package mdcomponents

import (
	"github.com/mendelcore/go-admin-client/internal/metrics"
	"github.com/mendelcore/go-admin-client/subsystems"

	"github.com/prometheus/client_golang/prometheus"
)

// NoMetrics returns a configuration that discards all measurements. This is the default.
func NoMetrics() subsystems.ComponentConfigurer[subsystems.MetricsRecorder] {
	return noMetricsFactory{}
}

type noMetricsFactory struct{}

func (noMetricsFactory) Build(subsystems.ClientContext) (subsystems.MetricsRecorder, error) {
	return subsystems.NoMetrics{}, nil
}

// PrometheusMetricsBuilder configures Prometheus metrics for the client.
//
//	config := mendelclient.Config{
//	    Metrics: mdcomponents.PrometheusMetrics().Registerer(myRegistry),
//	}
type PrometheusMetricsBuilder struct {
	registerer prometheus.Registerer
	namespace  string
}

// PrometheusMetrics returns a builder for Prometheus metrics. By default the collectors are registered
// with prometheus.DefaultRegisterer under the namespace "mendel_client".
func PrometheusMetrics() *PrometheusMetricsBuilder {
	return &PrometheusMetricsBuilder{registerer: prometheus.DefaultRegisterer}
}

// Registerer sets the registry that the collectors are registered with.
func (b *PrometheusMetricsBuilder) Registerer(registerer prometheus.Registerer) *PrometheusMetricsBuilder {
	if registerer != nil {
		b.registerer = registerer
	}
	return b
}

// Namespace sets the prefix of the metric names.
func (b *PrometheusMetricsBuilder) Namespace(namespace string) *PrometheusMetricsBuilder {
	b.namespace = namespace
	return b
}

// Build is called internally by the client.
func (b *PrometheusMetricsBuilder) Build(subsystems.ClientContext) (subsystems.MetricsRecorder, error) {
	recorder, err := metrics.NewPrometheusRecorder(b.registerer, b.namespace)
	if err != nil {
		return nil, err
	}
	return recorder, nil
}
