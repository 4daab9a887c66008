package testhelpers

import (
	"github.com/mendelcore/go-admin-client/mdcomponents"
	"github.com/mendelcore/go-admin-client/subsystems"
)

// SimpleClientContext is a reference implementation of subsystems.ClientContext for test code.
//
// MendelClient uses the ClientContext interface to pass its configuration to components such as a
// custom FreshnessPolicy. SimpleClientContext may be useful for external code to test such a component
// without creating a client.
type SimpleClientContext struct {
	baseURL string
	http    *subsystems.HTTPConfiguration
	logging *subsystems.LoggingConfiguration
	metrics subsystems.MetricsRecorder
}

// NewSimpleClientContext creates a SimpleClientContext instance, with a standard HTTP configuration
// and a disabled logging configuration.
func NewSimpleClientContext(baseURL string) SimpleClientContext {
	return SimpleClientContext{baseURL: baseURL}
}

func (s SimpleClientContext) GetBaseURL() string { return s.baseURL } //nolint:revive

func (s SimpleClientContext) GetHTTP() subsystems.HTTPConfiguration { //nolint:revive
	if s.http != nil {
		return *s.http
	}
	c, _ := mdcomponents.HTTPConfiguration().Build(s)
	return c
}

func (s SimpleClientContext) GetLogging() subsystems.LoggingConfiguration { //nolint:revive
	if s.logging != nil {
		return *s.logging
	}
	c, _ := mdcomponents.NoLogging().Build(s)
	return c
}

func (s SimpleClientContext) GetMetrics() subsystems.MetricsRecorder { //nolint:revive
	if s.metrics != nil {
		return s.metrics
	}
	return subsystems.NoMetrics{}
}

// WithHTTP returns a new SimpleClientContext based on the original one, but adding the specified
// HTTP configuration.
func (s SimpleClientContext) WithHTTP(httpConfig *mdcomponents.HTTPConfigurationBuilder) SimpleClientContext {
	c, _ := httpConfig.Build(s)
	ret := s
	ret.http = &c
	return ret
}

// WithLogging returns a new SimpleClientContext based on the original one, but adding the specified
// logging configuration.
func (s SimpleClientContext) WithLogging(loggingConfig *mdcomponents.LoggingConfigurationBuilder) SimpleClientContext {
	c, _ := loggingConfig.Build(s)
	ret := s
	ret.logging = &c
	return ret
}

// WithMetrics returns a new SimpleClientContext based on the original one, but using the specified
// metrics recorder.
func (s SimpleClientContext) WithMetrics(metrics subsystems.MetricsRecorder) SimpleClientContext {
	ret := s
	ret.metrics = metrics
	return ret
}
