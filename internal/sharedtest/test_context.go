package sharedtest

import (
	"github.com/mendelcore/go-admin-client/subsystems"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
)

// NewSimpleTestContext returns a basic implementation of subsystems.ClientContext for use in test code.
func NewSimpleTestContext(baseURL string) subsystems.BasicClientContext {
	return NewTestContext(baseURL, nil, nil)
}

// NewTestContext returns a basic implementation of subsystems.ClientContext for use in test code.
func NewTestContext(
	baseURL string,
	optHTTPConfig *subsystems.HTTPConfiguration,
	optLoggingConfig *subsystems.LoggingConfiguration,
) subsystems.BasicClientContext {
	ret := subsystems.BasicClientContext{BaseURL: baseURL}
	if optHTTPConfig != nil {
		ret.HTTP = *optHTTPConfig
	}
	if optLoggingConfig != nil {
		ret.Logging = *optLoggingConfig
	} else {
		ret.Logging = TestLoggingConfig()
	}
	return ret
}

// NewTestContextWithLoggers is NewTestContext with captured loggers, typically from
// ldlogtest.NewMockLog().
func NewTestContextWithLoggers(baseURL string, loggers ldlog.Loggers) subsystems.BasicClientContext {
	return NewTestContext(baseURL, nil, &subsystems.LoggingConfiguration{Loggers: loggers})
}

// TestLoggingConfig returns a LoggingConfiguration corresponding to NewTestLoggers().
func TestLoggingConfig() subsystems.LoggingConfiguration {
	return subsystems.LoggingConfiguration{Loggers: NewTestLoggers()}
}
