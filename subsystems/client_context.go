package subsystems

import (
	"net/http"
)

// ClientContext provides context information from MendelClient when creating other components.
//
// This is passed as a parameter to the Build methods of component configurers. For test purposes you
// may use the simple struct type BasicClientContext.
type ClientContext interface {
	// GetBaseURL returns the base URL of the Mendel API, without a trailing slash.
	GetBaseURL() string

	// GetHTTP returns the configured HTTPConfiguration.
	GetHTTP() HTTPConfiguration

	// GetLogging returns the configured LoggingConfiguration.
	GetLogging() LoggingConfiguration

	// GetMetrics returns the configured metrics recorder. It is never nil.
	GetMetrics() MetricsRecorder
}

// BasicClientContext is the basic implementation of the ClientContext interface.
type BasicClientContext struct {
	BaseURL string
	HTTP    HTTPConfiguration
	Logging LoggingConfiguration
	Metrics MetricsRecorder
}

func (b BasicClientContext) GetBaseURL() string { return b.BaseURL } //nolint:revive

func (b BasicClientContext) GetHTTP() HTTPConfiguration { //nolint:revive
	ret := b.HTTP
	if ret.CreateHTTPClient == nil {
		ret.CreateHTTPClient = func() *http.Client {
			client := *http.DefaultClient
			return &client
		}
	}
	return ret
}

func (b BasicClientContext) GetLogging() LoggingConfiguration { return b.Logging } //nolint:revive

func (b BasicClientContext) GetMetrics() MetricsRecorder { //nolint:revive
	if b.Metrics == nil {
		return NoMetrics{}
	}
	return b.Metrics
}
