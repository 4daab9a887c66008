package subsystems

import (
	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
)

// LoggingConfiguration encapsulates the client's general logging configuration.
//
// See mdcomponents.LoggingConfigurationBuilder for more details on these properties.
type LoggingConfiguration struct {
	// Loggers is a configured ldlog.Loggers instance for general client logging.
	Loggers ldlog.Loggers

	// LogRequestBodies is true if request payloads may be included in debug logging.
	LogRequestBodies bool
}
