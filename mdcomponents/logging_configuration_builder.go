package mdcomponents

import (
	"os"

	"github.com/mendelcore/go-admin-client/internal"
	"github.com/mendelcore/go-admin-client/subsystems"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
)

// LoggingConfigurationBuilder contains methods for configuring the client's logging behavior.
//
// If you want to set non-default values for any of these properties, create a builder with
// mdcomponents.Logging(), change its properties with the LoggingConfigurationBuilder methods, and
// store it in Config.Logging:
//
//	config := mendelclient.Config{
//	    Logging: mdcomponents.Logging().MinLevel(ldlog.Warn),
//	}
type LoggingConfigurationBuilder struct {
	config subsystems.LoggingConfiguration
}

// Logging returns a configuration builder for the client's logging configuration.
//
// The default configuration logs to os.Stderr with a "[Mendel]" prefix, at a minimum level of
// ldlog.Info.
func Logging() *LoggingConfigurationBuilder {
	return &LoggingConfigurationBuilder{
		config: subsystems.LoggingConfiguration{Loggers: internal.NewDefaultLoggers(os.Stderr)},
	}
}

// Loggers specifies an instance of ldlog.Loggers to use for client logging. The ldlog package contains
// methods for customizing the destination and level filtering of log output.
func (b *LoggingConfigurationBuilder) Loggers(loggers ldlog.Loggers) *LoggingConfigurationBuilder {
	b.config.Loggers = loggers
	return b
}

// MinLevel specifies the minimum level for log output, where ldlog.Debug is the lowest and ldlog.Error
// is the highest. Log messages at a level lower than this will be suppressed. The default is
// ldlog.Info.
//
// This is equivalent to creating an ldlog.Loggers instance, calling SetMinLevel() on it, and then
// passing it to LoggingConfigurationBuilder.Loggers().
func (b *LoggingConfigurationBuilder) MinLevel(level ldlog.LogLevel) *LoggingConfigurationBuilder {
	b.config.Loggers.SetMinLevel(level)
	return b
}

// LogRequestBodies sets whether debug logging may include the JSON bodies of create requests. By default
// it does not, since the records may contain information the application considers private.
func (b *LoggingConfigurationBuilder) LogRequestBodies(logRequestBodies bool) *LoggingConfigurationBuilder {
	b.config.LogRequestBodies = logRequestBodies
	return b
}

// Build is called internally by the client.
func (b *LoggingConfigurationBuilder) Build(
	clientContext subsystems.ClientContext,
) (subsystems.LoggingConfiguration, error) {
	return b.config, nil
}

// NoLogging returns a configuration object that disables logging.
//
//	config := mendelclient.Config{
//	    Logging: mdcomponents.NoLogging(),
//	}
func NoLogging() subsystems.ComponentConfigurer[subsystems.LoggingConfiguration] {
	return noLoggingConfigurationFactory{}
}

type noLoggingConfigurationFactory struct{}

func (f noLoggingConfigurationFactory) Build(
	clientContext subsystems.ClientContext,
) (subsystems.LoggingConfiguration, error) {
	return subsystems.LoggingConfiguration{Loggers: ldlog.NewDisabledLoggers()}, nil
}
