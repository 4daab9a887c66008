package mendelclient

import (
	"github.com/mendelcore/go-admin-client/internal/endpoints"
	"github.com/mendelcore/go-admin-client/mdcomponents"
	"github.com/mendelcore/go-admin-client/subsystems"
)

func newClientContextFromConfig(config Config, lookupEnv endpoints.EnvLookup) (subsystems.BasicClientContext, error) {
	basicContext := subsystems.BasicClientContext{}

	loggingFactory := config.Logging
	if loggingFactory == nil {
		loggingFactory = mdcomponents.Logging()
	}
	logging, err := loggingFactory.Build(basicContext)
	if err != nil {
		return basicContext, err
	}
	basicContext.Logging = logging

	httpFactory := config.HTTP
	if httpFactory == nil {
		httpFactory = mdcomponents.HTTPConfiguration()
	}
	httpConfig, err := httpFactory.Build(basicContext)
	if err != nil {
		return basicContext, err
	}
	basicContext.HTTP = httpConfig

	metricsFactory := config.Metrics
	if metricsFactory == nil {
		metricsFactory = mdcomponents.NoMetrics()
	}
	metrics, err := metricsFactory.Build(basicContext)
	if err != nil {
		return basicContext, err
	}
	basicContext.Metrics = metrics

	basicContext.BaseURL = endpoints.SelectBaseURL(config.BaseURL, lookupEnv, logging.Loggers)
	return basicContext, nil
}
