package main

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	mendelclient "github.com/mendelcore/go-admin-client"
	"github.com/mendelcore/go-admin-client/mdcomponents"
	"github.com/mendelcore/go-admin-client/mdntlm"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"

	"github.com/kelseyhightower/envconfig"
	"github.com/prometheus/client_golang/prometheus"
)

// envConfig is read from MENDEL_* environment variables.
type envConfig struct {
	APIBaseURL     string        `envconfig:"API_BASE_URL"`                  // MENDEL_API_BASE_URL
	LogLevel       string        `envconfig:"LOG_LEVEL" default:"warn"`      // MENDEL_LOG_LEVEL
	LogBodies      bool          `envconfig:"LOG_BODIES" default:"false"`    // MENDEL_LOG_BODIES
	ConnectTimeout time.Duration `envconfig:"CONNECT_TIMEOUT" default:"3s"`  // MENDEL_CONNECT_TIMEOUT
	CACertFile     string        `envconfig:"CA_CERT_FILE"`                  // MENDEL_CA_CERT_FILE
	ProxyURL       string        `envconfig:"PROXY_URL"`                     // MENDEL_PROXY_URL
	CacheTTL       time.Duration `envconfig:"CACHE_TTL"`                     // MENDEL_CACHE_TTL
	RecordCacheTTL time.Duration `envconfig:"RECORD_CACHE_TTL" default:"30s"` // MENDEL_RECORD_CACHE_TTL
	MetricsAddr    string        `envconfig:"METRICS_ADDR"`                  // MENDEL_METRICS_ADDR

	NTLM struct {
		Username string `envconfig:"USERNAME"` // MENDEL_NTLM_USERNAME
		Password string `envconfig:"PASSWORD"` // MENDEL_NTLM_PASSWORD
		Domain   string `envconfig:"DOMAIN"`   // MENDEL_NTLM_DOMAIN
	} `envconfig:"NTLM"`
}

const envPrefix = "MENDEL"

func loadEnv() (envConfig, error) {
	var cfg envConfig
	err := envconfig.Process(envPrefix, &cfg)
	return cfg, err
}

// clientConfig translates the environment into a client configuration. The registry is non-nil only if
// metrics were requested.
func (e envConfig) clientConfig(loggers ldlog.Loggers) (mendelclient.Config, *prometheus.Registry, error) {
	var config mendelclient.Config
	config.BaseURL = e.APIBaseURL

	level, err := parseLogLevel(e.LogLevel)
	if err != nil {
		return config, nil, err
	}
	config.Logging = mdcomponents.Logging().Loggers(loggers).MinLevel(level).LogRequestBodies(e.LogBodies)

	httpConfig := mdcomponents.HTTPConfiguration().
		ConnectTimeout(e.ConnectTimeout).
		UserAgent("mendelctl")
	if e.CACertFile != "" {
		httpConfig.CACertFile(e.CACertFile)
	}
	if e.ProxyURL != "" {
		if e.NTLM.Username != "" {
			factory, err := mdntlm.NewNTLMProxyHTTPClientFactory(e.ProxyURL,
				e.NTLM.Username, e.NTLM.Password, e.NTLM.Domain)
			if err != nil {
				return config, nil, err
			}
			httpConfig.HTTPClientFactory(factory)
		} else {
			u, err := url.Parse(e.ProxyURL)
			if err != nil {
				return config, nil, fmt.Errorf("invalid proxy URL: %w", err)
			}
			httpConfig.ProxyURL(*u)
		}
	}
	config.HTTP = httpConfig

	if e.CacheTTL > 0 {
		config.Freshness = mdcomponents.CacheForTTL(e.CacheTTL)
	}
	config.RecordCache = mdcomponents.RecordCache().TTL(e.RecordCacheTTL)

	var registry *prometheus.Registry
	if e.MetricsAddr != "" {
		registry = prometheus.NewRegistry()
		config.Metrics = mdcomponents.PrometheusMetrics().Registerer(registry)
	}
	return config, registry, nil
}

func parseLogLevel(s string) (ldlog.LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return ldlog.Debug, nil
	case "info":
		return ldlog.Info, nil
	case "warn", "warning":
		return ldlog.Warn, nil
	case "error":
		return ldlog.Error, nil
	case "none":
		return ldlog.None, nil
	default:
		return ldlog.None, fmt.Errorf("unknown log level %q", s)
	}
}
