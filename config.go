package mendelclient

import (
	"github.com/mendelcore/go-admin-client/subsystems"
)

// Config exposes advanced configuration options for the Mendel client.
//
// All of these settings are optional, so an empty Config struct is always valid, as long as the
// MENDEL_API_BASE_URL environment variable is set. See the description of each field for the default
// behavior if it is not set.
//
// Most of the Config fields are factories for subcomponents of the client. The actual implementations,
// which have methods for configuring that subcomponent, are provided by the mdcomponents package. For
// instance, to use a TTL-based freshness policy for cached lists:
//
//	var config mendelclient.Config
//	config.Freshness = mdcomponents.CacheForTTL(5 * time.Minute)
type Config struct {
	// BaseURL is the base URL of the Mendel API, such as "http://localhost:8080".
	//
	// If empty, the value of the MENDEL_API_BASE_URL environment variable is used. If that is not set
	// either, an error is logged and the client is still created, but every request it makes will fail.
	BaseURL string

	// Provides configuration of the client's network connection behavior.
	//
	// If nil, the default is mdcomponents.HTTPConfiguration().
	//
	//	// example: set a connect timeout and a custom header
	//	config.HTTP = mdcomponents.HTTPConfiguration().ConnectTimeout(time.Second).Header("X-Team", "breeding")
	HTTP subsystems.ComponentConfigurer[subsystems.HTTPConfiguration]

	// Provides configuration of the client's logging behavior.
	//
	// If nil, the default is mdcomponents.Logging(). To disable logging, use mdcomponents.NoLogging().
	Logging subsystems.ComponentConfigurer[subsystems.LoggingConfiguration]

	// Decides when FetchIfNeeded can use a cached list instead of going to the network.
	//
	// If nil, the default is mdcomponents.CacheWhileNonEmpty(): a list that has been loaded and is not
	// empty is never fetched again unless the fetch is forced or the store is invalidated.
	Freshness subsystems.ComponentConfigurer[subsystems.FreshnessPolicy]

	// Configures the per-store cache used by Store.Get.
	//
	// If nil, the default is mdcomponents.RecordCache().
	RecordCache subsystems.ComponentConfigurer[subsystems.RecordCacheConfiguration]

	// Sets where request and cache metrics are recorded.
	//
	// If nil, the default is mdcomponents.NoMetrics(). Use mdcomponents.PrometheusMetrics() to expose
	// Prometheus counters.
	Metrics subsystems.ComponentConfigurer[subsystems.MetricsRecorder]
}
