// Package mdcomponents provides the configuration builders for the Mendel client's components.
//
// Each builder is passed to a field of mendelclient.Config:
//
//	config := mendelclient.Config{
//	    HTTP:        mdcomponents.HTTPConfiguration().ConnectTimeout(5 * time.Second),
//	    Logging:     mdcomponents.Logging().MinLevel(ldlog.Warn),
//	    Freshness:   mdcomponents.CacheForTTL(time.Minute),
//	    RecordCache: mdcomponents.RecordCache().Size(500),
//	    Metrics:     mdcomponents.PrometheusMetrics(),
//	}
//
// Leaving a field nil selects the default for that component.
package mdcomponents
