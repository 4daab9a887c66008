package subsystems

import "time"

// Outcome labels passed to MetricsRecorder.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// MetricsRecorder receives measurements of the client's requests and cache decisions.
type MetricsRecorder interface {
	// RecordRequest is called once per completed HTTP request. Operation is "create", "fetch_all",
	// "fetch_one" or "status"; outcome is OutcomeSuccess or OutcomeFailure.
	RecordRequest(kind, operation, outcome string, duration time.Duration)

	// RecordCacheHit is called when a request is avoided because cached data was used. Cache is
	// "list" for the fetch guard and "record" for the fetch-one cache.
	RecordCacheHit(kind, cache string)
}

// NoMetrics is a MetricsRecorder that discards everything.
type NoMetrics struct{}

func (NoMetrics) RecordRequest(string, string, string, time.Duration) {} //nolint:revive

func (NoMetrics) RecordCacheHit(string, string) {} //nolint:revive
