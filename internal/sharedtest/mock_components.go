package sharedtest

import (
	"sync"
	"time"

	"github.com/mendelcore/go-admin-client/subsystems"
)

// SingleComponentConfigurer is a test implementation of ComponentConfigurer that always returns the same
// pre-existing instance.
type SingleComponentConfigurer[T any] struct {
	Instance T
}

func (c SingleComponentConfigurer[T]) Build(context subsystems.ClientContext) (T, error) { //nolint:revive
	return c.Instance, nil
}

// ComponentConfigurerThatReturnsError is a test implementation of ComponentConfigurer that always returns
// an error.
type ComponentConfigurerThatReturnsError[T any] struct {
	Err error
}

func (c ComponentConfigurerThatReturnsError[T]) Build(context subsystems.ClientContext) (T, error) { //nolint:revive
	var empty T
	return empty, c.Err
}

// RecordedRequest is one call to CapturingMetrics.RecordRequest.
type RecordedRequest struct {
	Kind      string
	Operation string
	Outcome   string
}

// RecordedCacheHit is one call to CapturingMetrics.RecordCacheHit.
type RecordedCacheHit struct {
	Kind  string
	Cache string
}

// CapturingMetrics is a MetricsRecorder that remembers every call.
type CapturingMetrics struct {
	requests  []RecordedRequest
	cacheHits []RecordedCacheHit
	lock      sync.Mutex
}

func (m *CapturingMetrics) RecordRequest(kind, operation, outcome string, _ time.Duration) { //nolint:revive
	m.lock.Lock()
	m.requests = append(m.requests, RecordedRequest{Kind: kind, Operation: operation, Outcome: outcome})
	m.lock.Unlock()
}

func (m *CapturingMetrics) RecordCacheHit(kind, cache string) { //nolint:revive
	m.lock.Lock()
	m.cacheHits = append(m.cacheHits, RecordedCacheHit{Kind: kind, Cache: cache})
	m.lock.Unlock()
}

// Requests returns a copy of the recorded requests.
func (m *CapturingMetrics) Requests() []RecordedRequest {
	m.lock.Lock()
	defer m.lock.Unlock()
	return append([]RecordedRequest(nil), m.requests...)
}

// CacheHits returns a copy of the recorded cache hits.
func (m *CapturingMetrics) CacheHits() []RecordedCacheHit {
	m.lock.Lock()
	defer m.lock.Unlock()
	return append([]RecordedCacheHit(nil), m.cacheHits...)
}
