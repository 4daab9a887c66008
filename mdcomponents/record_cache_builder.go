package mdcomponents

import (
	"time"

	"github.com/mendelcore/go-admin-client/subsystems"
)

const (
	// DefaultRecordCacheSize is the default maximum number of individually fetched records cached per store.
	DefaultRecordCacheSize = 1000
	// DefaultRecordCacheTTL is the default time an individually fetched record is reused.
	DefaultRecordCacheTTL = 30 * time.Second
)

// RecordCacheBuilder configures the cache used by Store.Get for individually fetched records.
//
//	config := mendelclient.Config{
//	    RecordCache: mdcomponents.RecordCache().Size(200).TTL(time.Minute),
//	}
type RecordCacheBuilder struct {
	config subsystems.RecordCacheConfiguration
}

// RecordCache returns a configuration builder for the record cache, initialized with the defaults.
func RecordCache() *RecordCacheBuilder {
	return &RecordCacheBuilder{config: subsystems.RecordCacheConfiguration{
		Size: DefaultRecordCacheSize,
		TTL:  DefaultRecordCacheTTL,
	}}
}

// NoRecordCache returns a configuration that disables the record cache, so every Store.Get makes a request.
func NoRecordCache() *RecordCacheBuilder {
	return RecordCache().Size(0)
}

// Size sets the maximum number of records cached per store. Zero or a negative value disables the cache.
func (b *RecordCacheBuilder) Size(size int) *RecordCacheBuilder {
	if size < 0 {
		size = 0
	}
	b.config.Size = size
	return b
}

// TTL sets how long a cached record is used before it is fetched again. Zero or a negative value
// selects DefaultRecordCacheTTL.
func (b *RecordCacheBuilder) TTL(ttl time.Duration) *RecordCacheBuilder {
	if ttl <= 0 {
		ttl = DefaultRecordCacheTTL
	}
	b.config.TTL = ttl
	return b
}

// Build is called internally by the client.
func (b *RecordCacheBuilder) Build(subsystems.ClientContext) (subsystems.RecordCacheConfiguration, error) {
	return b.config, nil
}
