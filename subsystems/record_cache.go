package subsystems

import "time"

// RecordCacheConfiguration controls the cache used by Store.Get for individually fetched records.
//
// See mdcomponents.RecordCacheConfigurationBuilder.
type RecordCacheConfiguration struct {
	// Size is the maximum number of records cached per store. Zero disables the cache.
	Size int
	// TTL is how long a cached record is used before it is fetched again.
	TTL time.Duration
}
