package mdcomponents

import (
	"sync"
	"time"

	"github.com/mendelcore/go-admin-client/subsystems"

	"github.com/patrickmn/go-cache"
)

// CacheWhileNonEmpty returns the default freshness policy: a list that has been loaded and is not empty
// is used without fetching it again, for as long as the client exists. An empty list is always fetched.
//
// Store.Invalidate, or a forced fetch, makes the next fetch go to the network.
func CacheWhileNonEmpty() subsystems.ComponentConfigurer[subsystems.FreshnessPolicy] {
	return nonEmptyPolicyFactory{}
}

// CacheForTTL returns a freshness policy under which a fetched list is used for the given duration after
// the fetch that produced it, whether or not it is empty. A list that was only built up by creating
// records, without a fetch, is not considered fresh.
//
// A TTL of zero or less means lists are never fresh, so every unforced fetch goes to the network.
func CacheForTTL(ttl time.Duration) subsystems.ComponentConfigurer[subsystems.FreshnessPolicy] {
	return ttlPolicyFactory{ttl: ttl}
}

type nonEmptyPolicyFactory struct{}

func (nonEmptyPolicyFactory) Build(subsystems.ClientContext) (subsystems.FreshnessPolicy, error) {
	return &nonEmptyPolicy{invalidated: make(map[string]bool)}, nil
}

type nonEmptyPolicy struct {
	invalidated map[string]bool
	lock        sync.Mutex
}

func (p *nonEmptyPolicy) IsFresh(kind string, size int) bool {
	p.lock.Lock()
	defer p.lock.Unlock()
	return size > 0 && !p.invalidated[kind]
}

func (p *nonEmptyPolicy) ListFetched(kind string) {
	p.lock.Lock()
	delete(p.invalidated, kind)
	p.lock.Unlock()
}

func (p *nonEmptyPolicy) Invalidate(kind string) {
	p.lock.Lock()
	p.invalidated[kind] = true
	p.lock.Unlock()
}

type ttlPolicyFactory struct {
	ttl time.Duration
}

func (f ttlPolicyFactory) Build(subsystems.ClientContext) (subsystems.FreshnessPolicy, error) {
	if f.ttl <= 0 {
		return neverFreshPolicy{}, nil
	}
	return &ttlPolicy{fetched: cache.New(f.ttl, 5*time.Minute)}, nil
}

// The cache holds one entry per kind, present while that kind's last fetch is younger than the TTL.
type ttlPolicy struct {
	fetched *cache.Cache
}

func (p *ttlPolicy) IsFresh(kind string, _ int) bool {
	_, found := p.fetched.Get(kind)
	return found
}

func (p *ttlPolicy) ListFetched(kind string) {
	p.fetched.Set(kind, struct{}{}, cache.DefaultExpiration)
}

func (p *ttlPolicy) Invalidate(kind string) {
	p.fetched.Delete(kind)
}

type neverFreshPolicy struct{}

func (neverFreshPolicy) IsFresh(string, int) bool { return false }
func (neverFreshPolicy) ListFetched(string)       {}
func (neverFreshPolicy) Invalidate(string)        {}
