package subsystems

// FreshnessPolicy decides whether a store's cached list can be used instead of fetching it again.
//
// A store consults the policy only when its list is present (it has been fetched or created into at
// least once and the last fetch did not fail) and the caller did not force a fetch. Implementations
// must be safe for concurrent use; one policy instance is shared by all stores of a client and keys
// its state by kind name.
type FreshnessPolicy interface {
	// IsFresh reports whether a present list of the given size is still fresh.
	IsFresh(kind string, size int) bool

	// ListFetched is called after every successful fetch of the full list.
	ListFetched(kind string)

	// Invalidate marks the list as stale, so the next unforced fetch goes to the network.
	Invalidate(kind string)
}
