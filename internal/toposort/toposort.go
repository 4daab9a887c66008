// Package toposort orders import entries so that each one comes after the entries it references.
package toposort

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Neighbors is a set of keys. It is used instead of a list for efficient lookup.
type Neighbors map[string]struct{}

// Add adds a key to the set.
func (s Neighbors) Add(value string) {
	s[value] = struct{}{}
}

// Contains returns true if the set contains the key.
func (s Neighbors) Contains(value string) bool {
	_, ok := s[value]
	return ok
}

// AdjacencyList is a map of keys to the keys they depend on.
type AdjacencyList map[string]Neighbors

// Sort returns the keys in an order where every key comes after the keys it depends on. Keys that
// do not depend on each other keep their relative input order. Dependencies on keys that are not in
// the input are ignored, and so is the back edge of a cycle.
func Sort(keys []string, dependencies AdjacencyList) []string {
	remaining := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		remaining[k] = struct{}{}
	}
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if _, ok := remaining[k]; ok {
			addWithDependenciesFirst(k, dependencies, remaining, &out)
		}
	}
	return out
}

func addWithDependenciesFirst(
	startingKey string,
	dependencies AdjacencyList,
	remaining map[string]struct{},
	out *[]string,
) {
	delete(remaining, startingKey) // we won't need to visit this key again
	for _, dep := range sortedNeighbors(dependencies[startingKey]) {
		if _, ok := remaining[dep]; ok {
			addWithDependenciesFirst(dep, dependencies, remaining, out)
		}
	}
	*out = append(*out, startingKey)
}

func sortedNeighbors(n Neighbors) []string {
	ret := maps.Keys(n)
	slices.Sort(ret)
	return ret
}
