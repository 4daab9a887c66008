// Package crud contains the generic HTTP operations used by the entity stores: create, fetch-all and
// fetch-one, plus the requester they share.
//
// This package is internal and its API may change at any time.
package crud
