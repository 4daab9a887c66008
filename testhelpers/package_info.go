// Package testhelpers contains types and functions that may be useful in testing applications that use
// the Mendel client, or custom components for it.
//
// Its subpackage mdservices provides an in-memory implementation of the Mendel API that can be served
// with net/http/httptest.
package testhelpers

// Implementation note: anything that is *only* for tests of this module should be in internal/sharedtest
// instead. Avoid depending on the root package here, so that tests in the root package can use these
// helpers without an import cycle.
