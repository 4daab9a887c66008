// Package mdservices provides HTTP handlers that simulate the Mendel backend API.
//
// It is mainly intended for the client's own unit tests, and is also what cmd/mendel-stub serves. It
// could be useful for testing applications that use the client if it is desirable to use real HTTP
// rather than other kinds of test fixtures.
package mdservices
