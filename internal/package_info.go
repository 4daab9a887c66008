// Package internal contains client implementation details that are shared between packages,
// but are not exposed to application code. The crud subpackage contains the request state machines
// used by every record store.
package internal
