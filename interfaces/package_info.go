// Package interfaces contains types that are shared between the Mendel client's stores and the
// application code that observes them: request lifecycle states and the errors that describe failed
// requests.
//
// Interfaces for plug-in components, such as freshness policies, are in the subsystems package.
package interfaces
