// Package mdmodel contains the record types exchanged with the Mendel backend, the request types used
// to create them, and the registry of entity kinds that binds each record type to its API path.
//
// All types in this package implement the go-jsonstream Readable/Writable interfaces and also the
// standard json.Marshaler/json.Unmarshaler interfaces, so they can be used with encoding/json and with
// YAML libraries that delegate to it.
package mdmodel
