// Package mdstore contains the entity stores of the Mendel client.
//
// A store holds, for one entity kind, the cached list of records, the visibility flag of that kind's
// creation form, and the state of the most recent create, fetch-all and fetch-one requests. Applications
// normally get stores from mendelclient.MendelClient rather than creating them.
package mdstore
