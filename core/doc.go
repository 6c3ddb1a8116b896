// Package core contains the canonical relay domain: the authorization
// state holder, its three operations, and the ledger/activity contracts.
// Storage and job adapters must depend on this package; core must not
// depend on storage- or transport-specific adapters.
package core
