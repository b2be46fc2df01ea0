// Package registry owns all auction and bid records for the lifetime of the
// process. It is a purely in-memory store: a restart loses everything, which
// is acceptable because the negotiation it coordinates is re-runnable and
// settlement happens elsewhere.
//
// The registry enforces the state invariants of the protocol — bids require
// an existing auction, and approval is a one-shot transition guarded by a
// single mutex domain — but performs no signature verification. Verifying
// that a mutation was authorized is the service layer's job; the registry
// trusts its caller.
//
// All reads return snapshots, never references into the store, so callers
// can hold results across lock boundaries without observing later writes.
package registry
