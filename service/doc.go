// Package service implements the authorization layer of the auction
// protocol. It is the only component that turns a failed signature check or
// a missing-entity lookup into a caller-visible error, and the only caller
// the registry trusts with mutations.
//
// Both write paths follow the same shape: look the auction up, rebuild the
// digest over the terms supplied in the request, verify the relevant
// signature, and only then mutate the registry. Bid signatures are checked
// against the bidder claimed in the request; approval signatures are always
// checked against the auction's stored owner, never a request-supplied
// value.
//
// Digest computation and signature recovery are pure CPU work and run
// outside the registry lock.
package service
