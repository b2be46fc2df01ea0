// Package auction defines the core entities and cryptographic primitives of
// the off-chain sealed-bid auction protocol.
//
// An Auction pairs an asset (token contract address + token id) with its
// owner, an advisory minimum price, and the settlement asset used for
// payment. Bidders submit Bids signed over a digest binding all negotiated
// terms; the owner later counter-signs the same digest for exactly one bid.
// The resulting (owner signature, bidder signature) pair is what the external
// settlement contract consumes — this package never talks to the chain.
//
// Key components:
//   - Terms: the seven-field tuple both parties sign over
//   - Digest: deterministic keccak256 encoding of Terms, matching the
//     settlement contract's tightly packed layout
//   - RecoverSigner / VerifySignature: ECDSA public key recovery and
//     case-insensitive address comparison
//
// All failure kinds callers can observe are exported as sentinel errors so
// the registry and authorization layers can compose checks without
// exception-style control flow.
package auction
