// Package auctionhandler implements the HTTP boundary of the auction
// service: request parsing, DTO validation, and the mapping from protocol
// failure kinds to HTTP rejection responses.
//
// Key components:
//   - Handler: chi-routed handlers for auction creation, bid submission,
//     approval, and the read endpoints
//   - Client: typed HTTP client for the same API, used by the simulator
//
// Addresses travel as 0x-prefixed hex strings, amounts and token ids as
// decimal strings, signatures as 0x-prefixed hex. Structurally invalid
// values are rejected as malformed input before the core ever sees them.
// Each protocol failure kind maps to a distinct status code: missing
// entities to 404, invalid signatures and malformed input to 400, repeated
// approval to 409. A failed request never produces a success payload.
package auctionhandler
