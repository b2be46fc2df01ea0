// Binary httpserver serves the off-chain auction coordination API.
//
// It wires a fresh in-memory registry, the authorization service, and the
// HTTP boundary into a single process. State lives for the lifetime of the
// process only; a restart loses all auctions and bids.
package main
