// Binary simulate runs a full negotiation against a live auction server:
// it generates fresh owner and bidder keypairs, publishes an auction, signs
// and submits a bid, approves it with the owner key, and prints the approved
// signature pair a settlement contract would consume.
package main
