// Package common holds process-wide constants and logger setup shared by the
// binaries and the HTTP server.
package common

// PackageName identifies this service in logs and metrics.
const PackageName = "offchain-auction-backend"

// Version is set at build time via -ldflags.
var Version = "dev"
