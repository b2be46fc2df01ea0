// Package httpserver provides the HTTP server shell shared by the service's
// binaries: chi routing with request logging, liveness and readiness
// endpoints, drain/undrain for load balancer coordination, an optional pprof
// mount, a paired Prometheus metrics server, and graceful shutdown.
//
// Application routes are attached through the RouteRegistrar interface so
// the server stays independent of any particular API.
package httpserver
