// Package metrics exposes a Prometheus-compatible metrics endpoint and the
// service's domain counters.
package metrics

import (
	"context"
	"fmt"
	"net/http"

	vmetrics "github.com/VictoriaMetrics/metrics"
)

// MetricsServer serves the /metrics endpoint on its own listener, separate
// from the API server.
type MetricsServer struct {
	srv *http.Server
}

// New creates a metrics server for the given service name listening on addr.
// An empty addr yields a server that never listens; callers can skip starting
// it but do not have to special-case construction.
func New(name, addr string) (*MetricsServer, error) {
	vmetrics.GetOrCreateCounter(fmt.Sprintf(`%s_up{service=%q}`, "auction", name)).Set(1)

	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		vmetrics.WritePrometheus(w, true)
	})

	return &MetricsServer{
		srv: &http.Server{
			Addr:    addr,
			Handler: mux,
		},
	}, nil
}

// ListenAndServe blocks serving metrics until the server is shut down.
func (s *MetricsServer) ListenAndServe() error {
	return s.srv.ListenAndServe()
}

// Shutdown gracefully stops the metrics server.
func (s *MetricsServer) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

var (
	auctionsCreated = vmetrics.NewCounter("auction_auctions_created_total")
	bidsSubmitted   = vmetrics.NewCounter("auction_bids_submitted_total")
	bidsApproved    = vmetrics.NewCounter("auction_bids_approved_total")
)

// IncAuctionCreated counts a successfully created auction.
func IncAuctionCreated() { auctionsCreated.Inc() }

// IncBidSubmitted counts a successfully recorded bid.
func IncBidSubmitted() { bidsSubmitted.Inc() }

// IncBidApproved counts a successful approval transition.
func IncBidApproved() { bidsApproved.Inc() }

// IncRequestRejected counts a rejected write, labeled by failure kind.
func IncRequestRejected(reason string) {
	vmetrics.GetOrCreateCounter(fmt.Sprintf(`auction_requests_rejected_total{reason=%q}`, reason)).Inc()
}
