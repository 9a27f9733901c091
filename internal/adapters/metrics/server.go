package metrics

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server exposes the Prometheus registry on its own listener, separate from
// the control-plane HTTP server.
type Server struct {
	httpServer *http.Server
}

// NewServer builds a metrics HTTP server bound to host:port, serving the
// registry at path. Returns nil if metrics are disabled (Registry is nil).
func NewServer(host string, port int, path string) *Server {
	if Registry == nil {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle(path, promhttp.HandlerFor(Registry, promhttp.HandlerOpts{EnableOpenMetrics: true}))

	return &Server{
		httpServer: &http.Server{
			Addr:    fmt.Sprintf("%s:%d", host, port),
			Handler: mux,
		},
	}
}

// ListenAndServe blocks serving metrics until the server is shut down.
func (s *Server) ListenAndServe() error {
	if s == nil {
		return nil
	}
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the metrics server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
