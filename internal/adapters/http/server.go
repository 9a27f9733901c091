package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/time/rate"

	"github.com/andrescamacho/vendor-pricing-engine/internal/application/common"
)

// Server is the §6 HTTP control plane: a thin REST surface dispatching
// every request through the application mediator, the way
// stadam23-Eve-flipper/internal/api/server.go wires net/http handlers
// directly over its own service layer.
type Server struct {
	mediator common.Mediator
	validate *validator.Validate
	apiKey   string
	http     *http.Server
}

// Config configures the HTTP control plane per §6's listen address and
// timeouts.
type Config struct {
	Address         string
	APIKey          string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	// RateLimit and RateBurst configure the shared ingest limiter. Zero
	// RateLimit falls back to DefaultRateLimit/DefaultRateBurst.
	RateLimit rate.Limit
	RateBurst int
}

// DefaultRateLimit and DefaultRateBurst bound ingest when a Config leaves
// them unset: 50 requests/sec with bursts to 100, generous enough for the
// 1000-concurrent-sells scenario spread across a handful of callers.
const (
	DefaultRateLimit = rate.Limit(50)
	DefaultRateBurst = 100
)

// NewServer builds the control plane over the application mediator.
func NewServer(mediator common.Mediator, cfg Config) *Server {
	s := &Server{
		mediator: mediator,
		validate: validator.New(),
		apiKey:   cfg.APIKey,
	}

	limit := cfg.RateLimit
	burst := cfg.RateBurst
	if limit == 0 {
		limit = DefaultRateLimit
		burst = DefaultRateBurst
	}
	limiter := rate.NewLimiter(limit, burst)

	handler := rateLimit(limiter, requireAPIKey(cfg.APIKey, s.routes().ServeHTTP))
	s.http = &http.Server{
		Addr:         cfg.Address,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return s
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /shop/buy", s.handleBuy)
	mux.HandleFunc("POST /shop/sell", s.handleSell)
	mux.HandleFunc("POST /shop/batch", s.handleBatch)
	mux.HandleFunc("GET /shop/balance/{playerId}", s.handleGetBalance)
	mux.HandleFunc("GET /shop/history/{playerId}", s.handleGetHistory)
	mux.HandleFunc("GET /shop/items", s.handleListItems)
	mux.HandleFunc("GET /shop/items/{itemId}", s.handleGetItem)
	mux.HandleFunc("GET /shop/price/{itemId}", s.handleGetPrice)
	mux.HandleFunc("PUT /shop/admin/balance", s.handleAdminSetBalance)
	mux.HandleFunc("POST /shop/admin/items", s.handleAdminAddItem)
	mux.HandleFunc("PATCH /shop/admin/items/{itemId}/deactivate", s.handleAdminDeactivateItem)
	mux.HandleFunc("GET /shop/admin/settings/{key}", s.handleAdminGetSetting)
	mux.HandleFunc("PUT /shop/admin/settings/{key}", s.handleAdminSetSetting)

	return mux
}

// ListenAndServe starts the control plane. It blocks until the server
// stops and returns nil after a clean Shutdown; any other listen failure
// is returned wrapped.
func (s *Server) ListenAndServe() error {
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the control plane.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
