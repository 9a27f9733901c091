package http

import (
	"crypto/subtle"
	"net/http"

	"golang.org/x/time/rate"
)

const apiKeyHeader = "X-API-Key"

// requireAPIKey checks the shared key in the X-API-Key header. A
// constant-time compare avoids a timing side channel on the key. /health is
// exempt so an infra liveness probe doesn't need the shared key.
func requireAPIKey(apiKey string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next(w, r)
			return
		}

		got := r.Header.Get(apiKeyHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(apiKey)) != 1 {
			writeFailure(w, http.StatusUnauthorized, "invalid or missing API key")
			return
		}
		next(w, r)
	}
}

// rateLimit throttles ingest to the control plane with a shared
// token-bucket limiter, protecting the ledger lock table and the database
// from a request burst. /health is exempt for the same reason it skips the
// API key check.
func rateLimit(limiter *rate.Limiter, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next(w, r)
			return
		}

		if !limiter.Allow() {
			writeFailure(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next(w, r)
	}
}
