// Package metrics adapts the pricing engine's structured events onto a
// Prometheus registry and the standard library's structured logger via a
// registry singleton and per-concern collectors registered against it.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	// namespace groups every metric this package exports.
	namespace = "shop"
	// subsystem distinguishes the pricing engine's own metrics from any
	// future collector sharing the namespace.
	subsystem = "pricing"
)

// Registry is the Prometheus registry metrics are registered against. Nil
// until InitRegistry is called: metrics are disabled by default.
var Registry *prometheus.Registry

// InitRegistry creates the process-wide Prometheus registry. Call once at
// startup when config.MetricsConfig.Enabled is true.
func InitRegistry() {
	Registry = prometheus.NewRegistry()
}

// GetRegistry returns the global registry, or nil if metrics are disabled.
func GetRegistry() *prometheus.Registry {
	return Registry
}

// IsEnabled reports whether InitRegistry has run.
func IsEnabled() bool {
	return Registry != nil
}
