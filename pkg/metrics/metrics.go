// Package metrics holds the Prometheus collectors shared across the console
// and the histogram buckets used for latency instruments.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DefaultBuckets provides a common set of histogram buckets in seconds that can
// be reused across the application for latency metrics.
var DefaultBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10} //nolint: gochecknoglobals

// Auth state labels.
const (
	StatePresent = "present"
	StateAbsent  = "absent"
)

//nolint: gochecknoglobals
var (
	// AuthNotifications counts auth-state notifications seen by the bootstrap.
	AuthNotifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "accessgate",
		Name:      "auth_notifications_total",
		Help:      "Auth state notifications received, by state.",
	}, []string{"state"})

	// AppMounts counts application mounts. It must never exceed 1 per process.
	AppMounts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "accessgate",
		Name:      "app_mounts_total",
		Help:      "Application mounts into the host.",
	})

	// PersistenceFailures counts failed auth persistence configuration requests.
	PersistenceFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "accessgate",
		Name:      "persistence_failures_total",
		Help:      "Failed auth session persistence configuration requests.",
	})

	// IdentityRequests counts identity service calls by operation and outcome.
	IdentityRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "accessgate",
		Name:      "identity_requests_total",
		Help:      "Identity service requests, by operation and outcome.",
	}, []string{"operation", "outcome"})
)

// StateLabel returns the auth state label for presence.
func StateLabel(present bool) string {
	if present {
		return StatePresent
	}

	return StateAbsent
}
