// Package metrics defines all custom Prometheus metrics of the library API.
// It is the single source of truth for metric names, labels, and help
// strings. Metrics register with the default registry on package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "library"

// ── Identity metrics ──────────────────────────────────────────────────────────

// AuthFailuresTotal counts requests rejected before reaching a handler.
// Label:
//   - reason: "unauthorized", "unauthenticated", "forbidden" or "error"
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of requests rejected by identity resolution or role checks.",
	},
	[]string{"reason"},
)

// IdentityResolutionDuration measures the token → user lookup per request.
var IdentityResolutionDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "identity_resolution_duration_seconds",
		Help:      "Duration of resolving a bearer token to a principal.",
		Buckets:   prometheus.DefBuckets,
	},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "invalid_credentials"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Book metrics ──────────────────────────────────────────────────────────────

// BooksCreatedTotal counts registered books.
var BooksCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "books_created_total",
		Help:      "Total number of books registered.",
	},
)

// BookWritesRejectedTotal counts owner-scoped updates and deletes that
// matched no row.
// Label:
//   - operation: "update" or "delete"
var BookWritesRejectedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "book_writes_rejected_total",
		Help:      "Total number of book updates/deletes that matched no owned book.",
	},
	[]string{"operation"},
)

// ── Checkout metrics ──────────────────────────────────────────────────────────

// CheckoutsTotal counts checkout attempts.
// Label:
//   - result: "created", "conflict", "not_found" or "error"
var CheckoutsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "checkouts_total",
		Help:      "Total number of checkout attempts, by result.",
	},
	[]string{"result"},
)

// ReturnsTotal counts return attempts.
// Label:
//   - result: "returned", "not_found" or "error"
var ReturnsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "returns_total",
		Help:      "Total number of return attempts, by result.",
	},
	[]string{"result"},
)
