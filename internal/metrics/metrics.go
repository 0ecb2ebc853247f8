// Package metrics defines all custom Prometheus metrics for the taskdeck
// frontend. It is the single source of truth for metric names, labels, and
// help strings. Collectors are registered with the default registry at import
// time via promauto; the /metrics endpoint is wired in the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "taskdeck"

// UpstreamRequestsTotal counts calls to the upstream task API.
// Labels:
//   - op: the logical operation ("login", "list_tasks", "create_task", …)
//   - outcome: "ok" or the error kind ("auth", "not_found", "validation",
//     "transport", "server")
var UpstreamRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_requests_total",
		Help:      "Total number of upstream API calls, by operation and outcome.",
	},
	[]string{"op", "outcome"},
)

// UpstreamRequestDuration measures upstream call latency end-to-end.
// Label:
//   - op: the logical operation
var UpstreamRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upstream_request_duration_seconds",
		Help:      "Duration of upstream API calls from request to decoded response.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"op"},
)

// DuplicateSubmitsTotal counts mutations rejected by the submit guard.
// Label:
//   - action: "create", "status", "edit", or "delete"
var DuplicateSubmitsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "duplicate_submits_total",
		Help:      "Total number of mutations rejected because an identical one was in flight.",
	},
	[]string{"action"},
)

// RoleFallbacksTotal counts dashboard loads where the current-user endpoint
// was unavailable and the role had to be derived from token claims or the
// employee default.
// Label:
//   - source: "claims" or "default"
var RoleFallbacksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "role_fallbacks_total",
		Help:      "Total number of role resolutions that fell back past GET /me.",
	},
	[]string{"source"},
)
