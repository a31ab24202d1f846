// Package metrics defines and registers the custom Prometheus metrics for the
// transit API. It is the single source of truth for metric names, labels and
// help strings.
//
// Metrics are registered with the default registry at package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "transit"

// Result label values shared by the counters below.
const (
	ResultSuccess   = "success"
	ResultFailure   = "failure"
	ResultForbidden = "forbidden"
	ResultError     = "error"
)

// ── Authentication ────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "failure" (bad credentials or locked) or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Resources ─────────────────────────────────────────────────────────────────

// StationMutationsTotal counts create, update and delete requests on stations.
// Labels:
//   - action: "create", "update" or "delete"
//   - result: "success", "forbidden", "failure" (validation, not found, 401) or "error"
var StationMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "station_mutations_total",
		Help:      "Total number of station mutations, by action and result.",
	},
	[]string{"action", "result"},
)

// UsersCreatedTotal counts accounts created through the API.
var UsersCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_created_total",
		Help:      "Total number of user accounts created.",
	},
)
