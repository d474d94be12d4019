// Package metrics defines and registers all custom Prometheus metrics for the
// expense tracker API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation through promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "expense"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts register, login and logout calls.
// Labels:
//   - operation: "register", "login" or "logout"
//   - result: "success", or the error reason (e.g. "invalid_credentials")
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of authentication operations, by operation and result.",
	},
	[]string{"operation", "result"},
)

// ── Session metrics ───────────────────────────────────────────────────────────

// SessionsCreatedTotal counts sessions issued by register and login.
var SessionsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_created_total",
		Help:      "Total number of sessions created.",
	},
)

// SessionsPurgedTotal counts expired sessions removed by the sweeper.
var SessionsPurgedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_purged_total",
		Help:      "Total number of expired sessions removed by the background sweeper.",
	},
)

// ── Expense metrics ───────────────────────────────────────────────────────────

// ExpensesCreatedTotal counts persisted expenses.
var ExpensesCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "expenses_created_total",
		Help:      "Total number of expenses created.",
	},
)

// ── Storage metrics ───────────────────────────────────────────────────────────

// StorageErrorsTotal counts requests that failed because a backing store was
// unreachable.
// Label:
//   - operation: the route or background job that hit the failure
var StorageErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "storage_errors_total",
		Help:      "Total number of operations that failed with storage unavailable.",
	},
	[]string{"operation"},
)
