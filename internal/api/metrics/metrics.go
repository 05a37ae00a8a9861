// Package metrics defines and registers all custom Prometheus metrics for
// the inventory API. It is the single source of truth for metric names,
// labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "inventory"

// SignupsTotal counts account-creation attempts.
// Label:
//   - result: "created" or "conflict"
var SignupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signups_total",
		Help:      "Total number of signup attempts, by result.",
	},
	[]string{"result"},
)

// LoginsTotal counts password login attempts.
// Label:
//   - result: "success" or "failure" (failure is indistinct on purpose;
//     no label separates unknown users from bad passwords)
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of password login attempts, by result.",
	},
	[]string{"result"},
)

// OAuthLoginsTotal counts completed provider callbacks.
// Label:
//   - result: "success", "rejected" (unverified email), "state_mismatch",
//     or "exchange_failed"
var OAuthLoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "oauth_logins_total",
		Help:      "Total number of OAuth callback completions, by result.",
	},
	[]string{"result"},
)

// SessionsDestroyedTotal counts explicit logouts. Store-level expiry is not
// observable here and is intentionally not counted.
var SessionsDestroyedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_destroyed_total",
		Help:      "Total number of sessions destroyed by logout.",
	},
)
