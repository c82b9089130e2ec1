// Package metrics defines the custom Prometheus metrics for the dealership
// web application. Every metric is registered with the default registry on
// package initialisation through promauto, so importing the package is
// enough; /metrics exposes them next to the echoprometheus HTTP metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "auth"

// ── Authentication ────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid", "throttled", "forbidden" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// TokensIssuedTotal counts session tokens written to the jwt cookie.
// Label:
//   - reason: "login", "profile" or "password"
var TokensIssuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_issued_total",
		Help:      "Total number of session tokens issued, by reason.",
	},
	[]string{"reason"},
)

// ── Authorization ─────────────────────────────────────────────────────────────

// AccessDeniedTotal counts requests turned away by the access gate.
// Label:
//   - policy: "authenticated" or "role"
var AccessDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_denied_total",
		Help:      "Total number of requests denied by route policy.",
	},
	[]string{"policy"},
)

// OwnershipDeniedTotal counts comment mutations refused by the ownership guard.
// Label:
//   - action: "edit", "update" or "delete"
var OwnershipDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ownership_denied_total",
		Help:      "Total number of comment actions denied to non-owners.",
	},
	[]string{"action"},
)

// ValidationFailuresTotal counts form submissions sent back with field errors.
// Label:
//   - form: the template re-rendered (e.g. "register", "login")
var ValidationFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "validation_failures_total",
		Help:      "Total number of form submissions rejected by validation.",
	},
	[]string{"form"},
)

// ── Audit trail ───────────────────────────────────────────────────────────────

// AuditEventsTotal counts audit events handled by the dispatcher.
// Labels:
//   - kind: the audit event kind (e.g. "login_failed")
//   - result: "stored", "failed" or "dropped"
var AuditEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_total",
		Help:      "Total number of audit events, by kind and outcome.",
	},
	[]string{"kind", "result"},
)

// AuditQueueDepth tracks pending audit events per dispatcher worker.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
