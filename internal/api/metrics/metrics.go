// Package metrics defines and registers all custom Prometheus metrics for the
// accounts service. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on package init
// (promauto) and exposed by the echoprometheus handler at /metrics.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/99minutos/accounts-service/internal/core/domain"
)

const namespace = "accounts"

// ── Credential metrics ────────────────────────────────────────────────────────

// CredentialOpsTotal counts credential operations by outcome.
// Labels:
//   - operation: "register", "login", "update_profile", "refresh"
//   - result: "ok" or a short error class (e.g. "duplicate", "invalid_credentials")
var CredentialOpsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "credential_operations_total",
		Help:      "Total number of credential operations, by operation and result.",
	},
	[]string{"operation", "result"},
)

// CredentialOpDuration measures credential operation latency, bcrypt included.
// Label:
//   - operation: see CredentialOpsTotal
var CredentialOpDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "credential_operation_duration_seconds",
		Help:      "Duration of credential operations.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"operation"},
)

// TokensIssuedTotal counts issued token pairs.
var TokensIssuedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_pairs_issued_total",
		Help:      "Total number of access/refresh token pairs issued.",
	},
)

// ── Audit metrics ─────────────────────────────────────────────────────────────

// AuditEventsTotal counts audit events handled by the dispatcher.
// Label:
//   - result: "stored", "failed" or "dropped" (queue full)
var AuditEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_total",
		Help:      "Total number of account audit events, by result.",
	},
	[]string{"result"},
)

// AuditQueueDepth tracks the number of events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ObserveCredentialOp records the outcome and latency of one operation.
func ObserveCredentialOp(operation string, started time.Time, err error) {
	CredentialOpDuration.WithLabelValues(operation).Observe(time.Since(started).Seconds())
	CredentialOpsTotal.WithLabelValues(operation, Result(err)).Inc()
	if err == nil && operation != "profile" {
		TokensIssuedTotal.Inc()
	}
}

// Result maps an operation error to a low-cardinality label value.
func Result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrDuplicateResource):
		return "duplicate"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrInvalidToken):
		return "invalid_token"
	case errors.Is(err, domain.ErrUserNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidRole):
		return "invalid_input"
	}
	return "error"
}
