// Package metrics defines and registers the custom Prometheus metrics of the
// blog API. It is the single source of truth for metric names, labels, and
// help strings. All metrics are registered on the default registry at init
// through promauto; HTTP request metrics come from echoprometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "blog"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials", "banned" or "error"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// AccountsRegisteredTotal counts accounts created.
// Label:
//   - source: "signup" (self-service) or "admin"
var AccountsRegisteredTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "accounts_registered_total",
		Help:      "Total number of accounts created, by source.",
	},
	[]string{"source"},
)

// ── Social metrics ────────────────────────────────────────────────────────────

// FollowOperationsTotal counts follow graph mutations.
// Labels:
//   - op: "follow" or "unfollow"
//   - result: "changed" or "noop" (edge already in the requested state)
var FollowOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "follow_operations_total",
		Help:      "Total number of follow/unfollow operations, by outcome.",
	},
	[]string{"op", "result"},
)

// ModerationActionsTotal counts ban and unban calls.
// Label:
//   - action: "ban" or "unban"
var ModerationActionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "moderation_actions_total",
		Help:      "Total number of moderation actions applied.",
	},
	[]string{"action"},
)

// ── Presence metrics ──────────────────────────────────────────────────────────

// PresenceEventsTotal counts presence notifications.
// Labels:
//   - event: "user:online" or "user:offline"
//   - result: "published", "dropped" (queue full) or "failed" (publisher error)
var PresenceEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "presence_events_total",
		Help:      "Total number of presence events, by outcome.",
	},
	[]string{"event", "result"},
)

// PresenceQueueDepth tracks the number of events waiting in each dispatcher worker.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var PresenceQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "presence_queue_depth",
		Help:      "Current number of presence events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// PresencePublishDuration measures how long a single publish takes.
var PresencePublishDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "presence_publish_duration_seconds",
		Help:      "Duration of a presence publish call against the broadcast transport.",
		Buckets:   prometheus.DefBuckets,
	},
)
