// Package metrics provides Prometheus metrics for the reward engine:
// counters for grants, badges, goal bonuses, and shop activity.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Grants ─────────────────────────────────────────────────────────────────

// GrantsTotal tracks recorded point grants by source.
var GrantsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "nooksbridge",
	Name:      "grants_total",
	Help:      "Total point grants recorded.",
}, []string{"source"})

// PointsAwarded tracks positive points granted by source.
var PointsAwarded = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "nooksbridge",
	Name:      "points_awarded_total",
	Help:      "Total points awarded.",
}, []string{"source"})

// PointsSpent tracks points debited through the shop.
var PointsSpent = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "nooksbridge",
	Name:      "points_spent_total",
	Help:      "Total points spent on shop purchases.",
})

// LevelUps tracks level-up events.
var LevelUps = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "nooksbridge",
	Name:      "level_ups_total",
	Help:      "Total level-up events.",
})

// ─── Badges & Goals ─────────────────────────────────────────────────────────

// BadgesAwarded tracks newly awarded badges by tier.
var BadgesAwarded = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "nooksbridge",
	Name:      "badges_awarded_total",
	Help:      "Total badges awarded.",
}, []string{"tier"})

// GoalBonuses tracks one-time goal window bonuses by goal type.
var GoalBonuses = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "nooksbridge",
	Name:      "goal_bonuses_total",
	Help:      "Total goal window bonuses granted.",
}, []string{"goal_type"})

// ─── Shop ───────────────────────────────────────────────────────────────────

// Purchases tracks successful shop purchases by item type.
var Purchases = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "nooksbridge",
	Name:      "purchases_total",
	Help:      "Total successful shop purchases.",
}, []string{"type"})

// MysteryOutcomes tracks resolved mystery box outcomes by kind.
var MysteryOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "nooksbridge",
	Name:      "mystery_outcomes_total",
	Help:      "Mystery box outcomes by reward kind.",
}, []string{"kind"})
