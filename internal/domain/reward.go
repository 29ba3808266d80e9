// Package domain holds the shared types of the reward engine.
// Domain types are pure and carry no infrastructure dependency.
package domain

import "time"

// ─── Point Grants ───────────────────────────────────────────────────────────

// GrantSource identifies which part of the application earned the points.
type GrantSource string

const (
	SourceNook         GrantSource = "nook"     // Reading tracker
	SourceHook         GrantSource = "hook"     // Focus timer
	SourceAdmin        GrantSource = "admin"    // Manual admin award
	SourceSystem       GrantSource = "system"   // Level-ups, badges, goal bonuses
	SourceQuotes       GrantSource = "quotes"   // Verified quote submissions
	SourceMysteryBox   GrantSource = "mystery_box"
	SourceShop         GrantSource = "shop"     // Negative entries (purchases)
	SourceRegistration GrantSource = "registration"
)

// GoalType names a one-time bonus rule. A grant carrying a known goal type
// has the fixed bonus added on top of its base points.
type GoalType string

const (
	GoalBookFinished          GoalType = "book_finished"
	GoalSeriesCompleted       GoalType = "series_completed"
	GoalWeeklyReading         GoalType = "weekly_reading_goal"
	GoalMonthlyConsistency    GoalType = "monthly_consistency"
	GoalProductivityMilestone GoalType = "productivity_milestone"
	GoalFocusMarathon         GoalType = "focus_marathon"
	GoalQuoteReflection       GoalType = "quote_reflection"
)

// GoalBonuses is the fixed bonus amount per goal type.
var GoalBonuses = map[GoalType]int64{
	GoalBookFinished:          100,
	GoalSeriesCompleted:       250,
	GoalWeeklyReading:         150, // 500+ pages in 7 days
	GoalMonthlyConsistency:    200, // Read every day for 30 days
	GoalProductivityMilestone: 75,  // 10 tasks in a day
	GoalFocusMarathon:         200, // 3+ hours of focus in a day
	GoalQuoteReflection:       50,
}

// PointGrant is a single ledger entry. Immutable once inserted; negative
// points represent shop purchases.
type PointGrant struct {
	ID           string      `json:"id"`
	UserID       string      `json:"user_id"`
	Points       int64       `json:"points"`
	Source       GrantSource `json:"source"`
	Description  string      `json:"description"`
	Category     string      `json:"category"`
	Date         time.Time   `json:"date"`
	ReferenceID  string      `json:"reference_id,omitempty"`
	GoalType     GoalType    `json:"goal_type,omitempty"`
	IsGoalReward bool        `json:"is_goal_reward"`
}

// UserProgress is the cached balance/level view kept alongside the ledger.
// Invariant: TotalPoints equals the sum of the user's grants, and
// Level == LevelForPoints(TotalPoints).
type UserProgress struct {
	UserID      string `json:"user_id"`
	TotalPoints int64  `json:"total_points"`
	Level       int    `json:"level"`
}

// GrantStats aggregates points grouped by source or category.
type GrantStats struct {
	Key         string `json:"key"`
	TotalPoints int64  `json:"total_points"`
	Count       int64  `json:"count"`
}

// MilestoneProgress reports progress toward the next unmet milestone
// in a fixed ladder (books / tasks / points).
type MilestoneProgress struct {
	Current    int64   `json:"current"`
	Target     int64   `json:"target"`
	Percentage float64 `json:"percentage"`
}
