package domain

import "time"

// ─── Badge Types ────────────────────────────────────────────────────────────

// BadgeTier ranks a badge within its metric family.
type BadgeTier string

const (
	TierBronze    BadgeTier = "bronze"
	TierSilver    BadgeTier = "silver"
	TierGold      BadgeTier = "gold"
	TierPlatinum  BadgeTier = "platinum"
	TierSpecial   BadgeTier = "special"   // First-time milestones
	TierExclusive BadgeTier = "exclusive" // Bespoke predicates
)

// BadgeCategory groups badges for display.
type BadgeCategory string

const (
	BadgeCatReading      BadgeCategory = "reading"
	BadgeCatProductivity BadgeCategory = "productivity"
	BadgeCatMilestone    BadgeCategory = "milestone"
)

// Badge defines a single entry in the static badge catalog.
// Tiered badges compare a metric against Threshold with >=; special and
// exclusive badges use a bespoke predicate instead (Threshold is 0).
type Badge struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Icon        string                 `json:"icon"`
	Category    BadgeCategory          `json:"category"`
	Tier        BadgeTier              `json:"tier"`
	Threshold   int64                  `json:"threshold,omitempty"`
	Predicate   func(UserMetrics) bool `json:"-"`
}

// UserBadge records an earned badge. At most one row exists per
// (user, badge) pair; awarding is idempotent.
type UserBadge struct {
	UserID      string    `json:"user_id"`
	BadgeID     string    `json:"badge_id"`
	Description string    `json:"description"`
	EarnedAt    time.Time `json:"earned_at"`
}

// UserMetrics is the snapshot of user activity fed to badge predicates
// and the achievement progress ladders.
type UserMetrics struct {
	BooksAdded         int64   `json:"books_added"`
	BooksFinished      int64   `json:"books_finished"`
	SeriesCompleted    int64   `json:"series_completed"`
	QuotesVerified     int64   `json:"quotes_verified"`
	TasksCompleted     int64   `json:"tasks_completed"`
	TotalFocusHours    float64 `json:"total_focus_hours"`
	ReadingStreak      int     `json:"reading_streak"`
	ProductivityStreak int     `json:"productivity_streak"`
	WeeklyPages        int64   `json:"weekly_pages"`
	TasksToday         int64   `json:"tasks_today"`
	FocusMinutesToday  int64   `json:"focus_minutes_today"`
	TotalPoints        int64   `json:"total_points"`
}
