package reward

import (
	"fmt"
	"strings"

	"github.com/nooksandhook-ux/NOOKSBRIDGE/internal/domain"
	"github.com/nooksandhook-ux/NOOKSBRIDGE/internal/infra/metrics"
)

// BadgePoints is the fixed system grant for earning any badge.
const BadgePoints = 25

// tierIcons maps tiers to their display icon.
var tierIcons = map[domain.BadgeTier]string{
	domain.TierBronze:   "🥉",
	domain.TierSilver:   "🥈",
	domain.TierGold:     "🥇",
	domain.TierPlatinum: "💎",
}

// tierLadder is one metric family's threshold progression.
type tierLadder struct {
	family   string
	name     string // "%s" is replaced with the tier name
	desc     string // "%d" is replaced with the threshold
	category domain.BadgeCategory
	metric   func(domain.UserMetrics) int64
	tiers    [4]int64 // bronze, silver, gold, platinum
}

var tierLadders = []tierLadder{
	{
		family: "reading_streak", name: "%s Reading Streak", desc: "%d-day reading streak",
		category: domain.BadgeCatReading,
		metric:   func(m domain.UserMetrics) int64 { return int64(m.ReadingStreak) },
		tiers:    [4]int64{7, 30, 100, 365},
	},
	{
		family: "books_finished", name: "%s Bookworm", desc: "Finished %d books",
		category: domain.BadgeCatReading,
		metric:   func(m domain.UserMetrics) int64 { return m.BooksFinished },
		tiers:    [4]int64{5, 25, 100, 500},
	},
	{
		family: "productivity_streak", name: "%s Productivity Streak", desc: "%d-day productivity streak",
		category: domain.BadgeCatProductivity,
		metric:   func(m domain.UserMetrics) int64 { return int64(m.ProductivityStreak) },
		tiers:    [4]int64{7, 30, 100, 365},
	},
	{
		family: "tasks_completed", name: "%s Achiever", desc: "Completed %d tasks",
		category: domain.BadgeCatProductivity,
		metric:   func(m domain.UserMetrics) int64 { return m.TasksCompleted },
		tiers:    [4]int64{50, 250, 1000, 5000},
	},
	{
		family: "focus_time", name: "%s Focus Master", desc: "%d hours of focus time",
		category: domain.BadgeCatProductivity,
		metric:   func(m domain.UserMetrics) int64 { return int64(m.TotalFocusHours) },
		tiers:    [4]int64{100, 500, 2000, 10000},
	},
	{
		family: "quotes_submitted", name: "%s Quote Collector", desc: "Submitted %d quotes",
		category: domain.BadgeCatReading,
		metric:   func(m domain.UserMetrics) int64 { return m.QuotesVerified },
		tiers:    [4]int64{10, 50, 200, 1000},
	},
}

// BadgeCatalog returns the full static badge catalog: four tiers per metric
// family, point milestones, and the special/exclusive achievements.
// Tiered badge IDs are deterministic: {family}_{threshold}_{tier}.
func BadgeCatalog() []domain.Badge {
	var badges []domain.Badge

	tierOrder := []domain.BadgeTier{domain.TierBronze, domain.TierSilver, domain.TierGold, domain.TierPlatinum}
	for _, ladder := range tierLadders {
		ladder := ladder
		for i, tier := range tierOrder {
			threshold := ladder.tiers[i]
			badges = append(badges, domain.Badge{
				ID:          fmt.Sprintf("%s_%d_%s", ladder.family, threshold, tier),
				Name:        fmt.Sprintf(ladder.name, titleCase(string(tier))),
				Description: fmt.Sprintf(ladder.desc, threshold),
				Icon:        tierIcons[tier],
				Category:    ladder.category,
				Tier:        tier,
				Threshold:   threshold,
				Predicate:   func(m domain.UserMetrics) bool { return ladder.metric(m) >= threshold },
			})
		}
	}

	// Point milestones
	for _, threshold := range []int64{100, 500, 1000, 5000, 10000} {
		threshold := threshold
		badges = append(badges, domain.Badge{
			ID:          fmt.Sprintf("points_%d", threshold),
			Name:        fmt.Sprintf("%d Points", threshold),
			Description: fmt.Sprintf("Earned %d points", threshold),
			Icon:        "⭐",
			Category:    domain.BadgeCatMilestone,
			Tier:        domain.TierSpecial,
			Threshold:   threshold,
			Predicate:   func(m domain.UserMetrics) bool { return m.TotalPoints >= threshold },
		})
	}

	// Special and exclusive achievements
	badges = append(badges,
		domain.Badge{
			ID: "first_book", Name: "First Steps", Description: "Added your first book",
			Icon: "📚", Category: domain.BadgeCatMilestone, Tier: domain.TierSpecial,
			Predicate: func(m domain.UserMetrics) bool { return m.BooksAdded >= 1 },
		},
		domain.Badge{
			ID: "first_task", Name: "Getting Started", Description: "Completed your first task",
			Icon: "✅", Category: domain.BadgeCatMilestone, Tier: domain.TierSpecial,
			Predicate: func(m domain.UserMetrics) bool { return m.TasksCompleted >= 1 },
		},
		domain.Badge{
			ID: "first_quote", Name: "Quote Beginner", Description: "Submitted your first quote",
			Icon: "💬", Category: domain.BadgeCatMilestone, Tier: domain.TierSpecial,
			Predicate: func(m domain.UserMetrics) bool { return m.QuotesVerified >= 1 },
		},
		domain.Badge{
			ID: "series_master", Name: "Series Master", Description: "Completed a book series",
			Icon: "📚", Category: domain.BadgeCatReading, Tier: domain.TierExclusive,
			Predicate: func(m domain.UserMetrics) bool { return m.SeriesCompleted >= 1 },
		},
		domain.Badge{
			ID: "weekly_warrior", Name: "Weekly Warrior", Description: "Read 500+ pages in a week",
			Icon: "⚔️", Category: domain.BadgeCatReading, Tier: domain.TierExclusive,
			Predicate: func(m domain.UserMetrics) bool { return m.WeeklyPages >= 500 },
		},
		domain.Badge{
			ID: "monthly_master", Name: "Monthly Master", Description: "Read every day for a month",
			Icon: "📅", Category: domain.BadgeCatReading, Tier: domain.TierExclusive,
			Predicate: func(m domain.UserMetrics) bool { return m.ReadingStreak >= 30 },
		},
		domain.Badge{
			ID: "focus_marathon", Name: "Focus Marathon", Description: "Focused for 3+ hours in one day",
			Icon: "🏃", Category: domain.BadgeCatProductivity, Tier: domain.TierExclusive,
			Predicate: func(m domain.UserMetrics) bool { return m.FocusMinutesToday >= 180 },
		},
		domain.Badge{
			ID: "productivity_beast", Name: "Productivity Beast", Description: "Completed 10+ tasks in one day",
			Icon: "🦁", Category: domain.BadgeCatProductivity, Tier: domain.TierExclusive,
			Predicate: func(m domain.UserMetrics) bool { return m.TasksToday >= 10 },
		},
	)

	return badges
}

// evaluateBadges awards every catalog badge whose predicate the metrics
// satisfy and the user does not already hold. Each new badge earns a fixed
// system grant. Idempotent: the (user, badge) uniqueness constraint absorbs
// duplicate awards.
func (e *Engine) evaluateBadges(userID string, m domain.UserMetrics) ([]domain.Badge, error) {
	var newlyAwarded []domain.Badge

	for _, badge := range e.catalog {
		held, err := e.db.HasBadge(userID, badge.ID)
		if err != nil {
			return nil, fmt.Errorf("check badge %s: %w", badge.ID, err)
		}
		if held || badge.Predicate == nil || !badge.Predicate(m) {
			continue
		}

		isNew, err := e.db.AwardBadge(userID, badge.ID, badge.Description, e.clock().UTC())
		if err != nil {
			return nil, fmt.Errorf("award badge %s: %w", badge.ID, err)
		}
		if !isNew {
			continue // Lost a check-then-insert race; treat as already awarded
		}

		metrics.BadgesAwarded.WithLabelValues(string(badge.Tier)).Inc()
		_, err = e.apply(GrantRequest{
			UserID:      userID,
			Points:      BadgePoints,
			Source:      domain.SourceSystem,
			Description: "Earned badge: " + badge.Description,
			Category:    "badge",
			ReferenceID: badge.ID,
		})
		if err != nil {
			return newlyAwarded, fmt.Errorf("badge grant %s: %w", badge.ID, err)
		}
		newlyAwarded = append(newlyAwarded, badge)
	}

	return newlyAwarded, nil
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
