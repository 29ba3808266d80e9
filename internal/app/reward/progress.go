package reward

import (
	"time"

	"github.com/nooksandhook-ux/NOOKSBRIDGE/internal/domain"
)

// Milestone ladders for the dashboard progress widgets. Each query reports
// the next unmet milestone; a finished ladder is omitted.
var (
	bookMilestones  = []int64{5, 10, 25, 50, 100}
	taskMilestones  = []int64{10, 50, 100, 500, 1000}
	pointMilestones = []int64{100, 500, 1000, 5000, 10000}
)

// AchievementProgress reports progress toward the next unmet milestone in
// each ladder (books finished, tasks completed, total points).
func (e *Engine) AchievementProgress(userID string) (map[string]domain.MilestoneProgress, error) {
	books, err := e.db.CountFinishedBooks(userID)
	if err != nil {
		return nil, err
	}
	tasks, err := e.db.CountCompletedTasks(userID)
	if err != nil {
		return nil, err
	}
	progress, err := e.db.GetProgress(userID)
	if err != nil {
		return nil, err
	}

	result := make(map[string]domain.MilestoneProgress)
	if p, ok := nextMilestone(books, bookMilestones); ok {
		result["books"] = p
	}
	if p, ok := nextMilestone(tasks, taskMilestones); ok {
		result["tasks"] = p
	}
	if p, ok := nextMilestone(progress.TotalPoints, pointMilestones); ok {
		result["points"] = p
	}
	return result, nil
}

func nextMilestone(current int64, ladder []int64) (domain.MilestoneProgress, bool) {
	for _, target := range ladder {
		if target > current {
			return domain.MilestoneProgress{
				Current:    current,
				Target:     target,
				Percentage: float64(current) / float64(target) * 100,
			}, true
		}
	}
	return domain.MilestoneProgress{}, false
}

// ─── Statistics ─────────────────────────────────────────────────────────────

// Statistics aggregates a user's grant history for the rewards dashboard.
type Statistics struct {
	PointsBySource   map[string]domain.GrantStats `json:"points_by_source"`
	PointsByCategory map[string]domain.GrantStats `json:"points_by_category"`
	RecentPoints     int64                        `json:"recent_points"` // Trailing 30 days
	RecentCount      int64                        `json:"recent_count"`
}

// Statistics returns grant aggregates by source and category plus trailing
// 30-day activity.
func (e *Engine) Statistics(userID string) (Statistics, error) {
	stats := Statistics{
		PointsBySource:   make(map[string]domain.GrantStats),
		PointsByCategory: make(map[string]domain.GrantStats),
	}

	bySource, err := e.db.GrantStatsBySource(userID)
	if err != nil {
		return stats, err
	}
	for _, s := range bySource {
		stats.PointsBySource[s.Key] = s
	}

	byCategory, err := e.db.GrantStatsByCategory(userID)
	if err != nil {
		return stats, err
	}
	for _, s := range byCategory {
		stats.PointsByCategory[s.Key] = s
	}

	points, count, err := e.db.PointsSince(userID, e.clock().UTC().AddDate(0, 0, -30))
	if err != nil {
		return stats, err
	}
	stats.RecentPoints = points
	stats.RecentCount = count
	return stats, nil
}

// ─── Achievements Summary ───────────────────────────────────────────────────

// Summary is the headline view of a user's progression.
type Summary struct {
	BadgesEarned       int                 `json:"badges_earned"`
	TotalBadges        int                 `json:"total_badges"`
	Level              int                 `json:"current_level"`
	TotalPoints        int64               `json:"total_points"`
	PointsToNext       int64               `json:"points_to_next_level"`
	BooksFinished      int64               `json:"books_finished"`
	TasksCompleted     int64               `json:"tasks_completed"`
	ReadingStreak      int                 `json:"reading_streak"`
	ProductivityStreak int                 `json:"productivity_streak"`
	GoalRewards        []domain.PointGrant `json:"goal_rewards"`
}

// Summary returns the user's achievement overview, including the ten most
// recent goal bonuses.
func (e *Engine) Summary(userID string) (Summary, error) {
	var s Summary

	progress, err := e.db.GetProgress(userID)
	if err != nil {
		return s, err
	}
	s.Level = progress.Level
	s.TotalPoints = progress.TotalPoints
	s.PointsToNext = PointsToNextLevel(progress.TotalPoints)
	s.TotalBadges = len(e.catalog)

	if s.BadgesEarned, err = e.db.UserBadgeCount(userID); err != nil {
		return s, err
	}
	if s.BooksFinished, err = e.db.CountFinishedBooks(userID); err != nil {
		return s, err
	}
	if s.TasksCompleted, err = e.db.CountCompletedTasks(userID); err != nil {
		return s, err
	}

	now := e.clock().UTC()
	readingDays, err := e.db.ReadingDaysSince(userID, time.Unix(0, 0))
	if err != nil {
		return s, err
	}
	s.ReadingStreak = Streak(readingDays, now)

	taskDays, err := e.db.TaskDaysSince(userID, time.Unix(0, 0))
	if err != nil {
		return s, err
	}
	s.ProductivityStreak = Streak(taskDays, now)

	if s.GoalRewards, err = e.db.ListGoalGrants(userID, 10); err != nil {
		return s, err
	}
	return s, nil
}
