package reward

import (
	"fmt"
	"time"

	"github.com/nooksandhook-ux/NOOKSBRIDGE/internal/domain"
	"github.com/nooksandhook-ux/NOOKSBRIDGE/internal/infra/metrics"
)

// Goal evaluation runs on every grant. Each rule is independent and pays out
// at most once per calendar window: the (user, goal, window_key) uniqueness
// constraint in goal_awards makes duplicate suppression a storage guarantee
// rather than a check-then-act race. Window keys are the UTC calendar day,
// ISO week, and calendar month.

// evaluateGoals checks the four goal rules for a user. The caller holds the
// user's grant lock.
func (e *Engine) evaluateGoals(userID string) error {
	now := e.clock().UTC()
	dayStart := dayOf(now)

	// Weekly reading: 500+ pages in the trailing 7 days
	pages, err := e.db.PagesReadSince(userID, now.AddDate(0, 0, -7))
	if err != nil {
		return fmt.Errorf("weekly pages: %w", err)
	}
	if pages >= 500 {
		err := e.claimGoal(userID, domain.GoalWeeklyReading, isoWeek(now), now,
			fmt.Sprintf("Read %d pages this week!", pages), "reading_goal")
		if err != nil {
			return err
		}
	}

	// Monthly consistency: a reading session on 30 distinct days in the
	// trailing 30 days
	readingDays, err := e.db.ReadingDaysSince(userID, dayStart.AddDate(0, 0, -30))
	if err != nil {
		return fmt.Errorf("reading days: %w", err)
	}
	if len(readingDays) >= 30 {
		err := e.claimGoal(userID, domain.GoalMonthlyConsistency, monthKey(now), now,
			"Read every day this month!", "consistency_goal")
		if err != nil {
			return err
		}
	}

	// Daily productivity milestone: 10+ tasks today
	tasksToday, err := e.db.TasksCompletedBetween(userID, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return fmt.Errorf("tasks today: %w", err)
	}
	if tasksToday >= 10 {
		err := e.claimGoal(userID, domain.GoalProductivityMilestone, dayKey(now), now,
			fmt.Sprintf("Completed %d tasks today!", tasksToday), "productivity_goal")
		if err != nil {
			return err
		}
	}

	// Daily focus marathon: 3+ hours of task time today
	focusToday, err := e.db.FocusMinutesBetween(userID, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return fmt.Errorf("focus today: %w", err)
	}
	if focusToday >= 180 {
		err := e.claimGoal(userID, domain.GoalFocusMarathon, dayKey(now), now,
			fmt.Sprintf("Focused for %.1f hours today!", float64(focusToday)/60), "focus_goal")
		if err != nil {
			return err
		}
	}

	return nil
}

// claimGoal grants a goal bonus if the window has not been claimed yet.
// A lost claim means another writer already granted this window and is
// absorbed silently.
func (e *Engine) claimGoal(userID string, goal domain.GoalType, windowKey string, now time.Time, description, category string) error {
	claimed, err := e.db.ClaimGoalWindow(userID, goal, windowKey, now)
	if err != nil {
		return fmt.Errorf("claim %s window: %w", goal, err)
	}
	if !claimed {
		return nil
	}

	metrics.GoalBonuses.WithLabelValues(string(goal)).Inc()
	_, err = e.apply(GrantRequest{
		UserID:      userID,
		Points:      0, // The goal bonus is added by the grant path
		Source:      domain.SourceSystem,
		Description: description,
		Category:    category,
		GoalType:    goal,
	})
	if err != nil {
		return fmt.Errorf("goal grant %s: %w", goal, err)
	}
	return nil
}

// isoWeek returns "YYYY-Www" for the given time.
func isoWeek(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// monthKey returns "YYYY-MM" for the given time.
func monthKey(t time.Time) string {
	return t.UTC().Format("2006-01")
}

// dayKey returns "YYYY-MM-DD" for the given time.
func dayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
