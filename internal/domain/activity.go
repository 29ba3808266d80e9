package domain

import "time"

// ─── Activity Facts ─────────────────────────────────────────────────────────
// The surrounding app records these facts as they happen; the badge and goal
// evaluators derive their metrics from them.

// ReadingSession is one logged reading sitting.
type ReadingSession struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	BookID          string    `json:"book_id,omitempty"`
	Date            time.Time `json:"date"`
	PagesRead       int64     `json:"pages_read"`
	DurationMinutes int64     `json:"duration_minutes"`
}

// CompletedTask is one finished focus-timer task.
type CompletedTask struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	TaskName        string    `json:"task_name"`
	CompletedAt     time.Time `json:"completed_at"`
	DurationMinutes int64     `json:"duration_minutes"`
	Priority        string    `json:"priority"` // low / medium / high
	Rating          int       `json:"rating"`   // Productivity self-rating 1-5
}

// TaskPoints computes the points a completed task earns.
// 1 point per 5 minutes, adjusted by self-rating and priority, floor 1.
func TaskPoints(durationMinutes int64, rating int, priority string) int64 {
	base := durationMinutes / 5
	if base < 1 {
		base = 1
	}
	priorityBonus := map[string]int64{"low": 0, "medium": 1, "high": 2}
	bonus, ok := priorityBonus[priority]
	if !ok {
		bonus = 1
	}
	points := base + int64(rating-3) + bonus
	if points < 1 {
		points = 1
	}
	return points
}
