package reward

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/nooksandhook-ux/NOOKSBRIDGE/internal/domain"
	"github.com/nooksandhook-ux/NOOKSBRIDGE/internal/infra/sqlite"
)

func newTestEngine(t *testing.T) (*Engine, *sqlite.DB) {
	t.Helper()
	dir := t.TempDir()
	db, err := sqlite.Open(dir)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return New(db), db
}

func fixClock(e *Engine, at time.Time) {
	e.clock = func() time.Time { return at }
}

func mustBalance(t *testing.T, e *Engine, userID string) int64 {
	t.Helper()
	balance, err := e.Balance(userID)
	if err != nil {
		t.Fatalf("Balance() error: %v", err)
	}
	return balance
}

func hasBadgeID(badges []domain.UserBadge, id string) bool {
	for _, b := range badges {
		if b.BadgeID == id {
			return true
		}
	}
	return false
}

// ─── Registration ───────────────────────────────────────────────────────────

func TestRegister(t *testing.T) {
	e, db := newTestEngine(t)

	created, err := e.Register("alice")
	if err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	if !created {
		t.Error("first Register() should create the user")
	}

	if balance := mustBalance(t, e, "alice"); balance != 10 {
		t.Errorf("balance after registration = %d, want 10", balance)
	}

	// Second registration is a no-op, no second welcome grant
	created, err = e.Register("alice")
	if err != nil {
		t.Fatalf("second Register() error: %v", err)
	}
	if created {
		t.Error("second Register() should be a no-op")
	}
	if balance := mustBalance(t, e, "alice"); balance != 10 {
		t.Errorf("balance after re-registration = %d, want 10", balance)
	}

	n, _ := db.CountGrants("alice")
	if n != 1 {
		t.Errorf("grant count = %d, want 1", n)
	}
}

// ─── Grants ─────────────────────────────────────────────────────────────────

func TestGrant_UnknownUser(t *testing.T) {
	e, _ := newTestEngine(t)

	_, err := e.Grant(GrantRequest{UserID: "nobody", Points: 10, Source: domain.SourceAdmin})
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("Grant() error = %v, want ErrUserNotFound", err)
	}
}

func TestGrant_ZeroPoints(t *testing.T) {
	e, db := newTestEngine(t)
	db.CreateUser("alice")

	_, err := e.Grant(GrantRequest{UserID: "alice", Points: 0, Source: domain.SourceAdmin})
	if !errors.Is(err, domain.ErrZeroPoints) {
		t.Errorf("Grant(0) error = %v, want ErrZeroPoints", err)
	}

	// Zero base points are fine when a goal bonus tops them up
	grant, err := e.Grant(GrantRequest{
		UserID: "alice", Points: 0, Source: domain.SourceSystem, GoalType: domain.GoalQuoteReflection,
	})
	if err != nil {
		t.Fatalf("goal grant error: %v", err)
	}
	if grant.Points != 50 {
		t.Errorf("goal grant points = %d, want 50", grant.Points)
	}
}

func TestGrant_Simple(t *testing.T) {
	e, db := newTestEngine(t)
	db.CreateUser("alice")

	grant, err := e.Grant(GrantRequest{
		UserID: "alice", Points: 50, Source: domain.SourceAdmin, Description: "manual award",
	})
	if err != nil {
		t.Fatalf("Grant() error: %v", err)
	}
	if grant.Points != 50 {
		t.Errorf("grant points = %d, want 50", grant.Points)
	}
	if grant.Category != "general" {
		t.Errorf("default category = %q, want general", grant.Category)
	}
	if grant.ID == "" {
		t.Error("grant should get an ID")
	}

	if balance := mustBalance(t, e, "alice"); balance != 50 {
		t.Errorf("balance = %d, want 50", balance)
	}
	level, _ := e.Level("alice")
	if level != 1 {
		t.Errorf("level = %d, want 1", level)
	}
}

func TestGrant_LevelUpPaysBonus(t *testing.T) {
	e, db := newTestEngine(t)
	db.CreateUser("alice")

	e.Grant(GrantRequest{UserID: "alice", Points: 99, Source: domain.SourceAdmin})
	if level, _ := e.Level("alice"); level != 1 {
		t.Fatalf("level at 99 points = %d, want 1", level)
	}

	// +1 crosses the 100-point threshold: +50 level bonus, then the
	// points_100 badge pays another 25
	e.Grant(GrantRequest{UserID: "alice", Points: 1, Source: domain.SourceAdmin})

	if level, _ := e.Level("alice"); level != 2 {
		t.Errorf("level = %d, want 2", level)
	}
	if balance := mustBalance(t, e, "alice"); balance != 175 {
		t.Errorf("balance = %d, want 175 (99+1+50+25)", balance)
	}

	badges, _ := e.Badges("alice")
	if !hasBadgeID(badges, "points_100") {
		t.Error("points_100 badge should be awarded")
	}

	history, _ := e.History("alice", 10)
	var levelUps int
	for _, g := range history {
		if g.Category == "level_up" {
			levelUps++
			if g.Description != "Level 2 reached!" {
				t.Errorf("level-up description = %q", g.Description)
			}
			if g.Points != 50 {
				t.Errorf("level-up bonus = %d, want 50", g.Points)
			}
		}
	}
	if levelUps != 1 {
		t.Errorf("level-up grants = %d, want 1", levelUps)
	}
}

func TestGrant_GoalBonusCascade(t *testing.T) {
	e, db := newTestEngine(t)
	db.CreateUser("alice")

	grant, err := e.Grant(GrantRequest{
		UserID:      "alice",
		Points:      50,
		Source:      domain.SourceNook,
		Description: "Finished the trilogy",
		GoalType:    domain.GoalSeriesCompleted,
	})
	if err != nil {
		t.Fatalf("Grant() error: %v", err)
	}

	// 50 base + 250 series bonus on the one grant
	if grant.Points != 300 {
		t.Errorf("grant points = %d, want 300", grant.Points)
	}
	if !grant.IsGoalReward {
		t.Error("goal grant should be flagged IsGoalReward")
	}
	if !strings.Contains(grant.Description, "(Goal bonus: +250)") {
		t.Errorf("description = %q, should note the bonus", grant.Description)
	}

	// Cascade: 300 -> level 2 (+50) -> points_100 badge (+25) ->
	// series_master badge (+25) -> 400 -> level 3 (+75) = 475
	if balance := mustBalance(t, e, "alice"); balance != 475 {
		t.Errorf("balance = %d, want 475", balance)
	}
	if level, _ := e.Level("alice"); level != 3 {
		t.Errorf("level = %d, want 3", level)
	}

	badges, _ := e.Badges("alice")
	if !hasBadgeID(badges, "series_master") {
		t.Error("series_master badge should be awarded")
	}
	if !hasBadgeID(badges, "points_100") {
		t.Error("points_100 badge should be awarded")
	}
}

func TestGrant_BadgeAwardedOnce(t *testing.T) {
	e, db := newTestEngine(t)
	db.CreateUser("alice")

	e.Grant(GrantRequest{UserID: "alice", Points: 100, Source: domain.SourceAdmin})
	e.Grant(GrantRequest{UserID: "alice", Points: 100, Source: domain.SourceAdmin})

	badges, _ := e.Badges("alice")
	var n int
	for _, b := range badges {
		if b.BadgeID == "points_100" {
			n++
		}
	}
	if n != 1 {
		t.Errorf("points_100 awarded %d times, want 1", n)
	}

	// 100 + 50 (level 2) + 25 (badge) + 100 = 275
	if balance := mustBalance(t, e, "alice"); balance != 275 {
		t.Errorf("balance = %d, want 275", balance)
	}
}

// ─── Activity Actions ───────────────────────────────────────────────────────

func TestBookLifecycle(t *testing.T) {
	e, db := newTestEngine(t)
	db.CreateUser("alice")

	bookID, err := e.RecordBookAdded("alice", "Dune")
	if err != nil {
		t.Fatalf("RecordBookAdded() error: %v", err)
	}
	if bookID == "" {
		t.Fatal("RecordBookAdded() should return a book ID")
	}

	// 5 for the book + 25 for the first_book badge
	if balance := mustBalance(t, e, "alice"); balance != 30 {
		t.Errorf("balance after add = %d, want 30", balance)
	}

	if err := e.RecordBookFinished("alice", bookID, "Dune"); err != nil {
		t.Fatalf("RecordBookFinished() error: %v", err)
	}

	// +150 (50 base + 100 goal bonus) -> 180 -> level 2 (+50) -> 230 ->
	// points_100 badge (+25) -> 255
	if balance := mustBalance(t, e, "alice"); balance != 255 {
		t.Errorf("balance after finish = %d, want 255", balance)
	}

	n, _ := db.CountGrantsByGoalType("alice", domain.GoalBookFinished)
	if n != 1 {
		t.Errorf("book_finished goal grants = %d, want 1", n)
	}

	// Finishing again is a no-op
	if err := e.RecordBookFinished("alice", bookID, "Dune"); err != nil {
		t.Fatalf("second RecordBookFinished() error: %v", err)
	}
	if balance := mustBalance(t, e, "alice"); balance != 255 {
		t.Errorf("balance after double finish = %d, want 255", balance)
	}
}

func TestRecordReadingSession_CapsPoints(t *testing.T) {
	e, db := newTestEngine(t)
	db.CreateUser("alice")

	_, err := e.RecordReadingSession(domain.ReadingSession{
		UserID: "alice", PagesRead: 35, DurationMinutes: 40,
	})
	if err != nil {
		t.Fatalf("RecordReadingSession() error: %v", err)
	}

	if balance := mustBalance(t, e, "alice"); balance != 20 {
		t.Errorf("balance = %d, want 20 (35 pages capped)", balance)
	}

	m, err := e.Metrics("alice")
	if err != nil {
		t.Fatalf("Metrics() error: %v", err)
	}
	if m.ReadingStreak != 1 {
		t.Errorf("ReadingStreak = %d, want 1", m.ReadingStreak)
	}
}

func TestRecordReadingSession_ZeroPages(t *testing.T) {
	e, db := newTestEngine(t)
	db.CreateUser("alice")

	s, err := e.RecordReadingSession(domain.ReadingSession{
		UserID: "alice", DurationMinutes: 15,
	})
	if err != nil {
		t.Fatalf("RecordReadingSession() error: %v", err)
	}
	if s.ID == "" {
		t.Error("session should get an ID")
	}

	// No grant, but the session still counts toward the streak
	if balance := mustBalance(t, e, "alice"); balance != 0 {
		t.Errorf("balance = %d, want 0", balance)
	}
	n, _ := db.CountGrants("alice")
	if n != 0 {
		t.Errorf("grant count = %d, want 0", n)
	}
	m, _ := e.Metrics("alice")
	if m.ReadingStreak != 1 {
		t.Errorf("ReadingStreak = %d, want 1", m.ReadingStreak)
	}
}

func TestRecordTaskCompletion_Defaults(t *testing.T) {
	e, db := newTestEngine(t)
	db.CreateUser("alice")

	task, err := e.RecordTaskCompletion(domain.CompletedTask{
		UserID: "alice", TaskName: "write report", DurationMinutes: 25,
	})
	if err != nil {
		t.Fatalf("RecordTaskCompletion() error: %v", err)
	}
	if task.Priority != "medium" {
		t.Errorf("default priority = %q, want medium", task.Priority)
	}
	if task.Rating != 3 {
		t.Errorf("default rating = %d, want 3", task.Rating)
	}

	// 6 task points (25/5 + 0 + 1) + 25 for first_task
	if balance := mustBalance(t, e, "alice"); balance != 31 {
		t.Errorf("balance = %d, want 31", balance)
	}
	badges, _ := e.Badges("alice")
	if !hasBadgeID(badges, "first_task") {
		t.Error("first_task badge should be awarded")
	}
}

func TestRecordQuoteVerified(t *testing.T) {
	e, db := newTestEngine(t)
	db.CreateUser("alice")

	if err := e.RecordQuoteVerified("alice", 10); err != nil {
		t.Fatalf("RecordQuoteVerified() error: %v", err)
	}

	// 10 + 50 quote_reflection bonus + 25 first_quote badge
	if balance := mustBalance(t, e, "alice"); balance != 85 {
		t.Errorf("balance = %d, want 85", balance)
	}
	n, _ := db.CountVerifiedQuotes("alice")
	if n != 1 {
		t.Errorf("verified quotes = %d, want 1", n)
	}
	badges, _ := e.Badges("alice")
	if !hasBadgeID(badges, "first_quote") {
		t.Error("first_quote badge should be awarded")
	}
}

// ─── Goal Evaluation ────────────────────────────────────────────────────────

func TestWeeklyReadingGoal_OncePerWeek(t *testing.T) {
	e, db := newTestEngine(t)
	db.CreateUser("alice")
	fixClock(e, time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC))

	for i := 0; i < 4; i++ {
		_, err := e.RecordReadingSession(domain.ReadingSession{
			UserID: "alice", PagesRead: 200,
		})
		if err != nil {
			t.Fatalf("session %d error: %v", i, err)
		}
	}

	n, _ := db.CountGrantsByGoalType("alice", domain.GoalWeeklyReading)
	if n != 1 {
		t.Errorf("weekly_reading_goal grants = %d, want 1", n)
	}

	badges, _ := e.Badges("alice")
	if !hasBadgeID(badges, "weekly_warrior") {
		t.Error("weekly_warrior badge should be awarded")
	}

	// 4x20 session points + 25 weekly_warrior + 150 weekly goal bonus +
	// 50 level-up + 25 points_100 badge
	if balance := mustBalance(t, e, "alice"); balance != 330 {
		t.Errorf("balance = %d, want 330", balance)
	}
}

func TestFocusMarathonGoal(t *testing.T) {
	e, db := newTestEngine(t)
	db.CreateUser("alice")
	fixClock(e, time.Date(2026, 8, 26, 18, 0, 0, 0, time.UTC))

	_, err := e.RecordTaskCompletion(domain.CompletedTask{
		UserID: "alice", TaskName: "deep work", DurationMinutes: 200,
	})
	if err != nil {
		t.Fatalf("RecordTaskCompletion() error: %v", err)
	}

	n, _ := db.CountGrantsByGoalType("alice", domain.GoalFocusMarathon)
	if n != 1 {
		t.Errorf("focus_marathon goal grants = %d, want 1", n)
	}
	badges, _ := e.Badges("alice")
	if !hasBadgeID(badges, "focus_marathon") {
		t.Error("focus_marathon badge should be awarded")
	}

	// 41 task points + 25 first_task + 25 focus_marathon badge +
	// 200 goal bonus + 50 level-up = 341
	if balance := mustBalance(t, e, "alice"); balance != 341 {
		t.Errorf("balance = %d, want 341", balance)
	}

	// A second task the same day must not re-claim the goal
	e.RecordTaskCompletion(domain.CompletedTask{
		UserID: "alice", TaskName: "more work", DurationMinutes: 10,
	})
	n, _ = db.CountGrantsByGoalType("alice", domain.GoalFocusMarathon)
	if n != 1 {
		t.Errorf("focus_marathon goal grants after second task = %d, want 1", n)
	}
}

func TestProductivityMilestoneGoal(t *testing.T) {
	e, db := newTestEngine(t)
	db.CreateUser("alice")
	fixClock(e, time.Date(2026, 8, 26, 9, 0, 0, 0, time.UTC))

	for i := 0; i < 10; i++ {
		_, err := e.RecordTaskCompletion(domain.CompletedTask{
			UserID: "alice", TaskName: "quick task", DurationMinutes: 5,
		})
		if err != nil {
			t.Fatalf("task %d error: %v", i, err)
		}
	}

	n, _ := db.CountGrantsByGoalType("alice", domain.GoalProductivityMilestone)
	if n != 1 {
		t.Errorf("productivity_milestone goal grants = %d, want 1", n)
	}
	badges, _ := e.Badges("alice")
	if !hasBadgeID(badges, "productivity_beast") {
		t.Error("productivity_beast badge should be awarded")
	}

	// 10x2 task points + 25 first_task + 25 productivity_beast +
	// 75 goal bonus + 50 level-up = 195
	if balance := mustBalance(t, e, "alice"); balance != 195 {
		t.Errorf("balance = %d, want 195", balance)
	}
}

func TestMonthlyConsistencyGoal(t *testing.T) {
	e, db := newTestEngine(t)
	db.CreateUser("alice")
	now := time.Date(2026, 8, 27, 15, 0, 0, 0, time.UTC)
	fixClock(e, now)

	// A session on each of the trailing 30 days
	day := time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 30; i++ {
		err := db.InsertReadingSession(domain.ReadingSession{
			ID:        fmt.Sprintf("s%d", i),
			UserID:    "alice",
			Date:      day.AddDate(0, 0, -i).Add(10 * time.Hour),
			PagesRead: 10,
		})
		if err != nil {
			t.Fatalf("InsertReadingSession() error: %v", err)
		}
	}

	// Any grant triggers evaluation
	if _, err := e.Grant(GrantRequest{UserID: "alice", Points: 1, Source: domain.SourceAdmin}); err != nil {
		t.Fatalf("Grant() error: %v", err)
	}

	n, _ := db.CountGrantsByGoalType("alice", domain.GoalMonthlyConsistency)
	if n != 1 {
		t.Errorf("monthly_consistency goal grants = %d, want 1", n)
	}

	badges, _ := e.Badges("alice")
	if !hasBadgeID(badges, "monthly_master") {
		t.Error("monthly_master badge should be awarded")
	}
	if !hasBadgeID(badges, "reading_streak_30_silver") {
		t.Error("reading_streak_30_silver badge should be awarded")
	}

	m, _ := e.Metrics("alice")
	if m.ReadingStreak != 30 {
		t.Errorf("ReadingStreak = %d, want 30", m.ReadingStreak)
	}
}
