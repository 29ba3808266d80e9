package reward

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nooksandhook-ux/NOOKSBRIDGE/internal/domain"
	"github.com/nooksandhook-ux/NOOKSBRIDGE/internal/infra/metrics"
	"github.com/nooksandhook-ux/NOOKSBRIDGE/internal/infra/sqlite"
)

// Engine is the single entry point for point grants. Every grant appends to
// the ledger, updates the cached balance, settles level-up bonuses, then runs
// the badge and goal evaluators. Grants for the same user are serialized by
// a per-user mutex, which removes the lost-update and duplicate-award races.
type Engine struct {
	db      *sqlite.DB
	catalog []domain.Badge
	clock   func() time.Time

	mu        sync.Mutex
	userLocks map[string]*sync.Mutex
}

// New creates a reward engine over the given storage.
func New(db *sqlite.DB) *Engine {
	return &Engine{
		db:        db,
		catalog:   BadgeCatalog(),
		clock:     time.Now,
		userLocks: make(map[string]*sync.Mutex),
	}
}

// GrantRequest carries the caller-supplied fields of a point grant.
type GrantRequest struct {
	UserID      string
	Points      int64
	Source      domain.GrantSource
	Description string
	Category    string
	ReferenceID string
	GoalType    domain.GoalType
}

// Grant records a point grant and applies all derived effects: goal-type
// bonus, level-up bonus cascade, badge evaluation, and goal evaluation.
// Returns the originally recorded grant, not the derivative bonus grants.
// A missing user is a precondition violation (domain.ErrUserNotFound).
func (e *Engine) Grant(req GrantRequest) (domain.PointGrant, error) {
	if req.Points == 0 && req.GoalType == "" {
		return domain.PointGrant{}, domain.ErrZeroPoints
	}

	lock := e.userLock(req.UserID)
	lock.Lock()
	defer lock.Unlock()

	grant, err := e.apply(req)
	if err != nil {
		return grant, err
	}

	if err := e.runEvaluators(req.UserID); err != nil {
		return grant, err
	}
	return grant, nil
}

// apply inserts one grant, updates the balance, and settles the level.
// It does not run the evaluators: derivative grants (badges, goals,
// level-ups) use this path so evaluation cannot recurse. The caller holds
// the user lock.
func (e *Engine) apply(req GrantRequest) (domain.PointGrant, error) {
	// Goal-type bonus is added on top of the base points
	if bonus, ok := domain.GoalBonuses[req.GoalType]; ok {
		req.Points += bonus
		req.Description += fmt.Sprintf(" (Goal bonus: +%d)", bonus)
	}

	grant := domain.PointGrant{
		ID:           uuid.NewString(),
		UserID:       req.UserID,
		Points:       req.Points,
		Source:       req.Source,
		Description:  req.Description,
		Category:     req.Category,
		Date:         e.clock().UTC(),
		ReferenceID:  req.ReferenceID,
		GoalType:     req.GoalType,
		IsGoalReward: req.GoalType != "",
	}
	if grant.Category == "" {
		grant.Category = "general"
	}

	balance, err := e.db.ApplyGrant(grant)
	if err != nil {
		return grant, err
	}

	metrics.GrantsTotal.WithLabelValues(string(grant.Source)).Inc()
	if grant.Points > 0 {
		metrics.PointsAwarded.WithLabelValues(string(grant.Source)).Add(float64(grant.Points))
	}

	if err := e.settleLevel(req.UserID, balance); err != nil {
		return grant, err
	}
	return grant, nil
}

// settleLevel recomputes the level after a balance change and pays the
// level-up bonus. A bounded loop rather than recursion: each bonus can push
// the balance over another threshold, so iterate until the level stabilizes.
func (e *Engine) settleLevel(userID string, balance int64) error {
	for {
		progress, err := e.db.GetProgress(userID)
		if err != nil {
			return fmt.Errorf("read progress: %w", err)
		}

		newLevel := LevelForPoints(progress.TotalPoints)
		if newLevel <= progress.Level {
			return nil
		}

		if err := e.db.SetLevel(userID, newLevel); err != nil {
			return fmt.Errorf("save level: %w", err)
		}
		metrics.LevelUps.Inc()

		bonus := domain.PointGrant{
			ID:          uuid.NewString(),
			UserID:      userID,
			Points:      int64(newLevel) * 25,
			Source:      domain.SourceSystem,
			Description: fmt.Sprintf("Level %d reached!", newLevel),
			Category:    "level_up",
			Date:        e.clock().UTC(),
		}
		if balance, err = e.db.ApplyGrant(bonus); err != nil {
			return fmt.Errorf("level bonus: %w", err)
		}
		metrics.GrantsTotal.WithLabelValues(string(domain.SourceSystem)).Inc()
		metrics.PointsAwarded.WithLabelValues(string(domain.SourceSystem)).Add(float64(bonus.Points))
	}
}

// runEvaluators checks badges and goals after a grant settles. Badge bonus
// grants can themselves satisfy point-milestone badges, so badge evaluation
// loops to a fixpoint (bounded by the catalog size).
func (e *Engine) runEvaluators(userID string) error {
	for range e.catalog {
		m, err := e.collectMetrics(userID)
		if err != nil {
			return err
		}
		newly, err := e.evaluateBadges(userID, m)
		if err != nil {
			return err
		}
		if len(newly) == 0 {
			break
		}
	}
	return e.evaluateGoals(userID)
}

// collectMetrics builds the activity snapshot fed to badge predicates.
func (e *Engine) collectMetrics(userID string) (domain.UserMetrics, error) {
	var m domain.UserMetrics
	now := e.clock().UTC()
	dayStart := dayOf(now)

	progress, err := e.db.GetProgress(userID)
	if err != nil {
		return m, err
	}
	m.TotalPoints = progress.TotalPoints

	if m.BooksAdded, err = e.db.CountBooks(userID); err != nil {
		return m, err
	}
	if m.BooksFinished, err = e.db.CountFinishedBooks(userID); err != nil {
		return m, err
	}
	if m.QuotesVerified, err = e.db.CountVerifiedQuotes(userID); err != nil {
		return m, err
	}
	if m.TasksCompleted, err = e.db.CountCompletedTasks(userID); err != nil {
		return m, err
	}
	if m.SeriesCompleted, err = e.db.CountGrantsByGoalType(userID, domain.GoalSeriesCompleted); err != nil {
		return m, err
	}

	focusMinutes, err := e.db.TotalFocusMinutes(userID)
	if err != nil {
		return m, err
	}
	m.TotalFocusHours = float64(focusMinutes) / 60

	readingDays, err := e.db.ReadingDaysSince(userID, time.Unix(0, 0))
	if err != nil {
		return m, err
	}
	m.ReadingStreak = Streak(readingDays, now)

	taskDays, err := e.db.TaskDaysSince(userID, time.Unix(0, 0))
	if err != nil {
		return m, err
	}
	m.ProductivityStreak = Streak(taskDays, now)

	if m.WeeklyPages, err = e.db.PagesReadSince(userID, now.AddDate(0, 0, -7)); err != nil {
		return m, err
	}
	if m.TasksToday, err = e.db.TasksCompletedBetween(userID, dayStart, dayStart.AddDate(0, 0, 1)); err != nil {
		return m, err
	}
	if m.FocusMinutesToday, err = e.db.FocusMinutesBetween(userID, dayStart, dayStart.AddDate(0, 0, 1)); err != nil {
		return m, err
	}

	return m, nil
}

// userLock returns the mutex serializing grants for one user.
func (e *Engine) userLock(userID string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	lock, ok := e.userLocks[userID]
	if !ok {
		lock = &sync.Mutex{}
		e.userLocks[userID] = lock
	}
	return lock
}

// ─── Queries ────────────────────────────────────────────────────────────────

// Balance returns the user's current point balance.
func (e *Engine) Balance(userID string) (int64, error) {
	p, err := e.db.GetProgress(userID)
	return p.TotalPoints, err
}

// Level returns the user's current level.
func (e *Engine) Level(userID string) (int, error) {
	p, err := e.db.GetProgress(userID)
	return p.Level, err
}

// PointsToNext returns points remaining until the user's next level.
func (e *Engine) PointsToNext(userID string) (int64, error) {
	p, err := e.db.GetProgress(userID)
	if err != nil {
		return 0, err
	}
	return PointsToNextLevel(p.TotalPoints), nil
}

// Badges returns the badges a user has earned, newest first.
func (e *Engine) Badges(userID string) ([]domain.UserBadge, error) {
	return e.db.ListUserBadges(userID)
}

// CatalogBadges returns the full static badge catalog.
func (e *Engine) CatalogBadges() []domain.Badge {
	return e.catalog
}

// History returns the user's most recent grants.
func (e *Engine) History(userID string, limit int) ([]domain.PointGrant, error) {
	return e.db.ListGrants(userID, limit)
}

// Metrics returns the user's current activity snapshot.
func (e *Engine) Metrics(userID string) (domain.UserMetrics, error) {
	return e.collectMetrics(userID)
}
