package reward

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/nooksandhook-ux/NOOKSBRIDGE/internal/domain"
)

// Action entry points: the surrounding app reports a user action here, the
// engine records the activity fact and pays the matching grant in one call.
// Point amounts follow the production tariff (book added 5, reading capped
// at 20 per session, task points from duration/rating/priority).

// Register creates a user and pays the welcome grant. Idempotent: a second
// registration for the same ID is a no-op.
func (e *Engine) Register(userID string) (bool, error) {
	created, err := e.db.CreateUser(userID)
	if err != nil {
		return false, fmt.Errorf("create user: %w", err)
	}
	if !created {
		return false, nil
	}

	_, err = e.Grant(GrantRequest{
		UserID:      userID,
		Points:      10,
		Source:      domain.SourceRegistration,
		Description: "Welcome to Nook & Hook!",
		Category:    "milestone",
	})
	if err != nil {
		return true, err
	}
	return true, nil
}

// RecordBookAdded stores a new book and grants the shelf-building reward.
// Returns the book ID.
func (e *Engine) RecordBookAdded(userID, title string) (string, error) {
	bookID := uuid.NewString()
	if err := e.db.InsertBook(bookID, userID, title, e.clock().UTC()); err != nil {
		return "", fmt.Errorf("insert book: %w", err)
	}

	_, err := e.Grant(GrantRequest{
		UserID:      userID,
		Points:      5,
		Source:      domain.SourceNook,
		Description: "Added book: " + title,
		Category:    "book_management",
		ReferenceID: bookID,
	})
	return bookID, err
}

// RecordBookFinished marks a book finished and pays the completion grant
// with the book_finished goal bonus. Finishing the same book twice is a
// no-op.
func (e *Engine) RecordBookFinished(userID, bookID, title string) error {
	finished, err := e.db.MarkBookFinished(bookID, userID, e.clock().UTC())
	if err != nil {
		return fmt.Errorf("mark finished: %w", err)
	}
	if !finished {
		return nil
	}

	_, err = e.Grant(GrantRequest{
		UserID:      userID,
		Points:      50,
		Source:      domain.SourceNook,
		Description: fmt.Sprintf("Finished reading %q", title),
		Category:    "book_completion",
		ReferenceID: bookID,
		GoalType:    domain.GoalBookFinished,
	})
	return err
}

// RecordReadingSession stores a reading sitting and grants one point per
// page, capped at 20 per session. Sessions with no pages earn nothing but
// still count toward streaks and goals.
func (e *Engine) RecordReadingSession(s domain.ReadingSession) (domain.ReadingSession, error) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.Date.IsZero() {
		s.Date = e.clock().UTC()
	}
	if err := e.db.InsertReadingSession(s); err != nil {
		return s, fmt.Errorf("insert session: %w", err)
	}

	if s.PagesRead <= 0 {
		// No point grant, but streak/goal state changed
		lock := e.userLock(s.UserID)
		lock.Lock()
		defer lock.Unlock()
		return s, e.runEvaluators(s.UserID)
	}

	points := s.PagesRead
	if points > 20 {
		points = 20
	}
	_, err := e.Grant(GrantRequest{
		UserID:      s.UserID,
		Points:      points,
		Source:      domain.SourceNook,
		Description: fmt.Sprintf("Read %d pages", s.PagesRead),
		Category:    "reading_progress",
		ReferenceID: s.BookID,
	})
	return s, err
}

// RecordTaskCompletion stores a finished focus task and grants points from
// its duration, self-rating, and priority.
func (e *Engine) RecordTaskCompletion(t domain.CompletedTask) (domain.CompletedTask, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CompletedAt.IsZero() {
		t.CompletedAt = e.clock().UTC()
	}
	if t.Priority == "" {
		t.Priority = "medium"
	}
	if t.Rating == 0 {
		t.Rating = 3
	}
	if err := e.db.InsertCompletedTask(t); err != nil {
		return t, fmt.Errorf("insert task: %w", err)
	}

	_, err := e.Grant(GrantRequest{
		UserID:      t.UserID,
		Points:      domain.TaskPoints(t.DurationMinutes, t.Rating, t.Priority),
		Source:      domain.SourceHook,
		Description: "Completed task: " + t.TaskName,
		Category:    "task_completion",
		ReferenceID: t.ID,
	})
	return t, err
}

// RecordQuoteVerified stores an admin-verified quote and grants its reward
// amount with the quote_reflection bonus.
func (e *Engine) RecordQuoteVerified(userID string, rewardPoints int64) error {
	quoteID := uuid.NewString()
	if err := e.db.InsertVerifiedQuote(quoteID, userID, e.clock().UTC()); err != nil {
		return fmt.Errorf("insert quote: %w", err)
	}

	_, err := e.Grant(GrantRequest{
		UserID:      userID,
		Points:      rewardPoints,
		Source:      domain.SourceQuotes,
		Description: "Quote verified",
		Category:    "quote_reward",
		ReferenceID: quoteID,
		GoalType:    domain.GoalQuoteReflection,
	})
	return err
}
