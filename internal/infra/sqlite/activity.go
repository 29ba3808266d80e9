package sqlite

import (
	"database/sql"
	"time"

	"github.com/nooksandhook-ux/NOOKSBRIDGE/internal/domain"
)

// ─── Books ──────────────────────────────────────────────────────────────────

// InsertBook records a book added to the user's shelf.
func (d *DB) InsertBook(id, userID, title string, addedAt time.Time) error {
	_, err := d.db.Exec(
		`INSERT INTO books (id, user_id, title, added_at, finished) VALUES (?, ?, ?, ?, 0)`,
		id, userID, title, addedAt.Unix(),
	)
	return err
}

// MarkBookFinished flips a book to finished. Returns false if the book was
// already finished or does not exist.
func (d *DB) MarkBookFinished(id, userID string, at time.Time) (bool, error) {
	result, err := d.db.Exec(
		`UPDATE books SET finished = 1, finished_at = ? WHERE id = ? AND user_id = ? AND finished = 0`,
		at.Unix(), id, userID,
	)
	if err != nil {
		return false, err
	}
	n, _ := result.RowsAffected()
	return n > 0, nil
}

// CountBooks returns how many books the user has added.
func (d *DB) CountBooks(userID string) (int64, error) {
	var n int64
	err := d.db.QueryRow(`SELECT COUNT(*) FROM books WHERE user_id = ?`, userID).Scan(&n)
	return n, err
}

// CountFinishedBooks returns how many books the user has finished.
func (d *DB) CountFinishedBooks(userID string) (int64, error) {
	var n int64
	err := d.db.QueryRow(
		`SELECT COUNT(*) FROM books WHERE user_id = ? AND finished = 1`, userID,
	).Scan(&n)
	return n, err
}

// ─── Reading Sessions ───────────────────────────────────────────────────────

// InsertReadingSession records a reading sitting.
func (d *DB) InsertReadingSession(s domain.ReadingSession) error {
	_, err := d.db.Exec(
		`INSERT INTO reading_sessions (id, user_id, book_id, date, pages_read, duration_minutes)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		s.ID, s.UserID, nullStr(s.BookID), s.Date.Unix(), s.PagesRead, s.DurationMinutes,
	)
	return err
}

// PagesReadSince sums pages read on or after the given instant.
func (d *DB) PagesReadSince(userID string, since time.Time) (int64, error) {
	var pages sql.NullInt64
	err := d.db.QueryRow(
		`SELECT SUM(pages_read) FROM reading_sessions WHERE user_id = ? AND date >= ?`,
		userID, since.Unix(),
	).Scan(&pages)
	if err != nil {
		return 0, err
	}
	return pages.Int64, nil
}

// ReadingDaysSince returns the distinct UTC calendar days with a reading
// session on or after the given instant.
func (d *DB) ReadingDaysSince(userID string, since time.Time) ([]time.Time, error) {
	return d.activityDays(
		`SELECT DISTINCT date FROM reading_sessions WHERE user_id = ? AND date >= ?`,
		userID, since,
	)
}

// ─── Completed Tasks ────────────────────────────────────────────────────────

// InsertCompletedTask records a finished focus-timer task.
func (d *DB) InsertCompletedTask(t domain.CompletedTask) error {
	_, err := d.db.Exec(
		`INSERT INTO completed_tasks (id, user_id, task_name, completed_at, duration_minutes, priority, rating)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.UserID, t.TaskName, t.CompletedAt.Unix(), t.DurationMinutes, t.Priority, t.Rating,
	)
	return err
}

// CountCompletedTasks returns the user's lifetime completed task count.
func (d *DB) CountCompletedTasks(userID string) (int64, error) {
	var n int64
	err := d.db.QueryRow(`SELECT COUNT(*) FROM completed_tasks WHERE user_id = ?`, userID).Scan(&n)
	return n, err
}

// TasksCompletedBetween counts tasks completed in [from, to).
func (d *DB) TasksCompletedBetween(userID string, from, to time.Time) (int64, error) {
	var n int64
	err := d.db.QueryRow(
		`SELECT COUNT(*) FROM completed_tasks WHERE user_id = ? AND completed_at >= ? AND completed_at < ?`,
		userID, from.Unix(), to.Unix(),
	).Scan(&n)
	return n, err
}

// TotalFocusMinutes sums all task durations for a user.
func (d *DB) TotalFocusMinutes(userID string) (int64, error) {
	var minutes sql.NullInt64
	err := d.db.QueryRow(
		`SELECT SUM(duration_minutes) FROM completed_tasks WHERE user_id = ?`, userID,
	).Scan(&minutes)
	if err != nil {
		return 0, err
	}
	return minutes.Int64, nil
}

// FocusMinutesBetween sums task durations completed in [from, to).
func (d *DB) FocusMinutesBetween(userID string, from, to time.Time) (int64, error) {
	var minutes sql.NullInt64
	err := d.db.QueryRow(
		`SELECT SUM(duration_minutes) FROM completed_tasks WHERE user_id = ? AND completed_at >= ? AND completed_at < ?`,
		userID, from.Unix(), to.Unix(),
	).Scan(&minutes)
	if err != nil {
		return 0, err
	}
	return minutes.Int64, nil
}

// TaskDaysSince returns the distinct UTC calendar days with a completed task
// on or after the given instant.
func (d *DB) TaskDaysSince(userID string, since time.Time) ([]time.Time, error) {
	return d.activityDays(
		`SELECT DISTINCT completed_at FROM completed_tasks WHERE user_id = ? AND completed_at >= ?`,
		userID, since,
	)
}

// ─── Verified Quotes ────────────────────────────────────────────────────────

// InsertVerifiedQuote records an admin-verified quote submission.
func (d *DB) InsertVerifiedQuote(id, userID string, at time.Time) error {
	_, err := d.db.Exec(
		`INSERT INTO verified_quotes (id, user_id, verified_at) VALUES (?, ?, ?)`,
		id, userID, at.Unix(),
	)
	return err
}

// CountVerifiedQuotes returns the user's verified quote count.
func (d *DB) CountVerifiedQuotes(userID string) (int64, error) {
	var n int64
	err := d.db.QueryRow(`SELECT COUNT(*) FROM verified_quotes WHERE user_id = ?`, userID).Scan(&n)
	return n, err
}

// ─── Helpers ────────────────────────────────────────────────────────────────

// activityDays collapses raw timestamps to distinct UTC calendar days.
func (d *DB) activityDays(query, userID string, since time.Time) ([]time.Time, error) {
	rows, err := d.db.Query(query, userID, since.Unix())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seen := make(map[time.Time]bool)
	var days []time.Time
	for rows.Next() {
		var ts int64
		if err := rows.Scan(&ts); err != nil {
			return nil, err
		}
		t := time.Unix(ts, 0).UTC()
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		if !seen[day] {
			seen[day] = true
			days = append(days, day)
		}
	}
	return days, rows.Err()
}
