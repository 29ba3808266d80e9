package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/nooksandhook-ux/NOOKSBRIDGE/internal/domain"
)

// ─── Users ──────────────────────────────────────────────────────────────────

// CreateUser inserts a progress row for a new user.
// Returns false if the user already exists.
func (d *DB) CreateUser(userID string) (bool, error) {
	result, err := d.db.Exec(
		`INSERT OR IGNORE INTO user_progress (user_id, total_points, level) VALUES (?, 0, 1)`,
		userID,
	)
	if err != nil {
		return false, err
	}
	n, _ := result.RowsAffected()
	return n > 0, nil
}

// GetProgress returns the cached balance/level for a user.
// Returns domain.ErrUserNotFound if the user was never registered.
func (d *DB) GetProgress(userID string) (domain.UserProgress, error) {
	p := domain.UserProgress{UserID: userID}
	err := d.db.QueryRow(
		`SELECT total_points, level FROM user_progress WHERE user_id = ?`, userID,
	).Scan(&p.TotalPoints, &p.Level)
	if err == sql.ErrNoRows {
		return p, domain.ErrUserNotFound
	}
	return p, err
}

// SetLevel persists a newly reached level.
func (d *DB) SetLevel(userID string, level int) error {
	_, err := d.db.Exec(`UPDATE user_progress SET level = ? WHERE user_id = ?`, level, userID)
	return err
}

// ─── Point Ledger ───────────────────────────────────────────────────────────

// ApplyGrant atomically inserts a ledger entry and updates the user's cached
// total. The pair either fully applies or not at all. Returns the balance
// after the grant.
func (d *DB) ApplyGrant(g domain.PointGrant) (int64, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO point_grants (id, user_id, points, source, description, category, date, reference_id, goal_type, is_goal_reward)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.UserID, g.Points, string(g.Source), g.Description, g.Category,
		g.Date.Unix(), nullStr(g.ReferenceID), nullStr(string(g.GoalType)), g.IsGoalReward,
	)
	if err != nil {
		return 0, fmt.Errorf("insert grant: %w", err)
	}

	result, err := tx.Exec(
		`UPDATE user_progress SET total_points = total_points + ? WHERE user_id = ?`,
		g.Points, g.UserID,
	)
	if err != nil {
		return 0, fmt.Errorf("update balance: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return 0, domain.ErrUserNotFound
	}

	var balance int64
	err = tx.QueryRow(
		`SELECT total_points FROM user_progress WHERE user_id = ?`, g.UserID,
	).Scan(&balance)
	if err != nil {
		return 0, fmt.Errorf("read balance: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return balance, nil
}

// ListGrants returns the user's most recent ledger entries.
func (d *DB) ListGrants(userID string, limit int) ([]domain.PointGrant, error) {
	rows, err := d.db.Query(
		`SELECT id, user_id, points, source, description, category, date, reference_id, goal_type, is_goal_reward
		 FROM point_grants WHERE user_id = ? ORDER BY date DESC, id DESC LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanGrants(rows)
}

// CountGrants returns the number of ledger entries for a user.
func (d *DB) CountGrants(userID string) (int64, error) {
	var n int64
	err := d.db.QueryRow(`SELECT COUNT(*) FROM point_grants WHERE user_id = ?`, userID).Scan(&n)
	return n, err
}

// CountGrantsByGoalType counts grants carrying a specific goal type.
func (d *DB) CountGrantsByGoalType(userID string, goalType domain.GoalType) (int64, error) {
	var n int64
	err := d.db.QueryRow(
		`SELECT COUNT(*) FROM point_grants WHERE user_id = ? AND goal_type = ?`,
		userID, string(goalType),
	).Scan(&n)
	return n, err
}

// GrantStatsBySource aggregates points and counts grouped by source.
func (d *DB) GrantStatsBySource(userID string) ([]domain.GrantStats, error) {
	return d.grantStats(userID, "source")
}

// GrantStatsByCategory aggregates points and counts grouped by category.
func (d *DB) GrantStatsByCategory(userID string) ([]domain.GrantStats, error) {
	return d.grantStats(userID, "category")
}

func (d *DB) grantStats(userID, column string) ([]domain.GrantStats, error) {
	// column is a fixed identifier supplied by the two callers above
	rows, err := d.db.Query(
		`SELECT `+column+`, SUM(points), COUNT(*) FROM point_grants
		 WHERE user_id = ? GROUP BY `+column,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []domain.GrantStats
	for rows.Next() {
		var s domain.GrantStats
		if err := rows.Scan(&s.Key, &s.TotalPoints, &s.Count); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// PointsSince sums points granted on or after the given instant.
func (d *DB) PointsSince(userID string, since time.Time) (int64, int64, error) {
	var points sql.NullInt64
	var count int64
	err := d.db.QueryRow(
		`SELECT SUM(points), COUNT(*) FROM point_grants WHERE user_id = ? AND date >= ?`,
		userID, since.Unix(),
	).Scan(&points, &count)
	if err != nil {
		return 0, 0, err
	}
	return points.Int64, count, nil
}

// ListGoalGrants returns the most recent goal-bonus grants.
func (d *DB) ListGoalGrants(userID string, limit int) ([]domain.PointGrant, error) {
	rows, err := d.db.Query(
		`SELECT id, user_id, points, source, description, category, date, reference_id, goal_type, is_goal_reward
		 FROM point_grants WHERE user_id = ? AND is_goal_reward = 1
		 ORDER BY date DESC, id DESC LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanGrants(rows)
}

// ─── Goal Windows ───────────────────────────────────────────────────────────

// ClaimGoalWindow marks a goal window as awarded. Returns false if the
// window was already claimed; the primary key absorbs the race.
func (d *DB) ClaimGoalWindow(userID string, goalType domain.GoalType, windowKey string, at time.Time) (bool, error) {
	result, err := d.db.Exec(
		`INSERT OR IGNORE INTO goal_awards (user_id, goal_type, window_key, awarded_at) VALUES (?, ?, ?, ?)`,
		userID, string(goalType), windowKey, at.Unix(),
	)
	if err != nil {
		return false, err
	}
	n, _ := result.RowsAffected()
	return n > 0, nil
}

// ─── Helpers ────────────────────────────────────────────────────────────────

func scanGrants(rows *sql.Rows) ([]domain.PointGrant, error) {
	var grants []domain.PointGrant
	for rows.Next() {
		var g domain.PointGrant
		var date int64
		var refID, goalType sql.NullString
		err := rows.Scan(&g.ID, &g.UserID, &g.Points, &g.Source, &g.Description,
			&g.Category, &date, &refID, &goalType, &g.IsGoalReward)
		if err != nil {
			return nil, err
		}
		g.Date = time.Unix(date, 0).UTC()
		g.ReferenceID = refID.String
		g.GoalType = domain.GoalType(goalType.String)
		grants = append(grants, g)
	}
	return grants, rows.Err()
}

func nullStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}
