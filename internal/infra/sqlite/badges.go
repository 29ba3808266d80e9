package sqlite

import (
	"database/sql"
	"time"

	"github.com/nooksandhook-ux/NOOKSBRIDGE/internal/domain"
)

// ─── User Badges ────────────────────────────────────────────────────────────

// AwardBadge records a badge as earned. Returns false if the user already
// holds it; the (user_id, badge_id) primary key makes the award idempotent.
func (d *DB) AwardBadge(userID, badgeID, description string, at time.Time) (bool, error) {
	result, err := d.db.Exec(
		`INSERT OR IGNORE INTO user_badges (user_id, badge_id, description, earned_at) VALUES (?, ?, ?, ?)`,
		userID, badgeID, description, at.Unix(),
	)
	if err != nil {
		return false, err
	}
	n, _ := result.RowsAffected()
	return n > 0, nil // true = newly awarded
}

// HasBadge checks whether the user already holds a badge.
func (d *DB) HasBadge(userID, badgeID string) (bool, error) {
	var count int
	err := d.db.QueryRow(
		`SELECT COUNT(*) FROM user_badges WHERE user_id = ? AND badge_id = ?`,
		userID, badgeID,
	).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListUserBadges returns all badges earned by a user, newest first.
func (d *DB) ListUserBadges(userID string) ([]domain.UserBadge, error) {
	rows, err := d.db.Query(
		`SELECT user_id, badge_id, description, earned_at FROM user_badges
		 WHERE user_id = ? ORDER BY earned_at DESC, badge_id`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var badges []domain.UserBadge
	for rows.Next() {
		var b domain.UserBadge
		var earnedAt int64
		if err := rows.Scan(&b.UserID, &b.BadgeID, &b.Description, &earnedAt); err != nil {
			return nil, err
		}
		b.EarnedAt = time.Unix(earnedAt, 0).UTC()
		badges = append(badges, b)
	}
	return badges, rows.Err()
}

// UserBadgeCount returns how many badges a user has earned.
func (d *DB) UserBadgeCount(userID string) (int, error) {
	var count int
	err := d.db.QueryRow(`SELECT COUNT(*) FROM user_badges WHERE user_id = ?`, userID).Scan(&count)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return count, err
}
