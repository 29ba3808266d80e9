package sqlite

import (
	"database/sql"
	"time"

	"github.com/nooksandhook-ux/NOOKSBRIDGE/internal/domain"
)

// ─── Purchases ──────────────────────────────────────────────────────────────

// InsertPurchase records a shop transaction, including any resolved mystery
// box outcome.
func (d *DB) InsertPurchase(p domain.Purchase) error {
	var kind, item any
	var points any
	if p.MysteryReward != nil {
		kind = string(p.MysteryReward.Kind)
		if p.MysteryReward.Points > 0 {
			points = p.MysteryReward.Points
		}
		if p.MysteryReward.ItemID != "" {
			item = p.MysteryReward.ItemID
		}
	}
	_, err := d.db.Exec(
		`INSERT INTO purchases (id, user_id, item_id, item_name, cost, type, purchased_at, is_active, source, mystery_kind, mystery_points, mystery_item)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.UserID, p.ItemID, p.ItemName, p.Cost, string(p.Type),
		p.PurchasedAt.Unix(), p.IsActive, p.Source, kind, points, item,
	)
	return err
}

// HasPurchase checks whether the user already owns an item.
func (d *DB) HasPurchase(userID, itemID string) (bool, error) {
	var count int
	err := d.db.QueryRow(
		`SELECT COUNT(*) FROM purchases WHERE user_id = ? AND item_id = ?`,
		userID, itemID,
	).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListPurchases returns the user's active purchases, newest first.
func (d *DB) ListPurchases(userID string) ([]domain.Purchase, error) {
	rows, err := d.db.Query(
		`SELECT id, user_id, item_id, item_name, cost, type, purchased_at, is_active, source, mystery_kind, mystery_points, mystery_item
		 FROM purchases WHERE user_id = ? AND is_active = 1 ORDER BY purchased_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var purchases []domain.Purchase
	for rows.Next() {
		var p domain.Purchase
		var purchasedAt int64
		var kind, item sql.NullString
		var points sql.NullInt64
		err := rows.Scan(&p.ID, &p.UserID, &p.ItemID, &p.ItemName, &p.Cost, &p.Type,
			&purchasedAt, &p.IsActive, &p.Source, &kind, &points, &item)
		if err != nil {
			return nil, err
		}
		p.PurchasedAt = time.Unix(purchasedAt, 0).UTC()
		if kind.Valid {
			p.MysteryReward = &domain.MysteryReward{
				Kind:   domain.MysteryRewardKind(kind.String),
				Points: points.Int64,
				ItemID: item.String,
			}
		}
		purchases = append(purchases, p)
	}
	return purchases, rows.Err()
}
