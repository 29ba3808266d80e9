package domain

import "time"

// ─── Shop Types ─────────────────────────────────────────────────────────────

// ItemType classifies shop catalog entries. Mystery boxes and boosters are
// consumable; everything else is owned once.
type ItemType string

const (
	ItemTheme       ItemType = "theme"
	ItemAvatarFrame ItemType = "avatar_frame"
	ItemTitle       ItemType = "title"
	ItemMysteryBox  ItemType = "mystery_box"
	ItemBooster     ItemType = "booster"
)

// Consumable reports whether an item type can be purchased repeatedly.
func (t ItemType) Consumable() bool {
	return t == ItemMysteryBox || t == ItemBooster
}

// ShopItem is a static catalog entry purchasable with points.
type ShopItem struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Cost        int64    `json:"cost"`
	Type        ItemType `json:"type"`
	Icon        string   `json:"icon"`
}

// MysteryRewardKind is the shape of a resolved mystery box outcome.
type MysteryRewardKind string

const (
	MysteryPoints  MysteryRewardKind = "points"
	MysteryTheme   MysteryRewardKind = "theme"
	MysteryPremium MysteryRewardKind = "premium"
)

// MysteryReward is the outcome of opening a mystery box, resolved once at
// purchase time and stored on the Purchase.
type MysteryReward struct {
	Kind   MysteryRewardKind `json:"kind"`
	Points int64             `json:"points,omitempty"`  // Kind == points
	ItemID string            `json:"item_id,omitempty"` // Kind == theme/premium
}

// Purchase records a shop transaction. Never mutated after creation except
// deactivation, which is outside the engine's contract.
type Purchase struct {
	ID            string         `json:"id"`
	UserID        string         `json:"user_id"`
	ItemID        string         `json:"item_id"`
	ItemName      string         `json:"item_name"`
	Cost          int64          `json:"cost"`
	Type          ItemType       `json:"type"`
	PurchasedAt   time.Time      `json:"purchased_at"`
	IsActive      bool           `json:"is_active"`
	Source        string         `json:"source,omitempty"` // "mystery_box" for box drops
	MysteryReward *MysteryReward `json:"mystery_reward,omitempty"`
}
