// Package shop implements the points shop: a static catalog, the purchase
// flow, and mystery box resolution. Purchases debit the ledger through the
// reward engine; mystery boxes resolve through an injectable random source
// so outcomes are reproducible in tests.
package shop

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nooksandhook-ux/NOOKSBRIDGE/internal/app/reward"
	"github.com/nooksandhook-ux/NOOKSBRIDGE/internal/domain"
	"github.com/nooksandhook-ux/NOOKSBRIDGE/internal/infra/metrics"
	"github.com/nooksandhook-ux/NOOKSBRIDGE/internal/infra/sqlite"
)

// Catalog returns the static shop catalog.
func Catalog() []domain.ShopItem {
	return []domain.ShopItem{
		// Themes
		{ID: "theme_ocean", Name: "Ocean Theme", Description: "Calming blue ocean theme", Cost: 500, Type: domain.ItemTheme, Icon: "🌊"},
		{ID: "theme_forest", Name: "Forest Theme", Description: "Natural green forest theme", Cost: 500, Type: domain.ItemTheme, Icon: "🌲"},
		{ID: "theme_sunset", Name: "Sunset Theme", Description: "Warm orange sunset theme", Cost: 750, Type: domain.ItemTheme, Icon: "🌅"},
		{ID: "theme_midnight", Name: "Midnight Theme", Description: "Deep dark midnight theme", Cost: 750, Type: domain.ItemTheme, Icon: "🌙"},
		{ID: "theme_aurora", Name: "Aurora Theme", Description: "Mystical aurora theme", Cost: 1000, Type: domain.ItemTheme, Icon: "🌌"},

		// Profile customizations
		{ID: "avatar_frame_gold", Name: "Gold Avatar Frame", Description: "Elegant gold border for your avatar", Cost: 300, Type: domain.ItemAvatarFrame, Icon: "🥇"},
		{ID: "avatar_frame_silver", Name: "Silver Avatar Frame", Description: "Sleek silver border for your avatar", Cost: 200, Type: domain.ItemAvatarFrame, Icon: "🥈"},
		{ID: "title_bookworm", Name: "Bookworm Title", Description: `Display "Bookworm" next to your name`, Cost: 400, Type: domain.ItemTitle, Icon: "🐛"},
		{ID: "title_scholar", Name: "Scholar Title", Description: `Display "Scholar" next to your name`, Cost: 600, Type: domain.ItemTitle, Icon: "🎓"},
		{ID: "title_master", Name: "Reading Master Title", Description: `Display "Reading Master" next to your name`, Cost: 1000, Type: domain.ItemTitle, Icon: "👑"},

		// Mystery boxes
		{ID: "mystery_box_small", Name: "Small Mystery Box", Description: "Random reward: 50-200 points or theme", Cost: 250, Type: domain.ItemMysteryBox, Icon: "📦"},
		{ID: "mystery_box_large", Name: "Large Mystery Box", Description: "Random reward: 200-500 points or premium item", Cost: 600, Type: domain.ItemMysteryBox, Icon: "🎁"},

		// Boosters
		{ID: "point_booster_2x", Name: "2x Point Booster", Description: "Double points for 24 hours", Cost: 800, Type: domain.ItemBooster, Icon: "⚡"},
		{ID: "streak_shield", Name: "Streak Shield", Description: "Protect your streak for one missed day", Cost: 400, Type: domain.ItemBooster, Icon: "🛡️"},
	}
}

// Service manages shop purchases.
type Service struct {
	db     *sqlite.DB
	engine *reward.Engine
	items  map[string]domain.ShopItem

	mu  sync.Mutex
	rng *rand.Rand
}

// NewService creates a shop service. A nil rng gets a time-seeded source.
func NewService(db *sqlite.DB, engine *reward.Engine, rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	items := make(map[string]domain.ShopItem)
	for _, item := range Catalog() {
		items[item.ID] = item
	}
	return &Service{db: db, engine: engine, items: items, rng: rng}
}

// Purchase buys a catalog item with points. Preconditions: the item exists,
// the user can afford it, and non-consumables are not already owned. No side
// effects occur on failure. Mystery boxes are resolved exactly once and the
// outcome is stored on the returned purchase.
func (s *Service) Purchase(userID, itemID string) (domain.Purchase, error) {
	var purchase domain.Purchase

	item, ok := s.items[itemID]
	if !ok {
		return purchase, domain.ErrItemNotFound
	}

	progress, err := s.db.GetProgress(userID)
	if err != nil {
		return purchase, err
	}
	if progress.TotalPoints < item.Cost {
		return purchase, domain.ErrInsufficientPoints
	}

	if !item.Type.Consumable() {
		owned, err := s.db.HasPurchase(userID, itemID)
		if err != nil {
			return purchase, err
		}
		if owned {
			return purchase, domain.ErrAlreadyOwned
		}
	}

	purchase = domain.Purchase{
		ID:          uuid.NewString(),
		UserID:      userID,
		ItemID:      item.ID,
		ItemName:    item.Name,
		Cost:        item.Cost,
		Type:        item.Type,
		PurchasedAt: time.Now().UTC(),
		IsActive:    true,
	}

	// Debit through the ledger
	_, err = s.engine.Grant(reward.GrantRequest{
		UserID:      userID,
		Points:      -item.Cost,
		Source:      domain.SourceShop,
		Description: "Purchased: " + item.Name,
		Category:    "purchase",
		ReferenceID: purchase.ID,
	})
	if err != nil {
		return purchase, fmt.Errorf("debit points: %w", err)
	}
	metrics.PointsSpent.Add(float64(item.Cost))

	if item.Type == domain.ItemMysteryBox {
		outcome, err := s.openMysteryBox(userID, item.ID)
		if err != nil {
			return purchase, err
		}
		purchase.MysteryReward = &outcome
	}

	if err := s.db.InsertPurchase(purchase); err != nil {
		return purchase, fmt.Errorf("record purchase: %w", err)
	}
	metrics.Purchases.WithLabelValues(string(item.Type)).Inc()

	return purchase, nil
}

// Items returns the shop catalog.
func (s *Service) Items() []domain.ShopItem {
	return Catalog()
}

// Owned returns the user's active purchases, newest first.
func (s *Service) Owned(userID string) ([]domain.Purchase, error) {
	return s.db.ListPurchases(userID)
}
