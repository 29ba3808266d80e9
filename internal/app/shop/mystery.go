package shop

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nooksandhook-ux/NOOKSBRIDGE/internal/app/reward"
	"github.com/nooksandhook-ux/NOOKSBRIDGE/internal/domain"
	"github.com/nooksandhook-ux/NOOKSBRIDGE/internal/infra/metrics"
)

// Mystery box outcome tables. Every droppable item exists in the catalog.
var (
	smallBoxThemes  = []string{"theme_ocean", "theme_forest"}
	largeBoxThemes  = []string{"theme_sunset", "theme_midnight", "theme_aurora"}
	largeBoxPremium = []string{"title_scholar", "avatar_frame_gold"}
)

// openMysteryBox resolves a weighted random outcome for a purchased box.
// Small box: 70% points in [50,200], 30% a theme. Large box: 50% points in
// [200,500], 30% a theme, 20% a premium item. The resolution is computed
// once; point outcomes are granted through the engine, item outcomes insert
// a zero-cost purchase.
func (s *Service) openMysteryBox(userID, boxID string) (domain.MysteryReward, error) {
	s.mu.Lock()
	roll := s.rng.Float64()
	var points int64
	var pick int
	switch boxID {
	case "mystery_box_small":
		points = 50 + s.rng.Int63n(151) // [50, 200]
		pick = s.rng.Intn(len(smallBoxThemes))
	default:
		points = 200 + s.rng.Int63n(301) // [200, 500]
		pick = s.rng.Intn(3)
	}
	s.mu.Unlock()

	if boxID == "mystery_box_small" {
		if roll < 0.7 {
			return s.grantMysteryPoints(userID, points)
		}
		return s.grantMysteryItem(userID, smallBoxThemes[pick], domain.MysteryTheme)
	}

	switch {
	case roll < 0.5:
		return s.grantMysteryPoints(userID, points)
	case roll < 0.8:
		return s.grantMysteryItem(userID, largeBoxThemes[pick], domain.MysteryTheme)
	default:
		return s.grantMysteryItem(userID, largeBoxPremium[pick%len(largeBoxPremium)], domain.MysteryPremium)
	}
}

func (s *Service) grantMysteryPoints(userID string, points int64) (domain.MysteryReward, error) {
	outcome := domain.MysteryReward{Kind: domain.MysteryPoints, Points: points}
	_, err := s.engine.Grant(reward.GrantRequest{
		UserID:      userID,
		Points:      points,
		Source:      domain.SourceMysteryBox,
		Description: fmt.Sprintf("Mystery box reward: %d points!", points),
		Category:    "mystery_reward",
	})
	if err != nil {
		return outcome, fmt.Errorf("mystery points: %w", err)
	}
	metrics.MysteryOutcomes.WithLabelValues(string(domain.MysteryPoints)).Inc()
	return outcome, nil
}

func (s *Service) grantMysteryItem(userID, itemID string, kind domain.MysteryRewardKind) (domain.MysteryReward, error) {
	outcome := domain.MysteryReward{Kind: kind, ItemID: itemID}
	item := s.items[itemID]

	err := s.db.InsertPurchase(domain.Purchase{
		ID:          uuid.NewString(),
		UserID:      userID,
		ItemID:      item.ID,
		ItemName:    item.Name,
		Cost:        0,
		Type:        item.Type,
		PurchasedAt: time.Now().UTC(),
		IsActive:    true,
		Source:      "mystery_box",
	})
	if err != nil {
		return outcome, fmt.Errorf("mystery item: %w", err)
	}
	metrics.MysteryOutcomes.WithLabelValues(string(kind)).Inc()
	return outcome, nil
}
