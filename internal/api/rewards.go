package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/nooksandhook-ux/NOOKSBRIDGE/internal/app/reward"
	"github.com/nooksandhook-ux/NOOKSBRIDGE/internal/domain"
)

// ─── Users ──────────────────────────────────────────────────────────────────

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"user_id"`
	}
	if err := decodeJSON(r, &req); err != nil || req.UserID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "user_id is required"})
		return
	}

	created, err := s.engine.Register(req.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, map[string]any{"user_id": req.UserID, "created": created})
}

// ─── Grants ─────────────────────────────────────────────────────────────────

type grantRequest struct {
	UserID      string `json:"user_id"`
	Points      int64  `json:"points"`
	Source      string `json:"source"`
	Description string `json:"description"`
	Category    string `json:"category"`
	ReferenceID string `json:"reference_id,omitempty"`
	GoalType    string `json:"goal_type,omitempty"`
}

func (s *Server) handleGrant(w http.ResponseWriter, r *http.Request) {
	var req grantRequest
	if err := decodeJSON(r, &req); err != nil || req.UserID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "user_id is required"})
		return
	}

	grant, err := s.engine.Grant(reward.GrantRequest{
		UserID:      req.UserID,
		Points:      req.Points,
		Source:      domain.GrantSource(req.Source),
		Description: req.Description,
		Category:    req.Category,
		ReferenceID: req.ReferenceID,
		GoalType:    domain.GoalType(req.GoalType),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, grant)
}

// ─── Queries ────────────────────────────────────────────────────────────────

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	balance, err := s.engine.Balance(userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"total_points": balance})
}

func (s *Server) handleLevel(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	level, err := s.engine.Level(userID)
	if err != nil {
		writeError(w, err)
		return
	}
	toNext, err := s.engine.PointsToNext(userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"level":                level,
		"points_to_next_level": toNext,
	})
}

func (s *Server) handleUserBadges(w http.ResponseWriter, r *http.Request) {
	badges, err := s.engine.Badges(chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"badges": badges})
}

func (s *Server) handleBadgeCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"badges": s.engine.CatalogBadges()})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	grants, err := s.engine.History(chi.URLParam(r, "userID"), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"grants": grants})
}

func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := s.engine.Statistics(chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.engine.Summary(chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	progress, err := s.engine.AchievementProgress(chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"progress": progress})
}
