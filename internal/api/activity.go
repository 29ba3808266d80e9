package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nooksandhook-ux/NOOKSBRIDGE/internal/domain"
)

// ─── Activity Recording ─────────────────────────────────────────────────────

func (s *Server) handleBookAdded(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"user_id"`
		Title  string `json:"title"`
	}
	if err := decodeJSON(r, &req); err != nil || req.UserID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "user_id is required"})
		return
	}

	bookID, err := s.engine.RecordBookAdded(req.UserID, req.Title)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"book_id": bookID})
}

func (s *Server) handleBookFinished(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"user_id"`
		Title  string `json:"title"`
	}
	if err := decodeJSON(r, &req); err != nil || req.UserID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "user_id is required"})
		return
	}

	err := s.engine.RecordBookFinished(req.UserID, chi.URLParam(r, "bookID"), req.Title)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReadingSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID          string    `json:"user_id"`
		BookID          string    `json:"book_id,omitempty"`
		Date            time.Time `json:"date,omitempty"`
		PagesRead       int64     `json:"pages_read"`
		DurationMinutes int64     `json:"duration_minutes"`
	}
	if err := decodeJSON(r, &req); err != nil || req.UserID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "user_id is required"})
		return
	}

	session, err := s.engine.RecordReadingSession(domain.ReadingSession{
		UserID:          req.UserID,
		BookID:          req.BookID,
		Date:            req.Date,
		PagesRead:       req.PagesRead,
		DurationMinutes: req.DurationMinutes,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

func (s *Server) handleTaskCompleted(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID          string `json:"user_id"`
		TaskName        string `json:"task_name"`
		DurationMinutes int64  `json:"duration_minutes"`
		Priority        string `json:"priority,omitempty"`
		Rating          int    `json:"rating,omitempty"`
	}
	if err := decodeJSON(r, &req); err != nil || req.UserID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "user_id is required"})
		return
	}

	task, err := s.engine.RecordTaskCompletion(domain.CompletedTask{
		UserID:          req.UserID,
		TaskName:        req.TaskName,
		DurationMinutes: req.DurationMinutes,
		Priority:        req.Priority,
		Rating:          req.Rating,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (s *Server) handleQuoteVerified(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID       string `json:"user_id"`
		RewardPoints int64  `json:"reward_points"`
	}
	if err := decodeJSON(r, &req); err != nil || req.UserID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "user_id is required"})
		return
	}

	if err := s.engine.RecordQuoteVerified(req.UserID, req.RewardPoints); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "ok"})
}

// ─── Shop ───────────────────────────────────────────────────────────────────

func (s *Server) handleShopItems(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"items": s.shop.Items()})
}

func (s *Server) handlePurchase(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"user_id"`
		ItemID string `json:"item_id"`
	}
	if err := decodeJSON(r, &req); err != nil || req.UserID == "" || req.ItemID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "user_id and item_id are required"})
		return
	}

	purchase, err := s.shop.Purchase(req.UserID, req.ItemID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, purchase)
}

func (s *Server) handleOwned(w http.ResponseWriter, r *http.Request) {
	purchases, err := s.shop.Owned(chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"purchases": purchases})
}
