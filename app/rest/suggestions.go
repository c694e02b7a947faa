package rest

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bobylevd/team-balancer/app/balance"
	"github.com/bobylevd/team-balancer/app/store"
)

// SuggestionsHandler serves suggestion sets and moves within them.
type SuggestionsHandler struct {
	svc *store.Service
}

// CompetitorRequest is a pool member given inline, without a stored profile.
type CompetitorRequest struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Rating  *int            `json:"rating,omitempty"`
	Answers balance.Answers `json:"answers"`
}

// CreateSuggestionsRequest asks for a suggestion set over stored players
// and inline competitors.
type CreateSuggestionsRequest struct {
	TeamCount   int                 `json:"team_count"`
	PlayerIDs   []string            `json:"player_ids,omitempty"`
	Competitors []CompetitorRequest `json:"competitors,omitempty"`
}

// MoveRequest moves one competitor, team indexes are zero based.
type MoveRequest struct {
	Suggestion   int    `json:"suggestion"`
	CompetitorID string `json:"competitor_id"`
	From         int    `json:"from"`
	To           int    `json:"to"`
}

// SessionResponse is a kept suggestion set.
type SessionResponse struct {
	ID          string               `json:"id"`
	TeamCount   int                  `json:"team_count"`
	UpdatedAt   time.Time            `json:"updated_at"`
	Suggestions []SuggestionResponse `json:"suggestions"`
}

// SuggestionResponse is one partition of a suggestion set.
type SuggestionResponse struct {
	Name     string         `json:"name"`
	Strategy string         `json:"strategy"`
	Gap      int            `json:"gap"`
	Teams    []TeamResponse `json:"teams"`
}

// TeamResponse is a team with its totals.
type TeamResponse struct {
	Slot          int              `json:"slot"`
	BaseTotal     int              `json:"base_total"`
	AdjustedTotal int              `json:"adjusted_total"`
	Bonus         int              `json:"bonus"`
	Total         int              `json:"total"`
	WinChance     int              `json:"win_chance"`
	Members       []MemberResponse `json:"members"`
}

// MemberResponse is a classified competitor.
type MemberResponse struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	BaseRating int               `json:"base_rating"`
	Delta      int               `json:"delta"`
	Adjusted   int               `json:"adjusted"`
	Archetype  balance.Archetype `json:"archetype"`
	Answers    balance.Answers   `json:"answers"`
}

// Create builds a new suggestion set.
func (h *SuggestionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateSuggestionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.TeamCount < 1 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "team_count must be positive"})
		return
	}

	pool := make([]balance.Competitor, 0, len(req.Competitors))
	for _, cr := range req.Competitors {
		if cr.ID == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "competitor id required"})
			return
		}
		rating := h.svc.FallbackRating()
		if cr.Rating != nil {
			rating = *cr.Rating
		}
		c, err := balance.NewCompetitor(cr.ID, cr.Name, rating, cr.Answers)
		if err != nil {
			writeError(w, err)
			return
		}
		pool = append(pool, c)
	}

	sess, err := h.svc.Suggest(r.Context(), store.SuggestRequest{
		PlayerIDs: req.PlayerIDs,
		Pool:      pool,
		TeamCount: req.TeamCount,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, sessionResponse(sess))
}

// Get returns a kept suggestion set.
func (h *SuggestionsHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, err := h.svc.Session(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse(sess))
}

// Delete discards a suggestion set.
func (h *SuggestionsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Discard(chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Move moves a competitor within one suggestion of the set.
func (h *SuggestionsHandler) Move(w http.ResponseWriter, r *http.Request) {
	var req MoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	sg, err := h.svc.Move(store.MoveRequest{
		SessionID:    chi.URLParam(r, "id"),
		Suggestion:   req.Suggestion,
		CompetitorID: req.CompetitorID,
		From:         req.From,
		To:           req.To,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, suggestionResponse(sg))
}

func sessionResponse(s store.Session) SessionResponse {
	resp := SessionResponse{
		ID:          s.ID,
		TeamCount:   s.TeamCount,
		UpdatedAt:   s.UpdatedAt,
		Suggestions: make([]SuggestionResponse, len(s.Suggestions)),
	}
	for i, sg := range s.Suggestions {
		resp.Suggestions[i] = suggestionResponse(sg)
	}
	return resp
}

func suggestionResponse(s balance.Suggestion) SuggestionResponse {
	resp := SuggestionResponse{
		Name:     s.Name(),
		Strategy: s.Strategy.String(),
		Gap:      s.Partition.Gap(),
		Teams:    make([]TeamResponse, len(s.Partition.Teams)),
	}
	for i, t := range s.Partition.Teams {
		tr := TeamResponse{
			Slot:          t.Slot,
			BaseTotal:     t.BaseTotal(),
			AdjustedTotal: t.AdjustedTotal(),
			Bonus:         t.Bonus(),
			Total:         t.Total(),
			WinChance:     t.WinChance(),
			Members:       make([]MemberResponse, len(t.Members)),
		}
		for j, c := range t.Members {
			tr.Members[j] = MemberResponse{
				ID:         c.ID,
				Name:       c.Name,
				BaseRating: c.BaseRating,
				Delta:      c.Delta(),
				Adjusted:   c.Adjusted(),
				Archetype:  c.Archetype(),
				Answers:    c.Answers,
			}
		}
		resp.Teams[i] = tr
	}
	return resp
}

// writeError maps domain errors to status codes.
func writeError(w http.ResponseWriter, err error) {
	var missing store.ErrMissing
	switch {
	case errors.As(err, &missing):
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "unknown players", "missing": []string(missing)})
	case errors.Is(err, balance.ErrInvalidAnswer), errors.Is(err, balance.ErrInvalidRating):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, store.ErrNotEnoughPlayers):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	case errors.Is(err, store.ErrSessionNotFound), errors.Is(err, store.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, balance.ErrNoop):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	default:
		log.Printf("[WARN] request failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[WARN] failed to write response: %v", err)
	}
}
