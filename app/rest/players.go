package rest

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bobylevd/team-balancer/app/balance"
	"github.com/bobylevd/team-balancer/app/store"
)

// PlayersHandler serves the stored roster.
type PlayersHandler struct {
	svc *store.Service
}

// RegisterPlayerRequest registers or updates a player. Answers are kept
// as stored when omitted.
type RegisterPlayerRequest struct {
	ID      string           `json:"id"`
	Name    string           `json:"name"`
	ELO     *int             `json:"elo,omitempty"`
	Answers *balance.Answers `json:"answers,omitempty"`
}

// PlayerResponse is a stored player with the derived classification.
type PlayerResponse struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	ELO       *int              `json:"elo"`
	Answers   balance.Answers   `json:"answers"`
	Archetype balance.Archetype `json:"archetype"`
	Adjusted  int               `json:"adjusted"`
}

// List returns the players with the "id" query values, every player if none.
// A "name" query value looks a single player up by name.
func (h *PlayersHandler) List(w http.ResponseWriter, r *http.Request) {
	var players []store.Player
	if name := r.URL.Query().Get("name"); name != "" {
		pl, err := h.svc.Find(r.Context(), name)
		if err != nil {
			writeError(w, err)
			return
		}
		players = []store.Player{pl}
	} else {
		var err error
		if players, err = h.svc.List(r.Context(), r.URL.Query()["id"]); err != nil {
			writeError(w, err)
			return
		}
	}

	resp := make([]PlayerResponse, 0, len(players))
	for _, pl := range players {
		pr, err := h.playerResponse(pl)
		if err != nil {
			writeError(w, err)
			return
		}
		resp = append(resp, pr)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Register creates or updates a player.
func (h *PlayersHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterPlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.ID == "" || req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "id and name required"})
		return
	}

	if err := h.svc.Register(r.Context(), req.ID, req.Name, req.ELO); err != nil {
		writeError(w, err)
		return
	}
	if req.Answers != nil {
		if err := h.svc.SetAnswers(r.Context(), req.ID, *req.Answers); err != nil {
			writeError(w, err)
			return
		}
	}

	players, err := h.svc.List(r.Context(), []string{req.ID})
	if err != nil {
		writeError(w, err)
		return
	}
	pr, err := h.playerResponse(players[0])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, pr)
}

// Remove deletes a player.
func (h *PlayersHandler) Remove(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PlayersHandler) playerResponse(pl store.Player) (PlayerResponse, error) {
	c, err := pl.Competitor(h.svc.FallbackRating())
	if err != nil {
		return PlayerResponse{}, err
	}

	pr := PlayerResponse{
		ID:        pl.ID,
		Name:      pl.Name,
		Answers:   c.Answers,
		Archetype: c.Archetype(),
		Adjusted:  c.Adjusted(),
	}
	if pl.ELO.Valid {
		elo := int(pl.ELO.Int64)
		pr.ELO = &elo
	}
	return pr, nil
}
