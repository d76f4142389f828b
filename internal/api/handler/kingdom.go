package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/mcoot/demonkingdom/internal/api/middleware"
	"github.com/mcoot/demonkingdom/internal/api/request"
	"github.com/mcoot/demonkingdom/internal/api/response"
	"github.com/mcoot/demonkingdom/internal/model"
	"github.com/mcoot/demonkingdom/internal/services/kingdom"
)

// KingdomHandler handles the read and management endpoints of a player's kingdom
type KingdomHandler struct {
	kingdom *kingdom.Controller
}

// NewKingdomHandler creates a new kingdom handler
func NewKingdomHandler(kingdomController *kingdom.Controller) *KingdomHandler {
	return &KingdomHandler{
		kingdom: kingdomController,
	}
}

// Status handles GET /api/v1/players/me/status
func (h *KingdomHandler) Status(w http.ResponseWriter, r *http.Request) {
	status, err := h.kingdom.Status(middleware.MustGetPlayerID(r.Context()))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.StatusFromModel(status))
}

// MagicPowers handles GET /api/v1/players/me/magic
func (h *KingdomHandler) MagicPowers(w http.ResponseWriter, r *http.Request) {
	powers, err := h.kingdom.MagicPowers(r.Context(), middleware.MustGetPlayerID(r.Context()))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.MagicPowers{Powers: powers})
}

// Companions handles GET /api/v1/players/me/companions
func (h *KingdomHandler) Companions(w http.ResponseWriter, r *http.Request) {
	companions, err := h.kingdom.Companions(r.Context(), middleware.MustGetPlayerID(r.Context()))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.Companions{
		Companions: response.CompanionsFromModel(companions),
	})
}

// Swords handles GET /api/v1/players/me/swords
func (h *KingdomHandler) Swords(w http.ResponseWriter, r *http.Request) {
	swords, err := h.kingdom.Swords(middleware.MustGetPlayerID(r.Context()))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.SwordsFromModel(swords))
}

// EquipSword handles POST /api/v1/players/me/swords/equip
func (h *KingdomHandler) EquipSword(w http.ResponseWriter, r *http.Request) {
	var req request.EquipSwordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	req.Sword = strings.TrimSpace(req.Sword)
	if req.Sword == "" {
		WriteError(w, NewInvalidRequestError("sword is required"))
		return
	}

	sword, err := h.kingdom.EquipSword(r.Context(), middleware.MustGetPlayerID(r.Context()), req.Sword)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.SwordFromModel(*sword))
}

// AddAlly handles POST /api/v1/players/me/allies/{player_id}
func (h *KingdomHandler) AddAlly(w http.ResponseWriter, r *http.Request) {
	h.relate(w, r, h.kingdom.AddAlly)
}

// RemoveAlly handles DELETE /api/v1/players/me/allies/{player_id}
func (h *KingdomHandler) RemoveAlly(w http.ResponseWriter, r *http.Request) {
	h.relate(w, r, h.kingdom.RemoveAlly)
}

// DeclareEnemy handles POST /api/v1/players/me/enemies/{player_id}
func (h *KingdomHandler) DeclareEnemy(w http.ResponseWriter, r *http.Request) {
	h.relate(w, r, h.kingdom.DeclareEnemy)
}

// RemoveEnemy handles DELETE /api/v1/players/me/enemies/{player_id}
func (h *KingdomHandler) RemoveEnemy(w http.ResponseWriter, r *http.Request) {
	h.relate(w, r, h.kingdom.RemoveEnemy)
}

type relateFunc func(ctx context.Context, id, target model.PlayerID) (*kingdom.Relations, error)

func (h *KingdomHandler) relate(w http.ResponseWriter, r *http.Request, fn relateFunc) {
	target, err := model.ParsePlayerID(mux.Vars(r)["player_id"])
	if err != nil {
		WriteError(w, NewInvalidRequestError("invalid player_id"))
		return
	}

	relations, err := fn(r.Context(), middleware.MustGetPlayerID(r.Context()), target)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.RelationsFromModel(relations))
}
