package handler

import (
	"encoding/json"
	"net/http"

	"github.com/mcoot/demonkingdom/internal/api/middleware"
	"github.com/mcoot/demonkingdom/internal/api/request"
	"github.com/mcoot/demonkingdom/internal/api/response"
	"github.com/mcoot/demonkingdom/internal/model"
	"github.com/mcoot/demonkingdom/internal/services/battle"
	"github.com/mcoot/demonkingdom/internal/services/transfer"
)

// BattleHandler handles the endpoints that move gold between players or
// against the demon army
type BattleHandler struct {
	resolver *battle.Resolver
	transfer *transfer.Service
}

// NewBattleHandler creates a new battle handler
func NewBattleHandler(resolver *battle.Resolver, transferService *transfer.Service) *BattleHandler {
	return &BattleHandler{
		resolver: resolver,
		transfer: transferService,
	}
}

// Battle handles POST /api/v1/players/me/battle
func (h *BattleHandler) Battle(w http.ResponseWriter, r *http.Request) {
	outcome, err := h.resolver.ResolveCollaborationBattle(r.Context(), middleware.MustGetPlayerID(r.Context()))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.BattleOutcomeFromModel(outcome))
}

// Gift handles POST /api/v1/players/me/gift
func (h *BattleHandler) Gift(w http.ResponseWriter, r *http.Request) {
	var req request.GiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.TargetID == 0 {
		WriteError(w, NewInvalidRequestError("target_id is required"))
		return
	}

	result, err := h.transfer.Gift(
		r.Context(),
		middleware.MustGetPlayerID(r.Context()),
		model.PlayerID(req.TargetID),
		req.Amount,
	)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.GiftResultFromModel(result))
}
