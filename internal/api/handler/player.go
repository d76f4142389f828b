package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/mcoot/demonkingdom/internal/api/middleware"
	"github.com/mcoot/demonkingdom/internal/api/request"
	"github.com/mcoot/demonkingdom/internal/api/response"
	"github.com/mcoot/demonkingdom/internal/services/kingdom"
)

// PlayerHandler handles registration and identity endpoints
type PlayerHandler struct {
	kingdom *kingdom.Controller
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(kingdomController *kingdom.Controller) *PlayerHandler {
	return &PlayerHandler{
		kingdom: kingdomController,
	}
}

// Register handles POST /api/v1/players
func (h *PlayerHandler) Register(w http.ResponseWriter, r *http.Request) {
	id := middleware.MustGetPlayerID(r.Context())

	var req request.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	_, created := h.kingdom.Register(r.Context(), id, req.DisplayName)

	status, err := h.kingdom.Status(id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.CreatedOrOK(w, created, response.RegisterResponse{
		Player:  response.PlayerFromIdentity(&status.Identity),
		Created: created,
		Status:  response.StatusFromModel(status),
	})
}

// GetMe handles GET /api/v1/players/me
func (h *PlayerHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	identity, err := h.kingdom.LookupID(middleware.MustGetPlayerID(r.Context()))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.PlayerFromIdentity(identity))
}
