package handler

import (
	"net/http"
	"time"

	"github.com/mcoot/demonkingdom/internal/api/response"
	"github.com/mcoot/demonkingdom/internal/dependencies/clock"
)

// HealthSource reports the figures shown by the health endpoint
type HealthSource interface {
	Count() int
}

// SaveTracker reports when state was last saved
type SaveTracker interface {
	LastSave() time.Time
}

// HealthHandler handles GET /api/v1/health
type HealthHandler struct {
	players HealthSource
	saves   SaveTracker
	clock   clock.Clock
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(players HealthSource, saves SaveTracker, clk clock.Clock) *HealthHandler {
	return &HealthHandler{players: players, saves: saves, clock: clk}
}

// Get handles GET /api/v1/health
func (h *HealthHandler) Get(w http.ResponseWriter, _ *http.Request) {
	resp := response.Health{
		Status:      "ok",
		PlayerCount: h.players.Count(),
	}
	if last := h.saves.LastSave(); !last.IsZero() {
		resp.LastSave = &last
		since := int64(h.clock.Since(last) / time.Second)
		resp.SecondsSinceSave = &since
	}
	response.JSON(w, http.StatusOK, resp)
}
