package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/demonkingdom/internal/api/handler"
	"github.com/mcoot/demonkingdom/internal/api/middleware"
	"github.com/mcoot/demonkingdom/internal/autosave"
	"github.com/mcoot/demonkingdom/internal/dependencies/clock"
	"github.com/mcoot/demonkingdom/internal/services/auth"
	"github.com/mcoot/demonkingdom/internal/services/battle"
	"github.com/mcoot/demonkingdom/internal/services/kingdom"
	"github.com/mcoot/demonkingdom/internal/services/registry"
	"github.com/mcoot/demonkingdom/internal/services/transfer"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger            *slog.Logger
	AuthService       *auth.Service
	KingdomController *kingdom.Controller
	BattleResolver    *battle.Resolver
	TransferService   *transfer.Service
	Store             *registry.Store
	Scheduler         *autosave.Scheduler

	// Clock measures time since the last save; defaults to the system clock
	Clock clock.Clock
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	playerHandler := handler.NewPlayerHandler(cfg.KingdomController)
	kingdomHandler := handler.NewKingdomHandler(cfg.KingdomController)
	battleHandler := handler.NewBattleHandler(cfg.BattleResolver, cfg.TransferService)
	clk := cfg.Clock
	if clk == nil {
		clk = clock.New()
	}
	healthHandler := handler.NewHealthHandler(cfg.Store, cfg.Scheduler, clk)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.RequestID())
	api.Use(middleware.Recovery(cfg.Logger))
	api.Use(middleware.Logging(cfg.Logger))

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler.Get).Methods(http.MethodGet)

	// Everything under /players acts on behalf of the X-Player-ID caller
	players := api.PathPrefix("/players").Subrouter()
	players.Use(middleware.GatewayAuth(cfg.AuthService))
	players.Use(middleware.Caller())
	players.HandleFunc("", playerHandler.Register).Methods(http.MethodPost)
	players.HandleFunc("/me", playerHandler.GetMe).Methods(http.MethodGet)

	players.HandleFunc("/me/status", kingdomHandler.Status).Methods(http.MethodGet)
	players.HandleFunc("/me/magic", kingdomHandler.MagicPowers).Methods(http.MethodGet)
	players.HandleFunc("/me/companions", kingdomHandler.Companions).Methods(http.MethodGet)
	players.HandleFunc("/me/swords", kingdomHandler.Swords).Methods(http.MethodGet)
	players.HandleFunc("/me/swords/equip", kingdomHandler.EquipSword).Methods(http.MethodPost)

	players.HandleFunc("/me/allies/{player_id}", kingdomHandler.AddAlly).Methods(http.MethodPost)
	players.HandleFunc("/me/allies/{player_id}", kingdomHandler.RemoveAlly).Methods(http.MethodDelete)
	players.HandleFunc("/me/enemies/{player_id}", kingdomHandler.DeclareEnemy).Methods(http.MethodPost)
	players.HandleFunc("/me/enemies/{player_id}", kingdomHandler.RemoveEnemy).Methods(http.MethodDelete)

	players.HandleFunc("/me/battle", battleHandler.Battle).Methods(http.MethodPost)
	players.HandleFunc("/me/gift", battleHandler.Gift).Methods(http.MethodPost)

	return r
}
