package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/botornot-chat/botornot/internal/api/apierr"
	"github.com/botornot-chat/botornot/internal/api/handler"
	"github.com/botornot-chat/botornot/internal/api/response"
	"github.com/botornot-chat/botornot/internal/middleware"
	"github.com/botornot-chat/botornot/internal/model"
	"github.com/botornot-chat/botornot/internal/room"
	"github.com/botornot-chat/botornot/internal/services/bot"
	"github.com/botornot-chat/botornot/internal/services/player"
	"github.com/botornot-chat/botornot/internal/services/vote"
	"github.com/botornot-chat/botornot/internal/ws"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger       *slog.Logger
	Registry     *player.Registry
	Ledger       *vote.Ledger
	Directory    *room.Directory
	Orchestrator *bot.Orchestrator
	Hub          *ws.Hub

	// RateLimit caps requests per second per client IP; zero disables
	RateLimit rate.Limit
	RateBurst int
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	roomHandler := handler.NewRoomHandler(cfg.Registry, cfg.Ledger, cfg.Directory, cfg.Orchestrator)

	recoveryMiddleware := middleware.Recovery(cfg.Logger, apiPanicHandler)
	loggingMiddleware := middleware.Logging(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)
	if cfg.RateLimit > 0 {
		api.Use(middleware.NewRateLimiter(cfg.RateLimit, cfg.RateBurst).Middleware)
	}

	api.HandleFunc("/rooms", roomHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/rooms/join", roomHandler.Join).Methods(http.MethodPost)
	api.HandleFunc("/rooms/{id}", roomHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/rooms/{id}/leave", roomHandler.Leave).Methods(http.MethodPost)
	api.HandleFunc("/rooms/{id}/messages", roomHandler.Messages).Methods(http.MethodGet)
	api.HandleFunc("/rooms/{id}/votes", roomHandler.Vote).Methods(http.MethodPost)

	// Health check endpoint
	api.HandleFunc("/health", healthHandler(cfg.Registry)).Methods(http.MethodGet)

	// Websocket chat endpoint; the hub handles its own lifecycle so the
	// logging middleware's buffered writer stays out of the upgrade path
	if cfg.Hub != nil {
		r.HandleFunc("/ws/rooms/{id}", cfg.Hub.Serve())
	}

	// Prometheus metrics
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	return r
}

// healthHandler reports liveness plus the current human/bot census, the
// registry-wide numbers the room payloads can't answer.
func healthHandler(registry *player.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, http.StatusOK, response.Health{
			Status: "ok",
			Humans: registry.CountByKind(r.Context(), model.KindHuman),
			Bots:   registry.CountByKind(r.Context(), model.KindBot),
		})
	}
}

func apiPanicHandler(w http.ResponseWriter, _ *http.Request, _ any) {
	apierr.WriteError(w, apierr.NewInternalError())
}
