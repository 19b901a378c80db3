// Package handler implements the HTTP API endpoints
package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/botornot-chat/botornot/internal/api/apierr"
	"github.com/botornot-chat/botornot/internal/api/request"
	"github.com/botornot-chat/botornot/internal/api/response"
	"github.com/botornot-chat/botornot/internal/metrics"
	"github.com/botornot-chat/botornot/internal/model"
	"github.com/botornot-chat/botornot/internal/room"
	"github.com/botornot-chat/botornot/internal/services/bot"
	"github.com/botornot-chat/botornot/internal/services/player"
	"github.com/botornot-chat/botornot/internal/services/vote"
)

// RoomHandler handles room-related endpoints
type RoomHandler struct {
	registry     *player.Registry
	ledger       *vote.Ledger
	directory    *room.Directory
	orchestrator *bot.Orchestrator
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(registry *player.Registry, ledger *vote.Ledger, directory *room.Directory, orchestrator *bot.Orchestrator) *RoomHandler {
	return &RoomHandler{
		registry:     registry,
		ledger:       ledger,
		directory:    directory,
		orchestrator: orchestrator,
	}
}

// Join handles POST /api/v1/rooms/join: the player is seated in a random
// open room, creating one if needed.
func (h *RoomHandler) Join(w http.ResponseWriter, r *http.Request) {
	var req request.JoinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid JSON body"))
		return
	}

	rm := h.directory.GetOrCreateOpenRoom()
	p, err := h.registry.Add(r.Context(), req.Name, rm.ID(), model.KindHuman)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	if err := h.directory.AddPlayerToRoom(rm.ID(), *p); err != nil {
		h.registry.Remove(r.Context(), p.ID)
		apierr.WriteError(w, err)
		return
	}

	h.orchestrator.HandleGroupJoined(r.Context(), *p)

	response.JSON(w, http.StatusCreated, response.JoinResponse{
		PlayerID: int64(p.ID),
		Name:     p.Name,
		Room:     response.RoomFromRoom(rm, h.ratingLookup(r, rm)),
	})
}

// Leave handles POST /api/v1/rooms/{id}/leave
func (h *RoomHandler) Leave(w http.ResponseWriter, r *http.Request) {
	roomID, ok := routeRoomID(w, r)
	if !ok {
		return
	}

	var req request.LeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid JSON body"))
		return
	}

	playerID := model.PlayerID(req.PlayerID)
	if err := h.orchestrator.VerifySeat(r.Context(), roomID, playerID); err != nil {
		apierr.WriteError(w, err)
		return
	}
	h.orchestrator.HandleGroupLeft(r.Context(), playerID)

	response.NoContent(w)
}

// List handles GET /api/v1/rooms
func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request) {
	rooms := h.directory.Rooms()
	summaries := make([]response.RoomSummary, 0, len(rooms))
	for _, rm := range rooms {
		summaries = append(summaries, response.RoomSummaryFromRoom(rm))
	}
	response.JSON(w, http.StatusOK, summaries)
}

// Get handles GET /api/v1/rooms/{id}
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	roomID, ok := routeRoomID(w, r)
	if !ok {
		return
	}
	rm := h.directory.Get(roomID)
	if rm == nil {
		apierr.WriteError(w, model.ErrRoomNotFound)
		return
	}
	response.JSON(w, http.StatusOK, response.RoomFromRoom(rm, h.ratingLookup(r, rm)))
}

// Messages handles GET /api/v1/rooms/{id}/messages
func (h *RoomHandler) Messages(w http.ResponseWriter, r *http.Request) {
	roomID, ok := routeRoomID(w, r)
	if !ok {
		return
	}
	rm := h.directory.Get(roomID)
	if rm == nil {
		apierr.WriteError(w, model.ErrRoomNotFound)
		return
	}
	response.JSON(w, http.StatusOK, response.MessagesFromModel(rm.History()))
}

// Vote handles POST /api/v1/rooms/{id}/votes: a seated player rates how
// human-like another seated player appears.
func (h *RoomHandler) Vote(w http.ResponseWriter, r *http.Request) {
	roomID, ok := routeRoomID(w, r)
	if !ok {
		return
	}

	var req request.VoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid JSON body"))
		return
	}
	fromID := model.PlayerID(req.FromID)
	toID := model.PlayerID(req.ToID)
	if fromID == toID {
		apierr.WriteError(w, apierr.NewInvalidRequestError("players cannot rate themselves"))
		return
	}

	if err := h.orchestrator.VerifySeat(r.Context(), roomID, fromID); err != nil {
		apierr.WriteError(w, err)
		return
	}
	if err := h.orchestrator.VerifySeat(r.Context(), roomID, toID); err != nil {
		apierr.WriteError(w, err)
		return
	}

	if err := h.ledger.Add(r.Context(), roomID, fromID, toID, req.Star); err != nil {
		apierr.WriteError(w, err)
		return
	}
	metrics.VotesRecordedTotal.Inc()

	response.NoContent(w)
}

// ratingLookup builds the per-player average lookup for response conversion
func (h *RoomHandler) ratingLookup(r *http.Request, rm *room.Room) func(model.PlayerID) float64 {
	return func(id model.PlayerID) float64 {
		return h.ledger.AverageFor(r.Context(), rm.ID(), id)
	}
}

// routeRoomID parses the {id} route variable, writing the error response
// itself on failure.
func routeRoomID(w http.ResponseWriter, r *http.Request) (model.RoomID, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid room id"))
		return 0, false
	}
	return model.RoomID(id), true
}
