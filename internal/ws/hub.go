// Package ws is the chat transport: one lazily created hub per room fans
// messages out to every connected websocket client.
package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/botornot-chat/botornot/internal/metrics"
	"github.com/botornot-chat/botornot/internal/model"
)

// Events is the game-side handler for everything that arrives over a
// websocket. The bot orchestrator implements it; Bind wires it in after
// construction because the orchestrator also broadcasts through the hub.
type Events interface {
	VerifySeat(ctx context.Context, roomID model.RoomID, playerID model.PlayerID) error
	RecordMessage(ctx context.Context, roomID model.RoomID, playerID model.PlayerID, text string) (model.ChatMessage, error)
	HandleGroupLeft(ctx context.Context, playerID model.PlayerID)
}

// outboundMessage is the wire shape of everything the hub sends
type outboundMessage struct {
	Type      string         `json:"type"`
	RoomID    model.RoomID   `json:"room_id"`
	SpeakerID model.PlayerID `json:"speaker_id,omitempty"`
	Speaker   string         `json:"speaker,omitempty"`
	Text      string         `json:"text,omitempty"`
	SentAt    time.Time      `json:"sent_at,omitempty"`
	Online    int            `json:"online,omitempty"`
}

// Hub manages per-room sub-hubs, creating them on first use
type Hub struct {
	mu     sync.RWMutex
	rooms  map[model.RoomID]*roomHub
	events Events
	logger *slog.Logger
}

// NewHub creates a hub. Bind must be called before serving connections.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		rooms:  make(map[model.RoomID]*roomHub),
		logger: logger.With(slog.String("component", "ws_hub")),
	}
}

// Bind attaches the game-side event handler
func (h *Hub) Bind(events Events) {
	h.events = events
}

// Broadcast delivers a chat message to everyone connected to the room.
// Rooms with no connections yet are skipped rather than created.
func (h *Hub) Broadcast(roomID model.RoomID, msg model.ChatMessage) {
	h.mu.RLock()
	rh := h.rooms[roomID]
	h.mu.RUnlock()
	if rh == nil {
		return
	}

	payload, err := json.Marshal(outboundMessage{
		Type:      "message",
		RoomID:    roomID,
		SpeakerID: msg.SpeakerID,
		Speaker:   msg.Speaker,
		Text:      msg.Text,
		SentAt:    msg.SentAt,
	})
	if err != nil {
		h.logger.Error("marshal broadcast", slog.Any("error", err))
		return
	}
	select {
	case rh.broadcast <- payload:
	case <-rh.done:
	}
}

// Online returns the number of connections in a room
func (h *Hub) Online(roomID model.RoomID) int {
	h.mu.RLock()
	rh := h.rooms[roomID]
	h.mu.RUnlock()
	if rh == nil {
		return 0
	}
	return rh.Online()
}

// getRoom lazily creates the room's sub-hub
func (h *Hub) getRoom(roomID model.RoomID) *roomHub {
	h.mu.RLock()
	rh := h.rooms[roomID]
	h.mu.RUnlock()
	if rh != nil {
		return rh
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	rh = h.rooms[roomID]
	if rh != nil {
		return rh
	}
	rh = newRoomHub(h, roomID)
	h.rooms[roomID] = rh
	go rh.run()
	return rh
}

// tryRetire removes a drained sub-hub from the map so its run goroutine
// can exit. A registration that raced in while the room looked empty wins:
// the client is admitted and the sub-hub keeps running.
func (h *Hub) tryRetire(rh *roomHub) bool {
	h.mu.Lock()
	select {
	case c := <-rh.register:
		h.mu.Unlock()
		rh.admit(c)
		return false
	default:
	}
	delete(h.rooms, rh.roomID)
	close(rh.done)
	h.mu.Unlock()
	return true
}

// roomHub fans messages out to one room's clients. All client set
// mutation happens on the run goroutine, which exits once the room
// drains: room ids only ever grow, so sub-hubs left behind by finished
// rooms would otherwise pile up for the life of the process.
type roomHub struct {
	hub        *Hub
	roomID     model.RoomID
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}
	online     atomic.Int32
}

func newRoomHub(hub *Hub, roomID model.RoomID) *roomHub {
	return &roomHub{
		hub:        hub,
		roomID:     roomID,
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 256),
		done:       make(chan struct{}),
	}
}

func (rh *roomHub) run() {
	for {
		select {
		case c := <-rh.register:
			rh.admit(c)
		case c := <-rh.unregister:
			if _, ok := rh.clients[c]; ok {
				delete(rh.clients, c)
				close(c.send)
				rh.online.Store(int32(len(rh.clients)))
				metrics.WsConnections.Dec()
				rh.fanOut(rh.presencePayload())
			}
			if len(rh.clients) == 0 && rh.hub.tryRetire(rh) {
				return
			}
		case msg := <-rh.broadcast:
			rh.fanOut(msg)
			if len(rh.clients) == 0 && rh.hub.tryRetire(rh) {
				return
			}
		}
	}
}

func (rh *roomHub) admit(c *Client) {
	rh.clients[c] = true
	rh.online.Store(int32(len(rh.clients)))
	metrics.WsConnections.Inc()
	rh.fanOut(rh.presencePayload())
}

// fanOut sends to every client, dropping the ones whose send buffer is
// full. A reader that slow is better disconnected than blocking the room.
func (rh *roomHub) fanOut(payload []byte) {
	if payload == nil {
		return
	}
	for c := range rh.clients {
		select {
		case c.send <- payload:
		default:
			close(c.send)
			delete(rh.clients, c)
			rh.online.Store(int32(len(rh.clients)))
			metrics.WsConnections.Dec()
		}
	}
}

func (rh *roomHub) presencePayload() []byte {
	payload, err := json.Marshal(outboundMessage{
		Type:   "presence",
		RoomID: rh.roomID,
		Online: int(rh.online.Load()),
	})
	if err != nil {
		return nil
	}
	return payload
}

// Online returns the room's connection count
func (rh *roomHub) Online() int {
	return int(rh.online.Load())
}
