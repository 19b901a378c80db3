package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/botornot-chat/botornot/internal/model"
)

const (
	readLimit    = 4 << 10
	pongWait     = 60 * time.Second
	pingInterval = 30 * time.Second
	writeWait    = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Client is one websocket connection seated in a room
type Client struct {
	hub      *Hub
	room     *roomHub
	conn     *websocket.Conn
	send     chan []byte
	playerID model.PlayerID
}

// inboundMessage is the wire shape of a client's chat line
type inboundMessage struct {
	Text string `json:"text"`
}

// Serve returns the websocket endpoint handler. The room id comes from
// the route, the player id from the player_id query parameter issued by
// the join endpoint.
func (h *Hub) Serve() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roomID64, err := strconv.Atoi(mux.Vars(r)["id"])
		if err != nil {
			http.Error(w, "invalid room id", http.StatusBadRequest)
			return
		}
		roomID := model.RoomID(roomID64)

		playerID64, err := strconv.ParseInt(r.URL.Query().Get("player_id"), 10, 64)
		if err != nil {
			http.Error(w, "invalid player_id", http.StatusBadRequest)
			return
		}
		playerID := model.PlayerID(playerID64)

		if err := h.events.VerifySeat(r.Context(), roomID, playerID); err != nil {
			switch {
			case errors.Is(err, model.ErrRoomNotFound), errors.Is(err, model.ErrPlayerNotFound):
				http.Error(w, err.Error(), http.StatusNotFound)
			case errors.Is(err, model.ErrNotInRoom):
				http.Error(w, err.Error(), http.StatusForbidden)
			default:
				http.Error(w, "connection refused", http.StatusInternalServerError)
			}
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}

		client := &Client{
			hub:      h,
			conn:     conn,
			send:     make(chan []byte, 256),
			playerID: playerID,
		}
		// The sub-hub can retire between lookup and registration; on a
		// lost race, look it up again and land in its replacement.
		for {
			rh := h.getRoom(roomID)
			select {
			case rh.register <- client:
			case <-rh.done:
				continue
			}
			client.room = rh
			break
		}

		h.logger.Info("client connected",
			slog.Int("room_id", int(roomID)),
			slog.Int64("player_id", int64(playerID)))

		go client.writePump()
		client.readPump()
	}
}

// readPump reads chat lines until the connection drops, then removes the
// player from the game.
func (c *Client) readPump() {
	defer func() {
		// The sub-hub may already have retired after dropping this
		// client as a slow reader; don't block on a dead run loop.
		select {
		case c.room.unregister <- c:
		case <-c.room.done:
		}
		_ = c.conn.Close()
		c.hub.events.HandleGroupLeft(context.Background(), c.playerID)
	}()

	c.conn.SetReadLimit(readLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var in inboundMessage
		if err := json.Unmarshal(data, &in); err != nil || in.Text == "" {
			continue
		}

		msg, err := c.hub.events.RecordMessage(context.Background(), c.room.roomID, c.playerID, in.Text)
		if err != nil {
			continue
		}
		c.hub.Broadcast(c.room.roomID, msg)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
