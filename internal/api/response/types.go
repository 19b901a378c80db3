// Package response holds the API response types and their converters
package response

import (
	"time"

	"github.com/botornot-chat/botornot/internal/model"
	"github.com/botornot-chat/botornot/internal/room"
)

// Player represents a seated player in API responses. Player kind is
// deliberately absent: guessing who is a bot is the game.
type Player struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	AverageRating float64 `json:"average_rating"`
}

// Health is the health-check shape: liveness plus the seated census
type Health struct {
	Status string `json:"status"`
	Humans int    `json:"humans"`
	Bots   int    `json:"bots"`
}

// RoomSummary is the room listing shape
type RoomSummary struct {
	ID               int    `json:"id"`
	State            string `json:"state"`
	Round            int    `json:"round"`
	RemainingSeconds int    `json:"remaining_seconds"`
	SeatCount        int    `json:"seat_count"`
	FreeSeats        int    `json:"free_seats"`
}

// Room is the full room view
type Room struct {
	ID               int      `json:"id"`
	State            string   `json:"state"`
	Round            int      `json:"round"`
	RemainingSeconds int      `json:"remaining_seconds"`
	Heat             string   `json:"heat"`
	WinRate          string   `json:"win_rate"`
	Players          []Player `json:"players"`
}

// Message is one chat log entry
type Message struct {
	SpeakerID int64     `json:"speaker_id"`
	Speaker   string    `json:"speaker"`
	Text      string    `json:"text"`
	SentAt    time.Time `json:"sent_at"`
}

// JoinResponse is returned when a player joins a room
type JoinResponse struct {
	PlayerID int64  `json:"player_id"`
	Name     string `json:"name"`
	Room     Room   `json:"room"`
}

// RoomSummaryFromRoom converts a room to its listing shape
func RoomSummaryFromRoom(rm *room.Room) RoomSummary {
	return RoomSummary{
		ID:               int(rm.ID()),
		State:            string(rm.State()),
		Round:            rm.RoundNumber(),
		RemainingSeconds: rm.RemainingSeconds(),
		SeatCount:        rm.SeatCount(),
		FreeSeats:        rm.FreeSeats(),
	}
}

// RoomFromRoom converts a room to its full view. The rating lookup is
// supplied by the caller since averages live in the vote ledger.
func RoomFromRoom(rm *room.Room, ratingFor func(model.PlayerID) float64) Room {
	roster := rm.Roster()
	players := make([]Player, 0, len(roster))
	for _, p := range roster {
		players = append(players, Player{
			ID:            int64(p.ID),
			Name:          p.Name,
			AverageRating: ratingFor(p.ID),
		})
	}
	return Room{
		ID:               int(rm.ID()),
		State:            string(rm.State()),
		Round:            rm.RoundNumber(),
		RemainingSeconds: rm.RemainingSeconds(),
		Heat:             string(rm.Heat()),
		WinRate:          rm.WinRate(),
		Players:          players,
	}
}

// MessageFromModel converts a chat message
func MessageFromModel(m model.ChatMessage) Message {
	return Message{
		SpeakerID: int64(m.SpeakerID),
		Speaker:   m.Speaker,
		Text:      m.Text,
		SentAt:    m.SentAt,
	}
}

// MessagesFromModel converts a chat log slice
func MessagesFromModel(ms []model.ChatMessage) []Message {
	out := make([]Message, 0, len(ms))
	for _, m := range ms {
		out = append(out, MessageFromModel(m))
	}
	return out
}
