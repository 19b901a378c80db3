package room

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/botornot-chat/botornot/internal/dependencies/clock"
	"github.com/botornot-chat/botornot/internal/model"
)

// Room is the aggregate owning one chat group's roster, append-only chat
// history, round counter, and countdown timer. All cross-cutting state the
// bots and the read surface need lives here, behind one lock, instead of in
// ambient shared maps.
type Room struct {
	roomID    model.RoomID
	mu        sync.RWMutex
	roster    []model.Player
	chat      []model.ChatMessage
	round     int
	state     model.RoomState
	countdown *Countdown

	roundSeconds int
	clock        clock.Clock
	logger       *slog.Logger
}

// New creates an empty room in the Filling state
func New(id model.RoomID, roundSeconds int, tickInterval time.Duration, clk clock.Clock, logger *slog.Logger) *Room {
	r := &Room{
		roomID:       id,
		state:        model.RoomStateFilling,
		countdown:    NewCountdown(tickInterval),
		roundSeconds: roundSeconds,
		clock:        clk,
		logger:       logger.With(slog.Int("room_id", int(id))),
	}
	r.countdown.OnFinished(r.handleRoundEnd)
	return r
}

// ID returns the room's identifier
func (r *Room) ID() model.RoomID {
	return r.roomID
}

// State returns the room's lifecycle state
func (r *Room) State() model.RoomState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// RoundNumber returns the monotonic round counter
func (r *Room) RoundNumber() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.round
}

// Countdown exposes the room's timer for observers (tick/finished
// subscriptions). The timer itself carries no game rules.
func (r *Room) Countdown() *Countdown {
	return r.countdown
}

// RemainingSeconds returns the seconds left in the current round
func (r *Room) RemainingSeconds() int {
	return r.countdown.Remaining()
}

// Seat adds a player to the roster. Seating the player that fills the room
// (the 4th-to-5th transition) starts the countdown and increments the round
// number exactly once.
func (r *Room) Seat(p model.Player) error {
	r.mu.Lock()
	if len(r.roster) >= model.RoomCapacity {
		r.mu.Unlock()
		return model.ErrRoomFull
	}
	r.roster = append(r.roster, p)
	becameFull := len(r.roster) == model.RoomCapacity
	if becameFull {
		r.round++
		r.state = model.RoomStateRunning
	}
	round := r.round
	r.mu.Unlock()

	if becameFull {
		r.countdown.Start(r.roundSeconds)
		r.logger.Info("room full, round started",
			slog.Int("round", round),
			slog.Int("round_seconds", r.roundSeconds),
		)
	}
	return nil
}

// Unseat removes a player from the roster. It reports whether the player
// was seated. Removal while the countdown is running does not pause it;
// games continue on schedule.
func (r *Room) Unseat(id model.PlayerID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, p := range r.roster {
		if p.ID == id {
			r.roster = append(r.roster[:i], r.roster[i+1:]...)
			if !r.countdown.Running() && len(r.roster) < model.RoomCapacity {
				r.state = model.RoomStateFilling
			}
			return true
		}
	}
	return false
}

// handleRoundEnd flips the room into RoundEnd when the countdown expires.
// The elimination decision itself belongs to the round resolver.
func (r *Room) handleRoundEnd() {
	r.mu.Lock()
	r.state = model.RoomStateRoundEnd
	r.mu.Unlock()
	r.logger.Info("round timer expired")
}

// Roster returns a copy of the seated players in seating order
func (r *Room) Roster() []model.Player {
	r.mu.RLock()
	defer r.mu.RUnlock()
	roster := make([]model.Player, len(r.roster))
	copy(roster, r.roster)
	return roster
}

// IsSeated reports whether the player is currently in the roster
func (r *Room) IsSeated(id model.PlayerID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.roster {
		if p.ID == id {
			return true
		}
	}
	return false
}

// SeatCount returns the number of seated players
func (r *Room) SeatCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.roster)
}

// FreeSeats returns how many seats remain
func (r *Room) FreeSeats() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return model.RoomCapacity - len(r.roster)
}

// Append adds a message to the room's chat history. The history is
// append-only; entries are never mutated or deleted for the room's lifetime.
func (r *Room) Append(speakerID model.PlayerID, speaker string, kind model.PlayerKind, text string) model.ChatMessage {
	msg := model.ChatMessage{
		SpeakerID: speakerID,
		Speaker:   speaker,
		Kind:      kind,
		Text:      text,
		SentAt:    r.clock.Now(),
	}
	r.mu.Lock()
	r.chat = append(r.chat, msg)
	r.mu.Unlock()
	return msg
}

// History returns a copy of the full chat history in append order
func (r *Room) History() []model.ChatMessage {
	r.mu.RLock()
	defer r.mu.RUnlock()
	history := make([]model.ChatMessage, len(r.chat))
	copy(history, r.chat)
	return history
}

// HistorySince returns messages sent at or after the given time
func (r *Room) HistorySince(t time.Time) []model.ChatMessage {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var history []model.ChatMessage
	for _, m := range r.chat {
		if !m.SentAt.Before(t) {
			history = append(history, m)
		}
	}
	return history
}

// LastMessage returns the most recent player message, and whether one
// exists. System notices are not player speech and are skipped.
func (r *Room) LastMessage() (model.ChatMessage, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := len(r.chat) - 1; i >= 0; i-- {
		if r.chat[i].SpeakerID != model.SystemPlayerID {
			return r.chat[i], true
		}
	}
	return model.ChatMessage{}, false
}

// LastByKind returns the most recent message authored by a speaker of the
// given kind, and whether one exists. System notices are not player speech
// and are skipped.
func (r *Room) LastByKind(kind model.PlayerKind) (model.ChatMessage, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := len(r.chat) - 1; i >= 0; i-- {
		if r.chat[i].SpeakerID != model.SystemPlayerID && r.chat[i].Kind == kind {
			return r.chat[i], true
		}
	}
	return model.ChatMessage{}, false
}

// BotCount returns the number of seated bots
func (r *Room) BotCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.countKindLocked(model.KindBot)
}

// HumanCount returns the number of seated humans
func (r *Room) HumanCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.countKindLocked(model.KindHuman)
}

func (r *Room) countKindLocked(kind model.PlayerKind) int {
	count := 0
	for _, p := range r.roster {
		if p.Kind == kind {
			count++
		}
	}
	return count
}

// Heat classifies the room's composition. Informational only.
func (r *Room) Heat() model.RoomHeat {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.countKindLocked(model.KindBot) > r.countKindLocked(model.KindHuman) {
		return model.HeatIntense
	}
	return model.HeatBalanced
}

// WinRate summarizes the bot/human split as a percentage string, reporting
// ties as "50% Bots / 50% Human".
func (r *Room) WinRate() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bots := r.countKindLocked(model.KindBot)
	humans := r.countKindLocked(model.KindHuman)
	total := bots + humans
	if total == 0 {
		return "No players available"
	}

	switch {
	case bots > humans:
		return fmt.Sprintf("%.0f%% Bots", float64(bots*100)/float64(total))
	case humans > bots:
		return fmt.Sprintf("%.0f%% Human", float64(humans*100)/float64(total))
	default:
		return "50% Bots / 50% Human"
	}
}
