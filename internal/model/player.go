package model

import "time"

// PlayerID uniquely identifies a player within the process
type PlayerID int64

// SystemPlayerID is the reserved speaker id for server-generated chat
// notices (joins, leaves, eliminations)
const SystemPlayerID PlayerID = 0

// PlayerKind distinguishes human participants from bot participants
type PlayerKind string

const (
	KindHuman PlayerKind = "human"
	KindBot   PlayerKind = "bot"
)

// Player represents a game participant. Name and Kind are immutable after
// creation; the average rating is derived from the vote ledger on read and
// never stored here.
type Player struct {
	ID        PlayerID
	Name      string
	RoomID    RoomID
	Kind      PlayerKind
	CreatedAt time.Time
}

// IsBot reports whether the player is bot-controlled
func (p Player) IsBot() bool {
	return p.Kind == KindBot
}
