package model

import "time"

// RoomID identifies a chat room
type RoomID int

// RoomCapacity is the fixed seating limit of a room
const RoomCapacity = 5

// RoomState represents where a room is in its round lifecycle
type RoomState string

const (
	// RoomStateFilling means fewer than RoomCapacity players are seated
	RoomStateFilling RoomState = "filling"
	// RoomStateRunning means the room is full and the countdown is active
	RoomStateRunning RoomState = "running"
	// RoomStateRoundEnd means the countdown expired and an elimination
	// decision is pending from the round resolver
	RoomStateRoundEnd RoomState = "round_end"
)

// RoomHeat is an informational classification of a room's composition
type RoomHeat string

const (
	// HeatIntense means bots outnumber humans in the room
	HeatIntense RoomHeat = "intense"
	// HeatBalanced is everything else
	HeatBalanced RoomHeat = "balanced"
)

// ChatMessage is one entry in a room's append-only chat log. Messages are
// never mutated or deleted; the speaker's kind is captured at append time so
// readers don't depend on the speaker still being seated.
type ChatMessage struct {
	SpeakerID PlayerID
	Speaker   string
	Kind      PlayerKind
	Text      string
	SentAt    time.Time
}
