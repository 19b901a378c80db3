package model

// Vote is a 1-5 star rating one player assigns another within a room.
// The (RoomID, FromID, ToID) triple is the ledger key; re-voting overwrites.
type Vote struct {
	RoomID RoomID
	FromID PlayerID
	ToID   PlayerID
	Star   int
}

// Star rating bounds
const (
	MinStar = 1
	MaxStar = 5
)
