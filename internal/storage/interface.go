package storage

import (
	"context"

	"github.com/botornot-chat/botornot/internal/model"
)

// Storage defines the backing store for the two flat datasets the engine
// keeps: player records and votes. Rooms, chat history, and timers are live
// in-memory aggregates and never pass through here.
type Storage interface {
	// Player operations
	SavePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	// GetPlayerByName looks a player up case-insensitively
	GetPlayerByName(ctx context.Context, name string) (*model.Player, error)
	ListPlayers(ctx context.Context) ([]*model.Player, error)
	DeletePlayer(ctx context.Context, id model.PlayerID) error

	// Vote operations. SaveVote upserts by the (room, from, to) key.
	SaveVote(ctx context.Context, vote *model.Vote) error
	// ListVotesForTarget returns every vote in the room targeting the player
	ListVotesForTarget(ctx context.Context, roomID model.RoomID, toID model.PlayerID) ([]*model.Vote, error)
}
