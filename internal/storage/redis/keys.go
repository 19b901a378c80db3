package redis

import (
	"fmt"
	"strings"

	"github.com/botornot-chat/botornot/internal/model"
)

// Key prefix for all engine data
const keyPrefix = "botornot"

// playerKey returns the Redis key for a Player
func playerKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%d", keyPrefix, id)
}

// playersIndexKey returns the Redis key for the SET of all player ids
func playersIndexKey() string {
	return fmt.Sprintf("%s:idx:players", keyPrefix)
}

// nameIndexKey returns the Redis key for the name -> player_id index.
// Names are case-insensitive, so the index is keyed lower-cased.
func nameIndexKey(name string) string {
	return fmt.Sprintf("%s:idx:name:%s", keyPrefix, strings.ToLower(name))
}

// votesKey returns the Redis key for a room's vote hash. Hash fields are
// "<from>:<to>" pairs, values are star ratings.
func votesKey(roomID model.RoomID) string {
	return fmt.Sprintf("%s:votes:%d", keyPrefix, roomID)
}

// voteField returns the hash field for a (from, to) vote pair
func voteField(fromID, toID model.PlayerID) string {
	return fmt.Sprintf("%d:%d", fromID, toID)
}
