package vote

import (
	"context"
	"log/slog"
	"math"

	"github.com/botornot-chat/botornot/internal/model"
	"github.com/botornot-chat/botornot/internal/storage"
)

// Ledger records star ratings players assign each other. It holds at most
// one entry per (room, voter, target) triple; re-voting overwrites, so each
// bot's latest opinion of a peer is the only one that counts.
type Ledger struct {
	storage storage.Storage
	logger  *slog.Logger
}

// NewLedger creates a vote Ledger
func NewLedger(store storage.Storage, logger *slog.Logger) *Ledger {
	return &Ledger{
		storage: store,
		logger:  logger.With(slog.String("component", "vote-ledger")),
	}
}

// Add upserts a vote. Star ratings outside 1..5 are rejected.
func (l *Ledger) Add(ctx context.Context, roomID model.RoomID, fromID, toID model.PlayerID, star int) error {
	if star < model.MinStar || star > model.MaxStar {
		return model.ErrInvalidStar
	}
	return l.storage.SaveVote(ctx, &model.Vote{
		RoomID: roomID,
		FromID: fromID,
		ToID:   toID,
		Star:   star,
	})
}

// AverageFor returns the arithmetic mean of all stars targeting the player
// in the room, rounded to 2 decimal places (round half away from zero).
// No votes is a valid state and yields 0, not an error.
func (l *Ledger) AverageFor(ctx context.Context, roomID model.RoomID, playerID model.PlayerID) float64 {
	votes, err := l.storage.ListVotesForTarget(ctx, roomID, playerID)
	if err != nil {
		l.logger.Error("vote lookup failed",
			slog.Int("room_id", int(roomID)),
			slog.Int64("player_id", int64(playerID)),
			slog.String("error", err.Error()),
		)
		return 0
	}
	if len(votes) == 0 {
		return 0
	}

	sum := 0
	for _, v := range votes {
		sum += v.Star
	}
	avg := float64(sum) / float64(len(votes))
	return math.Round(avg*100) / 100
}
