// Package round resolves room rounds: when a room's countdown expires, the
// player with the highest average rating is eliminated and the room is
// opened back up for new arrivals.
package round

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/botornot-chat/botornot/internal/model"
	"github.com/botornot-chat/botornot/internal/room"
	"github.com/botornot-chat/botornot/internal/services/bot"
	"github.com/botornot-chat/botornot/internal/services/player"
	"github.com/botornot-chat/botornot/internal/services/vote"
)

// BotPool is the slice of the orchestrator the resolver needs: stopping an
// eliminated bot's loop and refilling the room afterwards.
type BotPool interface {
	NotifyUnseated(playerID model.PlayerID)
	BackfillOnLeave(roomID model.RoomID)
}

// Resolver watches every room's countdown and performs eliminations
type Resolver struct {
	registry  *player.Registry
	ledger    *vote.Ledger
	directory *room.Directory
	pool      BotPool
	transport bot.Transport
	logger    *slog.Logger
}

// NewResolver creates a resolver and attaches it to the directory: every
// room created from now on gets an elimination observer on its countdown.
func NewResolver(
	registry *player.Registry,
	ledger *vote.Ledger,
	directory *room.Directory,
	pool BotPool,
	transport bot.Transport,
	logger *slog.Logger,
) *Resolver {
	r := &Resolver{
		registry:  registry,
		ledger:    ledger,
		directory: directory,
		pool:      pool,
		transport: transport,
		logger:    logger.With(slog.String("component", "round_resolver")),
	}
	directory.OnRoomCreated(r.watch)
	return r
}

func (r *Resolver) watch(rm *room.Room) {
	rm.Countdown().OnFinished(func() {
		r.resolve(rm)
	})
}

// resolve eliminates the most suspicious player of the finished round: the
// one with the highest average rating, lowest id on ties.
func (r *Resolver) resolve(rm *room.Room) {
	ctx := context.Background()

	target, ok := r.mostRated(ctx, rm)
	if !ok {
		return
	}

	r.logger.Info("round finished",
		slog.Int("room_id", int(rm.ID())),
		slog.Int("round", rm.RoundNumber()),
		slog.String("eliminated", target.Name),
		slog.String("kind", string(target.Kind)))

	msg := rm.Append(model.SystemPlayerID, "System", model.KindBot,
		fmt.Sprintf("%s was eliminated from the group.", target.Name))
	r.transport.Broadcast(rm.ID(), msg)

	r.pool.NotifyUnseated(target.ID)
	r.directory.RemovePlayerFromRoom(rm.ID(), target.ID)
	r.registry.Remove(ctx, target.ID)

	r.directory.RemoveEmptyRooms()
	if r.directory.Get(rm.ID()) != nil {
		r.pool.BackfillOnLeave(rm.ID())
	}
}

// mostRated returns the seated player with the highest average rating.
// With no votes cast every average is zero and the longest-seated player
// (lowest id) goes, so a finished round always eliminates someone.
func (r *Resolver) mostRated(ctx context.Context, rm *room.Room) (model.Player, bool) {
	roster := rm.Roster()
	if len(roster) == 0 {
		return model.Player{}, false
	}

	best := roster[0]
	bestAvg := r.ledger.AverageFor(ctx, rm.ID(), best.ID)
	for _, p := range roster[1:] {
		avg := r.ledger.AverageFor(ctx, rm.ID(), p.ID)
		if avg > bestAvg || (avg == bestAvg && p.ID < best.ID) {
			best = p
			bestAvg = avg
		}
	}
	return best, true
}
