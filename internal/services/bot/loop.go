package bot

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/botornot-chat/botornot/internal/metrics"
	"github.com/botornot-chat/botornot/internal/model"
	"github.com/botornot-chat/botornot/internal/reasoning"
	"github.com/botornot-chat/botornot/internal/room"
)

// runLoop is a single bot's life in its room: wait a think delay, check the
// room is still worth speaking into, maybe take a turn, repeat. It exits
// when the loop context is cancelled or the bot loses its seat.
func (o *Orchestrator) runLoop(ctx context.Context, bot model.Player, persona string) {
	defer o.wg.Done()

	activatedAt := o.clock.Now()
	logger := o.logger.With(
		slog.String("bot", bot.Name),
		slog.Int("room_id", int(bot.RoomID)))
	logger.Info("bot loop started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("bot loop stopped")
			return
		case <-time.After(o.durationBetween(o.cfg.ThinkDelayMin, o.cfg.ThinkDelayMax)):
		}

		rm := o.directory.Get(bot.RoomID)
		if rm == nil || !rm.IsSeated(bot.ID) {
			logger.Info("bot loop stopped", slog.String("reason", "unseated"))
			return
		}
		if !o.shouldSpeak(rm, bot) {
			continue
		}
		o.takeTurn(ctx, rm, bot, persona, activatedAt, logger)
	}
}

// shouldSpeak applies the conversational gates: humans must have spoken
// recently, the room-wide bot cooldown must have elapsed, and a bot never
// follows its own message.
func (o *Orchestrator) shouldSpeak(rm *room.Room, bot model.Player) bool {
	lastHuman, ok := rm.LastByKind(model.KindHuman)
	if !ok || o.clock.Since(lastHuman.SentAt) > o.cfg.InactivityThreshold {
		return false
	}
	if last, ok := rm.LastMessage(); ok && last.SpeakerID == bot.ID {
		return false
	}
	if lastBot, ok := rm.LastByKind(model.KindBot); ok && o.clock.Since(lastBot.SentAt) < o.cfg.Cooldown {
		return false
	}
	return true
}

// takeTurn generates and posts one reply, then rates the other players.
// Every failure is logged and absorbed; nothing about the reasoning
// collaborator ever reaches the chat.
func (o *Orchestrator) takeTurn(ctx context.Context, rm *room.Room, bot model.Player, persona string, activatedAt time.Time, logger *slog.Logger) {
	roster := rm.Roster()
	entries := make([]reasoning.RosterEntry, 0, len(roster))
	var selfRating float64
	for _, p := range roster {
		avg := o.ledger.AverageFor(ctx, rm.ID(), p.ID)
		entries = append(entries, reasoning.RosterEntry{Name: p.Name, Rating: avg})
		if p.ID == bot.ID {
			selfRating = avg
		}
	}

	line, err := o.reasoner.Generate(ctx, reasoning.GenerateRequest{
		BotName:          bot.Name,
		Persona:          persona,
		Roster:           entries,
		SelfRating:       selfRating,
		RemainingSeconds: rm.RemainingSeconds(),
		History:          rm.HistorySince(activatedAt),
		MaxTokens:        o.cfg.MaxTokens,
	})
	if err != nil {
		logger.Warn("reply generation failed", slog.Any("error", err))
		return
	}
	if line == "" {
		return
	}
	if !rm.IsSeated(bot.ID) {
		return
	}

	msg := rm.Append(bot.ID, bot.Name, model.KindBot, line)
	o.transport.Broadcast(rm.ID(), msg)
	metrics.BotMessagesTotal.Inc()

	o.ratePeers(ctx, rm, bot, roster, logger)
}

// ratePeers asks the reasoning service to score everyone else in the room
// and records the scores as this bot's votes.
func (o *Orchestrator) ratePeers(ctx context.Context, rm *room.Room, bot model.Player, roster []model.Player, logger *slog.Logger) {
	candidates := make([]string, 0, len(roster))
	for _, p := range roster {
		if p.ID != bot.ID {
			candidates = append(candidates, p.Name)
		}
	}
	if len(candidates) == 0 {
		return
	}

	ratings, err := o.reasoner.Rate(ctx, reasoning.RateRequest{
		BotName:    bot.Name,
		Candidates: candidates,
		History:    rm.HistorySince(o.clock.Now().Add(-o.cfg.RecentHistoryWindow)),
	})
	if err != nil {
		logger.Warn("peer rating failed", slog.Any("error", err))
		return
	}

	for name, star := range ratings {
		if strings.EqualFold(name, bot.Name) {
			continue
		}
		id := o.registry.IDOf(ctx, name)
		if id == model.SystemPlayerID {
			continue
		}
		if err := o.ledger.Add(ctx, rm.ID(), bot.ID, id, star); err != nil {
			logger.Warn("vote rejected",
				slog.String("target", name),
				slog.Int("star", star),
				slog.Any("error", err))
			continue
		}
		metrics.VotesRecordedTotal.Inc()
	}
}
