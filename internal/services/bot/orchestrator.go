package bot

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/botornot-chat/botornot/internal/dependencies/clock"
	"github.com/botornot-chat/botornot/internal/dependencies/random"
	"github.com/botornot-chat/botornot/internal/model"
	"github.com/botornot-chat/botornot/internal/reasoning"
	"github.com/botornot-chat/botornot/internal/room"
	"github.com/botornot-chat/botornot/internal/services/player"
	"github.com/botornot-chat/botornot/internal/services/vote"
)

// Transport delivers a chat message to everyone connected to a room. The
// websocket hub implements it; tests substitute a recorder.
type Transport interface {
	Broadcast(roomID model.RoomID, msg model.ChatMessage)
}

// Config holds the orchestrator's pacing and sizing knobs
type Config struct {
	// MinSeedBots and MaxSeedBots bound how many bots join a fresh room
	MinSeedBots int
	MaxSeedBots int

	// JoinDelayMin/Max stagger bot arrivals so they don't pile in at once
	JoinDelayMin time.Duration
	JoinDelayMax time.Duration

	// ThinkDelayMin/Max pace each bot's iterations
	ThinkDelayMin time.Duration
	ThinkDelayMax time.Duration

	// InactivityThreshold silences bots when no human has spoken recently
	InactivityThreshold time.Duration

	// Cooldown is the minimum gap between any two bot messages in a room
	Cooldown time.Duration

	// RecentHistoryWindow bounds the history sent with rating requests
	RecentHistoryWindow time.Duration

	// MaxTokens caps the length of generated replies
	MaxTokens int

	// MaxNameAttempts bounds name draws before giving up on a join
	MaxNameAttempts int
}

// DefaultConfig returns the production orchestrator configuration
func DefaultConfig() Config {
	return Config{
		MinSeedBots:         1,
		MaxSeedBots:         3,
		JoinDelayMin:        5 * time.Second,
		JoinDelayMax:        15 * time.Second,
		ThinkDelayMin:       10 * time.Second,
		ThinkDelayMax:       20 * time.Second,
		InactivityThreshold: 2 * time.Minute,
		Cooldown:            5 * time.Second,
		RecentHistoryWindow: 10 * time.Minute,
		MaxTokens:           50,
		MaxNameAttempts:     25,
	}
}

// Orchestrator owns the bot population: it seeds bots into rooms, runs one
// conversation loop per bot, backfills rooms that empty out, and records
// the ratings bots assign to their peers.
type Orchestrator struct {
	cfg       Config
	registry  *player.Registry
	ledger    *vote.Ledger
	directory *room.Directory
	reasoner  reasoning.Service
	transport Transport
	clock     clock.Clock
	random    random.Random
	logger    *slog.Logger

	baseCtx context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	mu      sync.Mutex
	seeding map[model.RoomID]bool
	loops   map[model.PlayerID]context.CancelFunc
}

// New creates an orchestrator. Shutdown must be called to stop the bot
// loops it spawns.
func New(
	cfg Config,
	registry *player.Registry,
	ledger *vote.Ledger,
	directory *room.Directory,
	reasoner reasoning.Service,
	transport Transport,
	clk clock.Clock,
	rnd random.Random,
	logger *slog.Logger,
) *Orchestrator {
	ctx, cancel := context.WithCancel(context.Background())
	return &Orchestrator{
		cfg:       cfg,
		registry:  registry,
		ledger:    ledger,
		directory: directory,
		reasoner:  reasoner,
		transport: transport,
		clock:     clk,
		random:    rnd,
		logger:    logger.With(slog.String("component", "bot_orchestrator")),
		baseCtx:   ctx,
		cancel:    cancel,
		seeding:   make(map[model.RoomID]bool),
		loops:     make(map[model.PlayerID]context.CancelFunc),
	}
}

// HandleGroupJoined posts the join notice for a newly seated player and,
// for humans, makes sure the room has a bot contingent on the way.
func (o *Orchestrator) HandleGroupJoined(ctx context.Context, p model.Player) {
	rm := o.directory.Get(p.RoomID)
	if rm == nil {
		return
	}
	o.systemNotice(rm, fmt.Sprintf("%s joined the group.", p.Name))
	if !p.IsBot() {
		o.EnsureSeeding(p.RoomID)
	}
}

// HandleGroupLeft removes a player who disconnected or quit: unseats them,
// posts the leave notice, retires their registration, and schedules a
// backfill so the room doesn't go quiet.
func (o *Orchestrator) HandleGroupLeft(ctx context.Context, playerID model.PlayerID) {
	p, err := o.registry.Get(ctx, playerID)
	if err != nil {
		return
	}

	o.NotifyUnseated(playerID)
	o.directory.RemovePlayerFromRoom(p.RoomID, playerID)
	o.registry.Remove(ctx, playerID)

	if rm := o.directory.Get(p.RoomID); rm != nil {
		o.systemNotice(rm, fmt.Sprintf("%s left the group.", p.Name))
	}

	o.directory.RemoveEmptyRooms()
	if o.directory.Get(p.RoomID) != nil {
		o.BackfillOnLeave(p.RoomID)
	}
}

// VerifySeat confirms the player exists and holds a seat in the room
func (o *Orchestrator) VerifySeat(ctx context.Context, roomID model.RoomID, playerID model.PlayerID) error {
	if _, err := o.registry.Get(ctx, playerID); err != nil {
		return err
	}
	rm := o.directory.Get(roomID)
	if rm == nil {
		return model.ErrRoomNotFound
	}
	if !rm.IsSeated(playerID) {
		return model.ErrNotInRoom
	}
	return nil
}

// RecordMessage appends a player's chat line to the room log. The caller
// is responsible for broadcasting the returned message.
func (o *Orchestrator) RecordMessage(ctx context.Context, roomID model.RoomID, playerID model.PlayerID, text string) (model.ChatMessage, error) {
	p, err := o.registry.Get(ctx, playerID)
	if err != nil {
		return model.ChatMessage{}, err
	}
	rm := o.directory.Get(roomID)
	if rm == nil {
		return model.ChatMessage{}, model.ErrRoomNotFound
	}
	if !rm.IsSeated(playerID) {
		return model.ChatMessage{}, model.ErrNotInRoom
	}
	return rm.Append(p.ID, p.Name, p.Kind, text), nil
}

// EnsureSeeding starts a seeding run for the room unless one is already in
// flight or the room is full. A surviving bot does not suppress the run:
// rooms drained by leaves and eliminations must be topped back up.
func (o *Orchestrator) EnsureSeeding(roomID model.RoomID) {
	rm := o.directory.Get(roomID)
	if rm == nil || rm.FreeSeats() == 0 {
		return
	}

	o.mu.Lock()
	if o.seeding[roomID] {
		o.mu.Unlock()
		return
	}
	o.seeding[roomID] = true
	o.mu.Unlock()

	o.wg.Add(1)
	go o.seed(roomID)
}

// BackfillOnLeave re-seeds the room after a randomized delay, mimicking a
// new person happening to join a while after someone left.
func (o *Orchestrator) BackfillOnLeave(roomID model.RoomID) {
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		select {
		case <-o.baseCtx.Done():
			return
		case <-time.After(o.durationBetween(o.cfg.JoinDelayMin, o.cfg.JoinDelayMax)):
		}
		o.EnsureSeeding(roomID)
	}()
}

// NotifyUnseated stops the conversation loop of a bot that is no longer
// seated. Calling it for a human or unknown id is a no-op.
func (o *Orchestrator) NotifyUnseated(playerID model.PlayerID) {
	o.mu.Lock()
	cancel, ok := o.loops[playerID]
	if ok {
		delete(o.loops, playerID)
	}
	o.mu.Unlock()
	if ok {
		cancel()
	}
}

// Shutdown stops all bot loops and in-flight seeding runs and waits for
// them to drain.
func (o *Orchestrator) Shutdown() {
	o.cancel()
	o.mu.Lock()
	o.loops = make(map[model.PlayerID]context.CancelFunc)
	o.mu.Unlock()
	o.wg.Wait()
}

// seed joins a random number of bots to the room, each after its own
// arrival delay. It stops early when the room fills or disappears.
func (o *Orchestrator) seed(roomID model.RoomID) {
	defer o.wg.Done()
	defer func() {
		o.mu.Lock()
		delete(o.seeding, roomID)
		o.mu.Unlock()
	}()

	count := o.random.Between(o.cfg.MinSeedBots, o.cfg.MaxSeedBots+1)
	o.logger.Info("seeding room",
		slog.Int("room_id", int(roomID)),
		slog.Int("bot_count", count))

	for i := 0; i < count; i++ {
		select {
		case <-o.baseCtx.Done():
			return
		case <-time.After(o.durationBetween(o.cfg.JoinDelayMin, o.cfg.JoinDelayMax)):
		}

		rm := o.directory.Get(roomID)
		if rm == nil || rm.FreeSeats() == 0 {
			return
		}
		if err := o.joinBot(rm); err != nil {
			o.logger.Warn("bot join failed",
				slog.Int("room_id", int(roomID)),
				slog.Any("error", err))
			return
		}
	}
}

// joinBot registers one bot under a fresh name and persona, seats it, and
// starts its conversation loop.
func (o *Orchestrator) joinBot(rm *room.Room) error {
	name, err := o.pickName(o.baseCtx)
	if err != nil {
		return err
	}
	persona := fmt.Sprintf(personaTemplates[o.random.Intn(len(personaTemplates))], name)

	p, err := o.registry.Add(o.baseCtx, name, rm.ID(), model.KindBot)
	if err != nil {
		return err
	}
	if err := o.directory.AddPlayerToRoom(rm.ID(), *p); err != nil {
		o.registry.Remove(o.baseCtx, p.ID)
		return err
	}

	o.systemNotice(rm, fmt.Sprintf("%s joined the group.", p.Name))
	o.startLoop(*p, persona)
	return nil
}

// pickName draws from the name pool until it finds an unused name,
// bounded so a saturated pool cannot spin forever.
func (o *Orchestrator) pickName(ctx context.Context) (string, error) {
	for attempt := 0; attempt < o.cfg.MaxNameAttempts; attempt++ {
		name := botNames[o.random.Intn(len(botNames))]
		if !o.registry.Exists(ctx, name) {
			return name, nil
		}
	}
	return "", model.ErrNamePoolExhausted
}

func (o *Orchestrator) startLoop(p model.Player, persona string) {
	ctx, cancel := context.WithCancel(o.baseCtx)
	o.mu.Lock()
	o.loops[p.ID] = cancel
	o.mu.Unlock()

	o.wg.Add(1)
	go o.runLoop(ctx, p, persona)
}

// systemNotice appends a System announcement to the room log and
// broadcasts it.
func (o *Orchestrator) systemNotice(rm *room.Room, text string) {
	msg := rm.Append(model.SystemPlayerID, "System", model.KindBot, text)
	o.transport.Broadcast(rm.ID(), msg)
}

// durationBetween returns a random duration in [min, max] at millisecond
// granularity.
func (o *Orchestrator) durationBetween(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	ms := o.random.Between(int(min.Milliseconds()), int(max.Milliseconds())+1)
	return time.Duration(ms) * time.Millisecond
}
