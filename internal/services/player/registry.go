package player

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/botornot-chat/botornot/internal/dependencies/clock"
	"github.com/botornot-chat/botornot/internal/model"
	"github.com/botornot-chat/botornot/internal/storage"
)

// FirstPlayerID is the id assigned to the first registered player. Ids below
// it are reserved (0 is the System speaker).
const FirstPlayerID model.PlayerID = 100

// SystemPlayerName is the display name of the reserved System speaker
const SystemPlayerName = "System"

// Registry assigns stable identities to players and answers name/id lookups.
// Compound operations are serialized under one coarse lock; contention is
// low and the operations are cheap.
type Registry struct {
	mu      sync.Mutex
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
	nextID  model.PlayerID
}

// NewRegistry creates a Registry and seeds the reserved System player, which
// server-generated chat notices are attributed to.
func NewRegistry(store storage.Storage, clk clock.Clock, logger *slog.Logger) (*Registry, error) {
	r := &Registry{
		storage: store,
		clock:   clk,
		logger:  logger.With(slog.String("component", "player-registry")),
		nextID:  FirstPlayerID,
	}

	system := &model.Player{
		ID:        model.SystemPlayerID,
		Name:      SystemPlayerName,
		Kind:      model.KindBot,
		CreatedAt: clk.Now(),
	}
	if err := store.SavePlayer(context.Background(), system); err != nil {
		return nil, err
	}
	return r, nil
}

// Add registers a new player with a fresh monotonically increasing id.
// Name and kind are immutable after this point.
func (r *Registry) Add(ctx context.Context, name string, roomID model.RoomID, kind model.PlayerKind) (*model.Player, error) {
	if strings.TrimSpace(name) == "" {
		return nil, model.ErrEmptyName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.existsLocked(ctx, name) {
		return nil, model.ErrNameTaken
	}

	player := &model.Player{
		ID:        r.nextID,
		Name:      name,
		RoomID:    roomID,
		Kind:      kind,
		CreatedAt: r.clock.Now(),
	}
	if err := r.storage.SavePlayer(ctx, player); err != nil {
		return nil, err
	}
	r.nextID++

	r.logger.Info("player registered",
		slog.Int64("player_id", int64(player.ID)),
		slog.String("name", player.Name),
		slog.String("kind", string(player.Kind)),
		slog.Int("room_id", int(roomID)),
	)
	return player, nil
}

// Get returns the player with the given id
func (r *Registry) Get(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	return r.storage.GetPlayer(ctx, id)
}

// NameOf returns a player's name, or the empty string when unknown
func (r *Registry) NameOf(ctx context.Context, id model.PlayerID) string {
	player, err := r.storage.GetPlayer(ctx, id)
	if err != nil {
		return ""
	}
	return player.Name
}

// IDOf returns the id of the named player, or 0 when unknown
func (r *Registry) IDOf(ctx context.Context, name string) model.PlayerID {
	player, err := r.storage.GetPlayerByName(ctx, name)
	if err != nil {
		return 0
	}
	return player.ID
}

// Exists reports whether a player with the given name is registered.
// The check is case-insensitive.
func (r *Registry) Exists(ctx context.Context, name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.existsLocked(ctx, name)
}

func (r *Registry) existsLocked(ctx context.Context, name string) bool {
	_, err := r.storage.GetPlayerByName(ctx, name)
	return err == nil
}

// Remove unregisters a player. It reports whether the player existed.
func (r *Registry) Remove(ctx context.Context, id model.PlayerID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.storage.GetPlayer(ctx, id)
	if errors.Is(err, model.ErrPlayerNotFound) {
		return false
	}
	if err != nil {
		r.logger.Error("player lookup failed", slog.Int64("player_id", int64(id)), slog.String("error", err.Error()))
		return false
	}
	if err := r.storage.DeletePlayer(ctx, id); err != nil {
		r.logger.Error("player delete failed", slog.Int64("player_id", int64(id)), slog.String("error", err.Error()))
		return false
	}
	return true
}

// CountByKind returns how many registered players are of the given kind.
// The System player is not counted.
func (r *Registry) CountByKind(ctx context.Context, kind model.PlayerKind) int {
	players, err := r.storage.ListPlayers(ctx)
	if err != nil {
		return 0
	}
	count := 0
	for _, p := range players {
		if p.ID == model.SystemPlayerID {
			continue
		}
		if p.Kind == kind {
			count++
		}
	}
	return count
}
