package room

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/botornot-chat/botornot/internal/dependencies/clock"
	"github.com/botornot-chat/botornot/internal/dependencies/random"
	"github.com/botornot-chat/botornot/internal/metrics"
	"github.com/botornot-chat/botornot/internal/model"
)

// FirstRoomID is the id assigned to the first room created
const FirstRoomID model.RoomID = 100

// Config holds room lifecycle settings
type Config struct {
	// RoundSeconds is the countdown duration started when a room fills
	RoundSeconds int
	// TickInterval is the countdown tick period; one second in production,
	// shorter in tests
	TickInterval time.Duration
}

// DefaultConfig returns the production room configuration
func DefaultConfig() Config {
	return Config{
		RoundSeconds: 120,
		TickInterval: time.Second,
	}
}

// Directory creates rooms, assigns incoming players to an under-capacity
// room, and reclaims rooms whose roster has emptied.
type Directory struct {
	mu      sync.RWMutex
	rooms   map[model.RoomID]*Room
	nextID  model.RoomID
	created []func(*Room)

	cfg    Config
	clock  clock.Clock
	random random.Random
	logger *slog.Logger
}

// NewDirectory creates an empty Directory
func NewDirectory(cfg Config, clk clock.Clock, rnd random.Random, logger *slog.Logger) *Directory {
	return &Directory{
		rooms:  make(map[model.RoomID]*Room),
		nextID: FirstRoomID,
		cfg:    cfg,
		clock:  clk,
		random: rnd,
		logger: logger.With(slog.String("component", "room-directory")),
	}
}

// OnRoomCreated registers a hook invoked for every room the directory
// creates. Register hooks before the first room exists.
func (d *Directory) OnRoomCreated(fn func(*Room)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.created = append(d.created, fn)
}

// GetOrCreateOpenRoom returns a room with a free seat, picking uniformly at
// random among the candidates (source policy), or creates a new room when
// every existing one is full.
func (d *Directory) GetOrCreateOpenRoom() *Room {
	d.mu.Lock()
	defer d.mu.Unlock()

	var open []*Room
	for _, r := range d.rooms {
		if r.FreeSeats() > 0 {
			open = append(open, r)
		}
	}
	if len(open) > 0 {
		// Sort so the random pick is reproducible under a mocked Random
		sort.Slice(open, func(i, j int) bool { return open[i].ID() < open[j].ID() })
		return open[d.random.Intn(len(open))]
	}
	return d.createRoomLocked()
}

func (d *Directory) createRoomLocked() *Room {
	r := New(d.nextID, d.cfg.RoundSeconds, d.cfg.TickInterval, d.clock, d.logger)
	d.rooms[r.ID()] = r
	d.nextID++
	metrics.ActiveRooms.Inc()
	d.logger.Info("room created", slog.Int("room_id", int(r.ID())))
	for _, fn := range d.created {
		fn(r)
	}
	return r
}

// Get returns the room with the given id, or nil
func (d *Directory) Get(id model.RoomID) *Room {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.rooms[id]
}

// Rooms returns all live rooms ordered by id
func (d *Directory) Rooms() []*Room {
	d.mu.RLock()
	defer d.mu.RUnlock()
	rooms := make([]*Room, 0, len(d.rooms))
	for _, r := range d.rooms {
		rooms = append(rooms, r)
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].ID() < rooms[j].ID() })
	return rooms
}

// AddPlayerToRoom seats a player, applying the fill-transition rule
func (d *Directory) AddPlayerToRoom(id model.RoomID, p model.Player) error {
	r := d.Get(id)
	if r == nil {
		return model.ErrRoomNotFound
	}
	return r.Seat(p)
}

// RemovePlayerFromRoom unseats a player. Reports whether the player was
// seated in that room.
func (d *Directory) RemovePlayerFromRoom(id model.RoomID, playerID model.PlayerID) bool {
	r := d.Get(id)
	if r == nil {
		return false
	}
	return r.Unseat(playerID)
}

// RemoveEmptyRooms reclaims rooms with no seated players, stopping their
// timers. Safe to call after every removal or periodically. Returns how
// many rooms were removed.
func (d *Directory) RemoveEmptyRooms() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	removed := 0
	for id, r := range d.rooms {
		if r.SeatCount() == 0 {
			r.Countdown().Stop()
			delete(d.rooms, id)
			metrics.ActiveRooms.Dec()
			removed++
			d.logger.Info("empty room removed", slog.Int("room_id", int(id)))
		}
	}
	return removed
}
