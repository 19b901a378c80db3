package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/botornot-chat/botornot/internal/model"
	"github.com/botornot-chat/botornot/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	players   map[model.PlayerID]*model.Player
	nameIndex map[string]model.PlayerID // lower-cased name -> id
	votes     map[voteKey]*model.Vote
}

type voteKey struct {
	roomID model.RoomID
	fromID model.PlayerID
	toID   model.PlayerID
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		players:   make(map[model.PlayerID]*model.Player),
		nameIndex: make(map[string]model.PlayerID),
		votes:     make(map[voteKey]*model.Vote),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players[player.ID] = player
	s.nameIndex[strings.ToLower(player.Name)] = player.ID
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return player, nil
}

func (s *Storage) GetPlayerByName(ctx context.Context, name string) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.nameIndex[strings.ToLower(name)]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return player, nil
}

func (s *Storage) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	players := make([]*model.Player, 0, len(s.players))
	for _, p := range s.players {
		players = append(players, p)
	}
	return players, nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.players[id]; ok {
		delete(s.nameIndex, strings.ToLower(p.Name))
	}
	delete(s.players, id)
	return nil
}

// Vote operations

func (s *Storage) SaveVote(ctx context.Context, vote *model.Vote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.votes[voteKey{vote.RoomID, vote.FromID, vote.ToID}] = vote
	return nil
}

func (s *Storage) ListVotesForTarget(ctx context.Context, roomID model.RoomID, toID model.PlayerID) ([]*model.Vote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var votes []*model.Vote
	for key, v := range s.votes {
		if key.roomID == roomID && key.toID == toID {
			votes = append(votes, v)
		}
	}
	return votes, nil
}
