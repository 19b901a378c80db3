package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/botornot-chat/botornot/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.PlayerTTL = time.Hour
	cfg.VoteTTL = time.Hour

	s.storage = NewWithClient(client, cfg)
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

// Player tests

func (s *StorageSuite) TestSaveAndGetPlayer() {
	player := &model.Player{
		ID:        101,
		Name:      "Alice",
		RoomID:    100,
		Kind:      model.KindHuman,
		CreatedAt: time.Now().UTC(),
	}

	err := s.storage.SavePlayer(s.ctx, player)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetPlayer(s.ctx, 101)
	s.Require().NoError(err)
	s.Equal(player.Name, retrieved.Name)
	s.Equal(model.RoomID(100), retrieved.RoomID)
}

func (s *StorageSuite) TestGetPlayerNotFound() {
	_, err := s.storage.GetPlayer(s.ctx, 999)
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestGetPlayerByNameIsCaseInsensitive() {
	player := &model.Player{ID: 101, Name: "Kabir12", Kind: model.KindBot}
	s.Require().NoError(s.storage.SavePlayer(s.ctx, player))

	retrieved, err := s.storage.GetPlayerByName(s.ctx, "KABIR12")
	s.Require().NoError(err)
	s.Equal(model.PlayerID(101), retrieved.ID)
}

func (s *StorageSuite) TestDeletePlayerRemovesIndexes() {
	player := &model.Player{ID: 101, Name: "Alice", Kind: model.KindHuman}
	s.Require().NoError(s.storage.SavePlayer(s.ctx, player))

	s.Require().NoError(s.storage.DeletePlayer(s.ctx, 101))

	_, err := s.storage.GetPlayer(s.ctx, 101)
	s.ErrorIs(err, model.ErrPlayerNotFound)
	_, err = s.storage.GetPlayerByName(s.ctx, "Alice")
	s.ErrorIs(err, model.ErrPlayerNotFound)

	players, err := s.storage.ListPlayers(s.ctx)
	s.Require().NoError(err)
	s.Empty(players)
}

func (s *StorageSuite) TestDeletePlayerNotFoundIsNoop() {
	s.NoError(s.storage.DeletePlayer(s.ctx, 999))
}

func (s *StorageSuite) TestListPlayersSkipsExpiredRecords() {
	s.Require().NoError(s.storage.SavePlayer(s.ctx, &model.Player{ID: 101, Name: "Alice", Kind: model.KindHuman}))
	s.Require().NoError(s.storage.SavePlayer(s.ctx, &model.Player{ID: 102, Name: "Riya07", Kind: model.KindBot}))

	// Expire one player record but leave the index entry behind
	s.mini.FastForward(2 * time.Hour)
	s.Require().NoError(s.storage.SavePlayer(s.ctx, &model.Player{ID: 102, Name: "Riya07", Kind: model.KindBot}))

	players, err := s.storage.ListPlayers(s.ctx)
	s.Require().NoError(err)
	s.Len(players, 1)
	s.Equal(model.PlayerID(102), players[0].ID)
}

// Vote tests

func (s *StorageSuite) TestSaveVoteUpserts() {
	s.Require().NoError(s.storage.SaveVote(s.ctx, &model.Vote{RoomID: 100, FromID: 101, ToID: 102, Star: 3}))
	s.Require().NoError(s.storage.SaveVote(s.ctx, &model.Vote{RoomID: 100, FromID: 101, ToID: 102, Star: 5}))

	votes, err := s.storage.ListVotesForTarget(s.ctx, 100, 102)
	s.Require().NoError(err)
	s.Require().Len(votes, 1)
	s.Equal(5, votes[0].Star)
}

func (s *StorageSuite) TestListVotesForTargetDoesNotMatchIdSuffixes() {
	// Target id 5 must not match a vote targeting id 15
	s.Require().NoError(s.storage.SaveVote(s.ctx, &model.Vote{RoomID: 100, FromID: 1, ToID: 5, Star: 4}))
	s.Require().NoError(s.storage.SaveVote(s.ctx, &model.Vote{RoomID: 100, FromID: 1, ToID: 15, Star: 2}))

	votes, err := s.storage.ListVotesForTarget(s.ctx, 100, 5)
	s.Require().NoError(err)
	s.Len(votes, 1)
	s.Equal(model.PlayerID(5), votes[0].ToID)
}
