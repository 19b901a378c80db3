package room

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/botornot-chat/botornot/internal/dependencies/mocks"
	"github.com/botornot-chat/botornot/internal/model"
	"github.com/botornot-chat/botornot/internal/testutil"
)

type DirectorySuite struct {
	suite.Suite
	clock     *mocks.MockClock
	random    *mocks.MockRandom
	directory *Directory
}

func TestDirectorySuite(t *testing.T) {
	suite.Run(t, new(DirectorySuite))
}

func (s *DirectorySuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	cfg := Config{RoundSeconds: 120, TickInterval: time.Hour}
	s.directory = NewDirectory(cfg, s.clock, s.random, testutil.NopLogger())
}

func (s *DirectorySuite) TestGetOrCreateOpenRoomCreatesWhenEmpty() {
	r := s.directory.GetOrCreateOpenRoom()
	s.Require().NotNil(r)
	s.Equal(FirstRoomID, r.ID())
	s.Len(s.directory.Rooms(), 1)
}

func (s *DirectorySuite) TestGetOrCreateOpenRoomReusesOpenRoom() {
	first := s.directory.GetOrCreateOpenRoom()
	s.random.QueueIntn(0)
	again := s.directory.GetOrCreateOpenRoom()
	s.Equal(first.ID(), again.ID())
}

func (s *DirectorySuite) TestGetOrCreateOpenRoomPicksAmongOpenRooms() {
	first := s.directory.GetOrCreateOpenRoom()
	// Fill the first room so a second is created
	for i := 0; i < model.RoomCapacity; i++ {
		s.Require().NoError(first.Seat(model.Player{ID: model.PlayerID(101 + i), Kind: model.KindHuman}))
	}
	first.Countdown().Stop()

	second := s.directory.GetOrCreateOpenRoom()
	s.Equal(FirstRoomID+1, second.ID())

	// Unseat one player from the first room; both rooms now open, random
	// index 1 picks the second (candidates sorted by id)
	first.Unseat(101)
	s.random.QueueIntn(1)
	picked := s.directory.GetOrCreateOpenRoom()
	s.Equal(second.ID(), picked.ID())
}

func (s *DirectorySuite) TestAddPlayerToUnknownRoom() {
	err := s.directory.AddPlayerToRoom(999, model.Player{ID: 101})
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *DirectorySuite) TestRemovePlayerFromRoom() {
	r := s.directory.GetOrCreateOpenRoom()
	s.Require().NoError(r.Seat(model.Player{ID: 101, Kind: model.KindHuman}))

	s.True(s.directory.RemovePlayerFromRoom(r.ID(), 101))
	s.False(s.directory.RemovePlayerFromRoom(r.ID(), 101))
	s.False(s.directory.RemovePlayerFromRoom(999, 101))
}

func (s *DirectorySuite) TestRemoveEmptyRooms() {
	occupied := s.directory.GetOrCreateOpenRoom()
	s.Require().NoError(occupied.Seat(model.Player{ID: 101, Kind: model.KindHuman}))
	s.Require().Len(s.directory.Rooms(), 1)

	// Force a second, empty room into existence
	for i := 0; i < model.RoomCapacity-1; i++ {
		s.Require().NoError(occupied.Seat(model.Player{ID: model.PlayerID(102 + i), Kind: model.KindHuman}))
	}
	occupied.Countdown().Stop()
	empty := s.directory.GetOrCreateOpenRoom()
	s.NotEqual(occupied.ID(), empty.ID())

	s.Equal(1, s.directory.RemoveEmptyRooms())
	s.Nil(s.directory.Get(empty.ID()))
	s.NotNil(s.directory.Get(occupied.ID()))
}

func (s *DirectorySuite) TestOnRoomCreatedHookFires() {
	var seen []model.RoomID
	s.directory.OnRoomCreated(func(r *Room) {
		seen = append(seen, r.ID())
	})

	first := s.directory.GetOrCreateOpenRoom()
	s.Equal([]model.RoomID{first.ID()}, seen)
}
