package round

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/botornot-chat/botornot/internal/dependencies/mocks"
	"github.com/botornot-chat/botornot/internal/model"
	"github.com/botornot-chat/botornot/internal/room"
	"github.com/botornot-chat/botornot/internal/services/player"
	"github.com/botornot-chat/botornot/internal/services/vote"
	"github.com/botornot-chat/botornot/internal/storage/memory"
	"github.com/botornot-chat/botornot/internal/testutil"
)

type fakePool struct {
	mu        sync.Mutex
	unseated  []model.PlayerID
	backfills []model.RoomID
}

func (p *fakePool) NotifyUnseated(playerID model.PlayerID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.unseated = append(p.unseated, playerID)
}

func (p *fakePool) BackfillOnLeave(roomID model.RoomID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.backfills = append(p.backfills, roomID)
}

func (p *fakePool) snapshot() ([]model.PlayerID, []model.RoomID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]model.PlayerID(nil), p.unseated...), append([]model.RoomID(nil), p.backfills...)
}

type fakeTransport struct {
	mu   sync.Mutex
	msgs []model.ChatMessage
}

func (t *fakeTransport) Broadcast(roomID model.RoomID, msg model.ChatMessage) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.msgs = append(t.msgs, msg)
}

func (t *fakeTransport) hasText(text string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, m := range t.msgs {
		if m.Text == text {
			return true
		}
	}
	return false
}

type ResolverSuite struct {
	suite.Suite

	clock     *mocks.MockClock
	registry  *player.Registry
	ledger    *vote.Ledger
	directory *room.Directory
	pool      *fakePool
	transport *fakeTransport
}

func (s *ResolverSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC))

	registry, err := player.NewRegistry(memory.New(), s.clock, testutil.NopLogger())
	s.Require().NoError(err)
	s.registry = registry

	s.ledger = vote.NewLedger(memory.New(), testutil.NopLogger())

	cfg := room.DefaultConfig()
	cfg.RoundSeconds = 3
	cfg.TickInterval = time.Millisecond
	s.directory = room.NewDirectory(cfg, s.clock, mocks.NewMockRandom(), testutil.NopLogger())

	s.pool = &fakePool{}
	s.transport = &fakeTransport{}
	NewResolver(s.registry, s.ledger, s.directory, s.pool, s.transport, testutil.NopLogger())
}

// fillRoom seats five players in a fresh room, which starts its countdown
func (s *ResolverSuite) fillRoom(names ...string) (*room.Room, []*model.Player) {
	s.Require().Len(names, model.RoomCapacity)
	rm := s.directory.GetOrCreateOpenRoom()
	players := make([]*model.Player, 0, len(names))
	for i, name := range names {
		kind := model.KindHuman
		if i%2 == 1 {
			kind = model.KindBot
		}
		p, err := s.registry.Add(context.Background(), name, rm.ID(), kind)
		s.Require().NoError(err)
		s.Require().NoError(s.directory.AddPlayerToRoom(rm.ID(), *p))
		players = append(players, p)
	}
	s.Require().Equal(model.RoomStateRunning, rm.State())
	return rm, players
}

func (s *ResolverSuite) TestEliminatesHighestRated() {
	rm, players := s.fillRoom("a", "b", "c", "d", "e")
	ctx := context.Background()

	// "c" is rated most human-like by two peers
	s.Require().NoError(s.ledger.Add(ctx, rm.ID(), players[0].ID, players[2].ID, 5))
	s.Require().NoError(s.ledger.Add(ctx, rm.ID(), players[1].ID, players[2].ID, 4))
	s.Require().NoError(s.ledger.Add(ctx, rm.ID(), players[0].ID, players[3].ID, 2))

	s.Require().Eventually(func() bool {
		return !rm.IsSeated(players[2].ID)
	}, time.Second, time.Millisecond)

	s.True(s.transport.hasText("c was eliminated from the group."))
	_, err := s.registry.Get(ctx, players[2].ID)
	s.ErrorIs(err, model.ErrPlayerNotFound)

	unseated, backfills := s.pool.snapshot()
	s.Equal([]model.PlayerID{players[2].ID}, unseated)
	s.Equal([]model.RoomID{rm.ID()}, backfills)

	// The survivors keep their seats and the room reopens
	s.Equal(4, rm.SeatCount())
	s.Equal(model.RoomStateFilling, rm.State())
}

func (s *ResolverSuite) TestTieEliminatesLongestSeated() {
	rm, players := s.fillRoom("a", "b", "c", "d", "e")
	ctx := context.Background()

	s.Require().NoError(s.ledger.Add(ctx, rm.ID(), players[0].ID, players[1].ID, 4))
	s.Require().NoError(s.ledger.Add(ctx, rm.ID(), players[0].ID, players[3].ID, 4))

	s.Require().Eventually(func() bool {
		return !rm.IsSeated(players[1].ID)
	}, time.Second, time.Millisecond)

	s.True(rm.IsSeated(players[3].ID))
}

func (s *ResolverSuite) TestNoVotesStillEliminates() {
	rm, players := s.fillRoom("a", "b", "c", "d", "e")

	s.Require().Eventually(func() bool {
		return !rm.IsSeated(players[0].ID)
	}, time.Second, time.Millisecond)

	s.True(s.transport.hasText("a was eliminated from the group."))
}

func (s *ResolverSuite) TestRefillStartsNextRound() {
	rm, players := s.fillRoom("a", "b", "c", "d", "e")
	ctx := context.Background()

	s.Require().NoError(s.ledger.Add(ctx, rm.ID(), players[0].ID, players[4].ID, 5))

	s.Require().Eventually(func() bool {
		return rm.State() == model.RoomStateFilling
	}, time.Second, time.Millisecond)
	s.Equal(1, rm.RoundNumber())

	replacement, err := s.registry.Add(ctx, "f", rm.ID(), model.KindBot)
	s.Require().NoError(err)
	s.Require().NoError(s.directory.AddPlayerToRoom(rm.ID(), *replacement))

	s.Require().Eventually(func() bool {
		return rm.State() == model.RoomStateFilling && rm.RoundNumber() == 2
	}, time.Second, time.Millisecond)
}

func TestResolverSuite(t *testing.T) {
	suite.Run(t, new(ResolverSuite))
}
