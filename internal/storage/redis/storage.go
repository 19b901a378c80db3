package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/botornot-chat/botornot/internal/model"
	"github.com/botornot-chat/botornot/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	data, err := json.Marshal(player)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, playerKey(player.ID), data, s.cfg.PlayerTTL)
	pipe.Set(ctx, nameIndexKey(player.Name), int64(player.ID), s.cfg.PlayerTTL)
	pipe.SAdd(ctx, playersIndexKey(), int64(player.ID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	data, err := s.client.Get(ctx, playerKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	var player model.Player
	if err := json.Unmarshal(data, &player); err != nil {
		return nil, err
	}
	return &player, nil
}

func (s *Storage) GetPlayerByName(ctx context.Context, name string) (*model.Player, error) {
	idStr, err := s.client.Get(ctx, nameIndexKey(name)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("corrupt name index entry %q: %w", idStr, err)
	}
	return s.GetPlayer(ctx, model.PlayerID(id))
}

func (s *Storage) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	ids, err := s.client.SMembers(ctx, playersIndexKey()).Result()
	if err != nil {
		return nil, err
	}

	players := make([]*model.Player, 0, len(ids))
	for _, idStr := range ids {
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			continue
		}
		player, err := s.GetPlayer(ctx, model.PlayerID(id))
		if errors.Is(err, model.ErrPlayerNotFound) {
			// Expired record still in the index
			continue
		}
		if err != nil {
			return nil, err
		}
		players = append(players, player)
	}
	return players, nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	player, err := s.GetPlayer(ctx, id)
	if errors.Is(err, model.ErrPlayerNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, playerKey(id))
	pipe.Del(ctx, nameIndexKey(player.Name))
	pipe.SRem(ctx, playersIndexKey(), int64(id))
	_, err = pipe.Exec(ctx)
	return err
}

// Vote operations

func (s *Storage) SaveVote(ctx context.Context, vote *model.Vote) error {
	key := votesKey(vote.RoomID)
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key, voteField(vote.FromID, vote.ToID), vote.Star)
	pipe.Expire(ctx, key, s.cfg.VoteTTL)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) ListVotesForTarget(ctx context.Context, roomID model.RoomID, toID model.PlayerID) ([]*model.Vote, error) {
	fields, err := s.client.HGetAll(ctx, votesKey(roomID)).Result()
	if err != nil {
		return nil, err
	}

	var votes []*model.Vote
	suffix := fmt.Sprintf(":%d", toID)
	for field, starStr := range fields {
		if !strings.HasSuffix(field, suffix) {
			continue
		}
		fromStr := strings.TrimSuffix(field, suffix)
		fromID, err := strconv.ParseInt(fromStr, 10, 64)
		if err != nil {
			continue
		}
		star, err := strconv.Atoi(starStr)
		if err != nil {
			continue
		}
		votes = append(votes, &model.Vote{
			RoomID: roomID,
			FromID: model.PlayerID(fromID),
			ToID:   toID,
			Star:   star,
		})
	}
	return votes, nil
}
