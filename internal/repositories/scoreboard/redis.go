package scoreboard

import (
	"context"
	"fmt"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/treasure-realm/internal/errors"
	redisclient "github.com/KirkDiggler/treasure-realm/internal/redis"
)

const (
	// Key pattern: scoreboard:{world_id}
	keyPrefix = "scoreboard:"
)

// Config holds the configuration for the Redis repository
type Config struct {
	Client  redisclient.Client
	WorldID string
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c.Client == nil {
		return errors.InvalidArgument("redis client is required")
	}
	if c.WorldID == "" {
		return errors.InvalidArgument("world ID is required")
	}
	return nil
}

type redisRepository struct {
	client redisclient.Client
	key    string
}

// NewRedisRepository creates a scoreboard stored in one redis sorted set
func NewRedisRepository(cfg *Config) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &redisRepository{
		client: cfg.Client,
		key:    fmt.Sprintf("%s%s", keyPrefix, cfg.WorldID),
	}, nil
}

// Ensure redisRepository implements Repository
var _ Repository = (*redisRepository)(nil)

// RecordScore sets the player's score and returns the new rank
func (r *redisRepository) RecordScore(ctx context.Context, input RecordScoreInput) (*RecordScoreOutput, error) {
	if err := validatePlayerID(input.PlayerID); err != nil {
		return nil, err
	}

	pipe := r.client.TxPipeline()
	pipe.ZAdd(ctx, r.key, redis.Z{Score: float64(input.Score), Member: input.PlayerID})
	rankCmd := pipe.ZRevRank(ctx, r.key, input.PlayerID)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to record score for %s", input.PlayerID)
	}

	return &RecordScoreOutput{Rank: int(rankCmd.Val()) + 1}, nil
}

// Top lists the highest scores
func (r *redisRepository) Top(ctx context.Context, input TopInput) (*TopOutput, error) {
	limit := limitOrDefault(input.Limit)

	members, err := r.client.ZRevRangeWithScores(ctx, r.key, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read scoreboard")
	}

	entries := make([]Entry, 0, len(members))
	for i, m := range members {
		playerID, ok := m.Member.(string)
		if !ok {
			return nil, errors.Internal(fmt.Sprintf("unexpected scoreboard member %v", m.Member))
		}
		entries = append(entries, Entry{
			PlayerID: playerID,
			Score:    int(m.Score),
			Rank:     i + 1,
		})
	}

	return &TopOutput{Entries: entries}, nil
}

// Remove drops a player from the board
func (r *redisRepository) Remove(ctx context.Context, input RemoveInput) (*RemoveOutput, error) {
	if err := validatePlayerID(input.PlayerID); err != nil {
		return nil, err
	}

	removed, err := r.client.ZRem(ctx, r.key, input.PlayerID).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to remove %s from scoreboard", input.PlayerID)
	}

	return &RemoveOutput{Removed: removed > 0}, nil
}
