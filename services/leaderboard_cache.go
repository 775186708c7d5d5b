package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const leaderboardKey = "stead:leaderboard"

// RedisLeaderboardCache keeps the serialized leaderboard under one key.
type RedisLeaderboardCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisLeaderboardCache(client redis.Cmdable, ttl time.Duration) *RedisLeaderboardCache {
	return &RedisLeaderboardCache{client: client, ttl: ttl}
}

func (c *RedisLeaderboardCache) Get(ctx context.Context) ([]LeaderboardEntry, bool, error) {
	raw, err := c.client.Get(ctx, leaderboardKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get leaderboard: %w", err)
	}
	var entries []LeaderboardEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, false, fmt.Errorf("decode cached leaderboard: %w", err)
	}
	return entries, true, nil
}

func (c *RedisLeaderboardCache) Set(ctx context.Context, entries []LeaderboardEntry) error {
	raw, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, leaderboardKey, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set leaderboard: %w", err)
	}
	return nil
}

func (c *RedisLeaderboardCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, leaderboardKey).Err(); err != nil {
		return fmt.Errorf("redis del leaderboard: %w", err)
	}
	return nil
}
