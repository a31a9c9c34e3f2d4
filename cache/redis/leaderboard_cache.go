package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"plottwist/domain/entities"
	"plottwist/domain/interfaces"

	"github.com/redis/go-redis/v9"
)

const leaderboardTTL = 60 * time.Second

// LeaderboardCache implements interfaces.LeaderboardCache using Redis
// strings with JSON-serialized profile slices.
//
// Key schema:
//
//	leaderboard:coins:{limit} - JSON array of profiles
type LeaderboardCache struct {
	rdb *redis.Client
}

// NewLeaderboardCache creates a LeaderboardCache backed by the given Client.
func NewLeaderboardCache(c *Client) *LeaderboardCache {
	return &LeaderboardCache{rdb: c.Underlying()}
}

func leaderboardKey(limit int) string {
	return fmt.Sprintf("leaderboard:coins:%d", limit)
}

// Get retrieves a cached leaderboard page. It returns ok=false on a miss.
func (lc *LeaderboardCache) Get(ctx context.Context, limit int) ([]*entities.Profile, bool, error) {
	data, err := lc.rdb.Get(ctx, leaderboardKey(limit)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis: get leaderboard: %w", err)
	}

	var profiles []*entities.Profile
	if err := json.Unmarshal(data, &profiles); err != nil {
		return nil, false, fmt.Errorf("redis: unmarshal leaderboard: %w", err)
	}
	return profiles, true, nil
}

// Set stores a leaderboard page with a short TTL. Staleness is bounded by
// the TTL rather than invalidated on every balance change.
func (lc *LeaderboardCache) Set(ctx context.Context, limit int, profiles []*entities.Profile) error {
	data, err := json.Marshal(profiles)
	if err != nil {
		return fmt.Errorf("redis: marshal leaderboard: %w", err)
	}
	if err := lc.rdb.Set(ctx, leaderboardKey(limit), data, leaderboardTTL).Err(); err != nil {
		return fmt.Errorf("redis: set leaderboard: %w", err)
	}
	return nil
}

// Compile-time interface check.
var _ interfaces.LeaderboardCache = (*LeaderboardCache)(nil)
