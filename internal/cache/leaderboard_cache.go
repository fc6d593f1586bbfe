package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"rpsarena/internal/model"

	"github.com/redis/go-redis/v9"
)

const (
	winsKey    = "leaderboard:wins"
	streaksKey = "leaderboard:streaks"
	playedKey  = "leaderboard:played"
)

// raises a hash field to ARGV[2] only if that is higher than the stored value
var maxStreakScript = redis.NewScript(`
local current = tonumber(redis.call('HGET', KEYS[1], ARGV[1]) or '0')
if tonumber(ARGV[2]) > current then
	redis.call('HSET', KEYS[1], ARGV[1], ARGV[2])
end
return 1
`)

// LeaderboardCache keeps all-time wins, best streaks and rounds played per
// display name
type LeaderboardCache interface {
	SaveMatch(ctx context.Context, match *model.Match) error
	Top(ctx context.Context, limit int) ([]LeaderboardEntry, error)
}

// LeaderboardEntry represents a single leaderboard entry
type LeaderboardEntry struct {
	Rank       int    `json:"rank"`
	Name       string `json:"name"`
	Wins       int    `json:"wins"`
	BestStreak int    `json:"bestStreak"`
	Played     int    `json:"played"`
}

type leaderboardCache struct {
	client *redis.Client
}

// NewLeaderboardCache creates a new leaderboard cache
func NewLeaderboardCache(client *redis.Client) (LeaderboardCache, error) {
	if client == nil {
		return nil, errors.New("redis client cannot be nil")
	}
	return &leaderboardCache{client: client}, nil
}

// SaveMatch folds one resolved round into the leaderboard
func (c *leaderboardCache) SaveMatch(ctx context.Context, match *model.Match) error {
	if match == nil {
		return errors.New("match cannot be nil")
	}

	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, p := range match.Players {
			won := 0.0
			if p.Won {
				won = 1
			}
			// ZINCRBY 0 still registers losers on the board
			pipe.ZIncrBy(ctx, winsKey, won, p.Name)
			pipe.HIncrBy(ctx, playedKey, p.Name, 1)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to update leaderboard: %w", err)
	}

	for _, p := range match.Players {
		if p.WinStreak == 0 {
			continue
		}
		if err := maxStreakScript.Run(ctx, c.client, []string{streaksKey}, p.Name, p.WinStreak).Err(); err != nil {
			return fmt.Errorf("failed to update best streak: %w", err)
		}
	}
	return nil
}

// Top returns the limit best players by wins
func (c *leaderboardCache) Top(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		return []LeaderboardEntry{}, nil
	}
	results, err := c.client.ZRevRangeWithScores(ctx, winsKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read leaderboard: %w", err)
	}
	if len(results) == 0 {
		return []LeaderboardEntry{}, nil
	}

	names := make([]string, len(results))
	for i, z := range results {
		names[i] = z.Member.(string)
	}
	streaks, err := c.client.HMGet(ctx, streaksKey, names...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read streaks: %w", err)
	}
	played, err := c.client.HMGet(ctx, playedKey, names...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read played counts: %w", err)
	}

	entries := make([]LeaderboardEntry, len(results))
	for i, z := range results {
		entries[i] = LeaderboardEntry{
			Rank:       i + 1,
			Name:       names[i],
			Wins:       int(z.Score),
			BestStreak: toInt(streaks[i]),
			Played:     toInt(played[i]),
		}
	}
	return entries, nil
}

// toInt converts an HMGET value, nil for missing fields
func toInt(v interface{}) int {
	s, ok := v.(string)
	if !ok {
		return 0
	}
	n, _ := strconv.Atoi(s)
	return n
}
