package cache

import (
	"context"
	"fmt"
	"scholarprep/internal/model"

	"github.com/redis/go-redis/v9"
)

// LeaderboardCache handles Redis ZSET operations for per-grade point leaderboards
type LeaderboardCache interface {
	SetPoints(ctx context.Context, grade model.Grade, studentID string, points int) error
	GetTop(ctx context.Context, grade model.Grade, limit int) ([]model.LeaderboardEntry, error)
	GetRank(ctx context.Context, grade model.Grade, studentID string) (int64, error)
}

type leaderboardCache struct {
	client *redis.Client
}

// NewLeaderboardCache creates a new leaderboard cache
func NewLeaderboardCache(client *redis.Client) LeaderboardCache {
	return &leaderboardCache{
		client: client,
	}
}

func (c *leaderboardCache) key(grade model.Grade) string {
	return fmt.Sprintf("leaderboard:%s", grade)
}

func (c *leaderboardCache) SetPoints(ctx context.Context, grade model.Grade, studentID string, points int) error {
	return c.client.ZAdd(ctx, c.key(grade), redis.Z{
		Score:  float64(points),
		Member: studentID,
	}).Err()
}

func (c *leaderboardCache) GetTop(ctx context.Context, grade model.Grade, limit int) ([]model.LeaderboardEntry, error) {
	results, err := c.client.ZRevRangeWithScores(ctx, c.key(grade), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]model.LeaderboardEntry, len(results))
	for i, z := range results {
		entries[i] = model.LeaderboardEntry{
			StudentID: z.Member.(string),
			Points:    int(z.Score),
			Rank:      i + 1,
		}
	}
	return entries, nil
}

func (c *leaderboardCache) GetRank(ctx context.Context, grade model.Grade, studentID string) (int64, error) {
	rank, err := c.client.ZRevRank(ctx, c.key(grade), studentID).Result()
	if err == redis.Nil {
		return -1, nil
	}
	return rank + 1, err // 1-indexed
}
