package rankcache

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"

	"gitlab.com/ojcore.net/internal/core/ports/primary"
	"gitlab.com/ojcore.net/internal/core/ports/secondary"
)

const contestRankKeyPrefix = "contest:rank:"

var _ secondary.RankCache = &Cache{}

// Cache invalidates cached contest leaderboard renderings when a rank row
// changes.
type Cache struct {
	redisClient *redis.Client
	logger      primary.Logger
}

// NewCache creates a new rank cache adapter
func NewCache(redisClient *redis.Client, logger primary.Logger) *Cache {
	return &Cache{
		redisClient: redisClient,
		logger:      logger,
	}
}

// InvalidateContestRank drops the cached leaderboard for one contest
func (c *Cache) InvalidateContestRank(ctx context.Context, contestID int64) error {
	key := fmt.Sprintf("%s%d", contestRankKeyPrefix, contestID)
	if err := c.redisClient.Del(ctx, key).Err(); err != nil {
		c.logger.Error("Failed to invalidate contest rank cache", "contestId", contestID, "error", err)
		return fmt.Errorf("failed to invalidate contest rank cache: %w", err)
	}
	return nil
}
