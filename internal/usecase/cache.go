package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Cache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

const recommendationCachePattern = "recs:*"

func RecommendationCacheKey(workerID uuid.UUID) string {
	return "recs:worker:" + workerID.String()
}

// invalidateRecommendations drops every cached recommendation list. Demand
// scores, categories and relation edges all feed them.
func invalidateRecommendations(ctx context.Context, c Cache, log *zap.Logger) {
	if c == nil {
		return
	}
	if err := c.DeleteByPattern(ctx, recommendationCachePattern); err != nil {
		log.Warn("recommendation cache invalidation failed", zap.Error(err))
	}
}
