package stats

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/mrson-dev/crm-ju-ai/repository"
)

// UseCase serves dashboard counters with a cache-aside Redis layer.
type UseCase struct {
	stats  repository.StatsRepository
	cache  repository.StatsCache
	logger *zap.Logger
	now    func() time.Time
}

func New(stats repository.StatsRepository, cache repository.StatsCache, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		stats:  stats,
		cache:  cache,
		logger: logger,
		now:    time.Now,
	}
}

// Dashboard returns cached counters when fresh, falling back to SQL
// aggregates on a miss. Cache failures are logged, never surfaced.
func (uc *UseCase) Dashboard(ctx context.Context, userID string) (repository.DashboardStats, error) {
	if uc.cache != nil {
		cached, err := uc.cache.Get(ctx, userID)
		if err != nil {
			uc.logger.Warn("stats cache read failed", zap.Error(err))
		} else if cached != nil {
			return *cached, nil
		}
	}

	computed, err := uc.stats.Dashboard(ctx, userID, uc.now())
	if err != nil {
		return repository.DashboardStats{}, err
	}

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, userID, computed); err != nil {
			uc.logger.Warn("stats cache write failed", zap.Error(err))
		}
	}
	return computed, nil
}

// Invalidate drops the cached dashboard after a write that changes counters.
func (uc *UseCase) Invalidate(ctx context.Context, userID string) {
	if uc.cache == nil {
		return
	}
	if _, err := uc.cache.Invalidate(ctx, userID); err != nil {
		uc.logger.Warn("stats cache invalidation failed", zap.Error(err))
	}
}
