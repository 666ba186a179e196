package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/michaelkatsweb/Heronix-Application-sub012/internal/models"
	appErrors "github.com/michaelkatsweb/Heronix-Application-sub012/pkg/errors"
)

const dashboardSummaryCacheKey = "dashboard:summary"

type dashboardRepository interface {
	EntityCounts(ctx context.Context) (*models.EntityCounts, error)
	LatestOptimizedSchedule(ctx context.Context) (*models.Schedule, error)
}

// DashboardService composes the admin landing page payload. Summaries are
// cached and invalidated by entity writes and schedule imports.
type DashboardService struct {
	repo     dashboardRepository
	cache    *CacheService
	cacheTTL time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// NewDashboardService constructs the dashboard service.
func NewDashboardService(repo dashboardRepository, cache *CacheService, cacheTTL time.Duration, logger *zap.Logger) *DashboardService {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{repo: repo, cache: cache, cacheTTL: cacheTTL, logger: logger, now: time.Now}
}

// Summary returns entity counts plus the latest optimized schedule.
func (s *DashboardService) Summary(ctx context.Context) (*models.DashboardSummary, error) {
	var cached models.DashboardSummary
	if hit, err := s.cache.Get(ctx, dashboardSummaryCacheKey, &cached); err == nil && hit {
		return &cached, nil
	}

	counts, err := s.repo.EntityCounts(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build dashboard summary")
	}
	latest, err := s.repo.LatestOptimizedSchedule(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build dashboard summary")
	}

	summary := &models.DashboardSummary{
		Counts:         *counts,
		LatestSchedule: latest,
		GeneratedAt:    s.now().UTC(),
	}
	if err := s.cache.Set(ctx, dashboardSummaryCacheKey, summary, s.cacheTTL); err != nil {
		s.logger.Warn("dashboard summary cache write failed", zap.Error(err))
	}
	return summary, nil
}
