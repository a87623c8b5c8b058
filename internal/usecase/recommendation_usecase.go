package usecase

import (
	"context"
	"errors"
	"sort"
	"time"

	"skilllink/internal/domain/demand"
	"skilllink/internal/domain/geo"
	"skilllink/internal/domain/matching"
	"skilllink/internal/domain/recommendation"
	"skilllink/internal/domain/skill"
	"skilllink/internal/pkg/metrics"
	"skilllink/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type RecommendationUsecase interface {
	Recommend(ctx context.Context, workerID uuid.UUID) ([]recommendation.Recommendation, error)
	Invalidate(ctx context.Context, workerID uuid.UUID)
}

type Recommendations struct {
	users    repository.UserRepository
	skills   repository.SkillRepository
	queries  repository.DemandQueryRepository
	cache    Cache
	cacheTTL time.Duration
	radiusKm float64
	metrics  *metrics.Manager
	log      *zap.Logger
	now      func() time.Time
}

func NewRecommendationUsecase(
	users repository.UserRepository,
	skills repository.SkillRepository,
	queries repository.DemandQueryRepository,
	cache Cache,
	cacheTTL time.Duration,
	defaultRadiusKm float64,
	m *metrics.Manager,
	log *zap.Logger,
) *Recommendations {
	if defaultRadiusKm <= 0 {
		defaultRadiusKm = matching.DefaultSearchRadiusKm
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Recommendations{
		users:    users,
		skills:   skills,
		queries:  queries,
		cache:    cache,
		cacheTTL: cacheTTL,
		radiusKm: defaultRadiusKm,
		metrics:  m,
		log:      log,
		now:      time.Now,
	}
}

func (u *Recommendations) Recommend(ctx context.Context, workerID uuid.UUID) ([]recommendation.Recommendation, error) {
	if workerID == uuid.Nil {
		return nil, ErrInvalidInput
	}

	key := RecommendationCacheKey(workerID)
	if u.cache != nil {
		var cached []recommendation.Recommendation
		hit, err := u.cache.GetJSON(ctx, key, &cached)
		if err != nil {
			u.log.Debug("recommendation cache read failed", zap.Error(err))
		}
		if hit {
			u.metrics.RecordRecommendation(true, len(cached))
			return cached, nil
		}
	}

	w, err := u.users.GetByID(ctx, workerID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, ErrInternal
	}
	if !w.IsWorker() {
		return nil, ErrWorkerRequired
	}

	related, err := u.skills.FindRelatedTo(ctx, w.SkillNames())
	if err != nil {
		u.log.Error("load related skills failed", zap.Error(err), zap.Stringer("worker_id", workerID))
		return nil, ErrInternal
	}

	radius := w.Profile.SearchRadiusKm
	if radius <= 0 {
		radius = u.radiusKm
	}
	local, err := u.highDemandNear(ctx, w.Profile.Location, radius)
	if err != nil {
		u.log.Error("load regional demand failed", zap.Error(err), zap.Stringer("worker_id", workerID))
		return nil, ErrInternal
	}

	relatedPool := make([]recommendation.Skill, 0, len(related))
	for _, s := range related {
		relatedPool = append(relatedPool, toRecommendationSkill(s))
	}

	recs := recommendation.Recommend(relatedPool, local, recommendation.Worker{SkillCategories: w.SkillCategories()})

	if u.cache != nil {
		if err := u.cache.SetJSON(ctx, key, recs, u.cacheTTL); err != nil {
			u.log.Debug("recommendation cache write failed", zap.Error(err))
		}
	}
	u.metrics.RecordRecommendation(false, len(recs))
	return recs, nil
}

func (u *Recommendations) Invalidate(ctx context.Context, workerID uuid.UUID) {
	if u.cache == nil {
		return
	}
	if err := u.cache.Delete(ctx, RecommendationCacheKey(workerID)); err != nil {
		u.log.Debug("recommendation cache delete failed", zap.Error(err))
	}
}

// highDemandNear builds the regional pool from jobs posted within the
// lookback window inside radiusKm of center.
func (u *Recommendations) highDemandNear(ctx context.Context, center geo.Point, radiusKm float64) ([]recommendation.LocalSkill, error) {
	since := u.now().UTC().Add(-demand.LookbackWindow)
	nearby, err := u.queries.NearbyJobSkillSets(ctx, geo.BoundingBox(center, radiusKm), since)
	if err != nil {
		return nil, err
	}

	sets := make([][]string, 0, len(nearby))
	for _, nj := range nearby {
		if geo.Within(nj.Location, center, radiusKm) {
			sets = append(sets, skill.Keys(nj.Skills))
		}
	}
	shares := demand.RegionalDemand(sets)
	if len(shares) == 0 {
		return []recommendation.LocalSkill{}, nil
	}

	names := make([]string, 0, len(shares))
	for name := range shares {
		names = append(names, name)
	}
	sort.Strings(names)

	found, err := u.skills.FindByNames(ctx, names)
	if err != nil {
		return nil, err
	}
	out := make([]recommendation.LocalSkill, 0, len(found))
	for _, s := range found {
		out = append(out, recommendation.LocalSkill{
			Skill:          toRecommendationSkill(s),
			LocalDemandPct: shares[skill.Key(s.Name)],
		})
	}
	return out, nil
}

func toRecommendationSkill(s skill.Skill) recommendation.Skill {
	return recommendation.Skill{
		ID:               s.ID,
		Name:             s.Name,
		Category:         s.Category,
		CurrentDemandPct: float64(s.CurrentDemandPct),
		GrowthRatePct:    float64(s.GrowthRatePct),
	}
}
