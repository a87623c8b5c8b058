package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"skilllink/internal/domain/demand"
	"skilllink/internal/domain/skill"
	"skilllink/internal/pkg/metrics"
	"skilllink/internal/pkg/workerpool"
	"skilllink/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DemandNotifier is told about every persisted demand refresh.
type DemandNotifier interface {
	SkillDemandUpdated(s skill.Skill)
}

type DemandUsecase interface {
	RefreshSkill(ctx context.Context, skillID uuid.UUID, trigger string) (skill.Skill, error)
	RefreshAll(ctx context.Context, trigger string) (int, error)
}

const defaultRefreshWorkers = 4

type Demand struct {
	skills   repository.SkillRepository
	queries  repository.DemandQueryRepository
	cache    Cache
	notifier DemandNotifier
	metrics  *metrics.Manager
	log      *zap.Logger
	now      func() time.Time
	workers  int
}

func NewDemandUsecase(
	skills repository.SkillRepository,
	queries repository.DemandQueryRepository,
	cache Cache,
	notifier DemandNotifier,
	m *metrics.Manager,
	log *zap.Logger,
) *Demand {
	if log == nil {
		log = zap.NewNop()
	}
	return &Demand{
		skills:   skills,
		queries:  queries,
		cache:    cache,
		notifier: notifier,
		metrics:  m,
		log:      log,
		now:      time.Now,
		workers:  defaultRefreshWorkers,
	}
}

func (u *Demand) RefreshSkill(ctx context.Context, skillID uuid.UUID, trigger string) (skill.Skill, error) {
	if skillID == uuid.Nil {
		return skill.Skill{}, ErrInvalidInput
	}
	s, err := u.refresh(ctx, skillID)
	if err != nil {
		u.metrics.RecordDemandRefreshError()
		return skill.Skill{}, err
	}
	u.metrics.RecordDemandRefresh(trigger, 1)
	u.invalidateRecommendations(ctx)
	return s, nil
}

// RefreshAll recomputes every active skill on a bounded worker pool. A
// failing skill is logged and skipped; the error reports how many failed.
func (u *Demand) RefreshAll(ctx context.Context, trigger string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	started := u.now()
	ids, err := u.skills.ListActiveIDs(ctx)
	if err != nil {
		u.log.Error("list active skills failed", zap.Error(err))
		return 0, ErrInternal
	}

	pool := workerpool.New(u.workers, len(ids))
	for _, id := range ids {
		id := id
		pool.Submit(func(ctx context.Context) error {
			if _, err := u.refresh(ctx, id); err != nil {
				u.log.Warn("skill demand refresh failed", zap.Stringer("skill_id", id), zap.Error(err))
				return err
			}
			return nil
		})
	}
	pool.Close()

	refreshed, failed := 0, 0
	for res := range pool.Run(ctx) {
		if res.Err != nil {
			failed++
			u.metrics.RecordDemandRefreshError()
			continue
		}
		refreshed++
	}

	u.metrics.RecordDemandRefresh(trigger, refreshed)
	u.metrics.ObserveDemandRefreshDuration(u.now().Sub(started))
	if refreshed > 0 {
		u.invalidateRecommendations(ctx)
	}
	if err := ctx.Err(); err != nil {
		return refreshed, err
	}
	u.log.Info("demand refresh finished",
		zap.String("trigger", trigger),
		zap.Int("refreshed", refreshed),
		zap.Int("failed", failed),
	)

	if failed > 0 {
		return refreshed, fmt.Errorf("%w: %d of %d skills failed", ErrRefreshIncomplete, failed, len(ids))
	}
	return refreshed, nil
}

// SetRefreshWorkers bounds how many skills RefreshAll recomputes at once.
func (u *Demand) SetRefreshWorkers(n int) {
	if n > 0 {
		u.workers = n
	}
}

func (u *Demand) refresh(ctx context.Context, skillID uuid.UUID) (skill.Skill, error) {
	if _, err := u.skills.GetByID(ctx, skillID); err != nil {
		if errors.Is(err, repository.ErrSkillNotFound) {
			return skill.Skill{}, ErrSkillNotFound
		}
		return skill.Skill{}, ErrInternal
	}

	now := u.now().UTC()
	times, err := u.queries.JobTimesForSkill(ctx, skillID, now.Add(-demand.LookbackWindow))
	if err != nil {
		u.log.Error("load job times failed", zap.Error(err), zap.Stringer("skill_id", skillID))
		return skill.Skill{}, ErrInternal
	}
	workers, err := u.queries.CountWorkersWithSkill(ctx, skillID)
	if err != nil {
		u.log.Error("count workers failed", zap.Error(err), zap.Stringer("skill_id", skillID))
		return skill.Skill{}, ErrInternal
	}

	m := demand.Compute(times, workers, now)
	updated, err := u.skills.UpdateDemand(ctx, skillID, m)
	if err != nil {
		if errors.Is(err, repository.ErrSkillNotFound) {
			return skill.Skill{}, ErrSkillNotFound
		}
		u.log.Error("persist demand failed", zap.Error(err), zap.Stringer("skill_id", skillID))
		return skill.Skill{}, ErrInternal
	}

	u.log.Debug("skill demand refreshed",
		zap.String("skill", updated.Name),
		zap.Int("jobs", len(times)),
		zap.Int("workers", workers),
		zap.Int("current_demand", m.CurrentDemandPct),
		zap.Int("growth_rate", m.GrowthRatePct),
	)
	if u.notifier != nil {
		u.notifier.SkillDemandUpdated(updated)
	}
	return updated, nil
}

func (u *Demand) invalidateRecommendations(ctx context.Context) {
	invalidateRecommendations(ctx, u.cache, u.log)
}
