package usecase

import (
	"context"
	"errors"
	"math"
	"strings"

	"skilllink/internal/domain/skill"
	"skilllink/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultSkillPageLimit = 10
	maxSkillPageLimit     = 100
)

type UpsertSkillInput struct {
	Name          string
	Category      string
	Description   string
	Status        string
	AvgHourlyRate *float64
	// RelatedSkills replaces the outgoing relation edges when non-nil.
	RelatedSkills []string
}

type SkillListParams struct {
	Category string
	Search   string
	Page     int
	Limit    int
}

type SkillPage struct {
	Items      []skill.Skill
	Page       int
	Limit      int
	Total      int
	TotalPages int
}

type SkillUsecase interface {
	Upsert(ctx context.Context, in UpsertSkillInput) (skill.Skill, error)
	List(ctx context.Context, p SkillListParams) (SkillPage, error)
	Get(ctx context.Context, id uuid.UUID) (skill.Skill, error)
}

type Skills struct {
	skills repository.SkillRepository
	cache  Cache
	log    *zap.Logger
}

func NewSkillUsecase(skills repository.SkillRepository, cache Cache, log *zap.Logger) *Skills {
	if log == nil {
		log = zap.NewNop()
	}
	return &Skills{skills: skills, cache: cache, log: log}
}

func (u *Skills) Upsert(ctx context.Context, in UpsertSkillInput) (skill.Skill, error) {
	name := strings.TrimSpace(in.Name)
	category := strings.TrimSpace(in.Category)
	if name == "" || category == "" {
		return skill.Skill{}, ErrInvalidInput
	}
	status := strings.TrimSpace(in.Status)
	if status == "" {
		status = skill.StatusActive
	}
	if status != skill.StatusActive && status != skill.StatusInactive {
		return skill.Skill{}, ErrInvalidInput
	}
	if in.AvgHourlyRate != nil && (*in.AvgHourlyRate < 0 || math.IsNaN(*in.AvgHourlyRate)) {
		return skill.Skill{}, ErrInvalidInput
	}

	var related []string
	if in.RelatedSkills != nil {
		related = make([]string, 0, len(in.RelatedSkills))
		for _, r := range cleanSkillNames(in.RelatedSkills) {
			if skill.Key(r) != skill.Key(name) {
				related = append(related, r)
			}
		}
	}

	s, err := u.skills.Upsert(ctx, skill.Skill{
		Name:          name,
		Category:      category,
		Description:   strings.TrimSpace(in.Description),
		Status:        status,
		AvgHourlyRate: in.AvgHourlyRate,
	}, related)
	if err != nil {
		u.log.Error("upsert skill failed", zap.Error(err), zap.String("skill", name))
		return skill.Skill{}, ErrInternal
	}
	invalidateRecommendations(ctx, u.cache, u.log)
	return s, nil
}

func (u *Skills) List(ctx context.Context, p SkillListParams) (SkillPage, error) {
	page := p.Page
	if page == 0 {
		page = 1
	}
	limit := p.Limit
	if limit == 0 {
		limit = defaultSkillPageLimit
	}
	if page < 1 || limit < 1 {
		return SkillPage{}, ErrInvalidInput
	}
	if limit > maxSkillPageLimit {
		limit = maxSkillPageLimit
	}

	items, total, err := u.skills.List(ctx, repository.SkillListFilter{
		Category: strings.TrimSpace(p.Category),
		Search:   p.Search,
		Limit:    limit,
		Offset:   (page - 1) * limit,
	})
	if err != nil {
		u.log.Error("list skills failed", zap.Error(err))
		return SkillPage{}, ErrInternal
	}
	return SkillPage{
		Items:      items,
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: (total + limit - 1) / limit,
	}, nil
}

func (u *Skills) Get(ctx context.Context, id uuid.UUID) (skill.Skill, error) {
	s, err := u.skills.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrSkillNotFound) {
			return skill.Skill{}, ErrSkillNotFound
		}
		return skill.Skill{}, ErrInternal
	}
	return s, nil
}
