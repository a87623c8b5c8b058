package usecase

import (
	"context"
	"errors"
	"testing"

	"skilllink/internal/domain/skill"

	"github.com/google/uuid"
)

func TestSkillUsecase_Upsert(t *testing.T) {
	skills := newMockSkillRepo()
	cache := newMemCache()
	stale := RecommendationCacheKey(uuid.New())
	cache.data[stale] = []byte(`[]`)
	uc := NewSkillUsecase(skills, cache, nil)
	rate := 450.0

	got, err := uc.Upsert(context.Background(), UpsertSkillInput{
		Name:          " Pipe Fitting ",
		Category:      "Plumbing",
		AvgHourlyRate: &rate,
		RelatedSkills: []string{"Plumbing", "pipe fitting", "PLUMBING"},
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.Name != "Pipe Fitting" || got.Status != skill.StatusActive {
		t.Fatalf("unexpected skill: %+v", got)
	}
	rel := skills.upsertRel[0]
	if len(rel) != 1 || rel[0] != "Plumbing" {
		t.Fatalf("related = %v", rel)
	}
	if _, ok := cache.data[stale]; ok {
		t.Fatalf("cached recommendations survived a skill upsert")
	}
	if len(cache.patterns) != 1 || cache.patterns[0] != recommendationCachePattern {
		t.Fatalf("invalidation patterns = %v", cache.patterns)
	}

	if _, err := uc.Upsert(context.Background(), UpsertSkillInput{Name: "Tiling", Category: "Masonry"}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if skills.upsertRel[1] != nil {
		t.Fatalf("nil related skills should leave edges unchanged")
	}
}

func TestSkillUsecase_Upsert_Invalid(t *testing.T) {
	uc := NewSkillUsecase(newMockSkillRepo(), nil, nil)
	neg := -1.0
	cases := map[string]UpsertSkillInput{
		"no name":     {Category: "Plumbing"},
		"no category": {Name: "Pipe Fitting"},
		"bad status":  {Name: "Pipe Fitting", Category: "Plumbing", Status: "archived"},
		"bad rate":    {Name: "Pipe Fitting", Category: "Plumbing", AvgHourlyRate: &neg},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := uc.Upsert(context.Background(), in); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestSkillUsecase_ListAndGet(t *testing.T) {
	s := catalogSkill("Plumbing", "Plumbing", 40, 10)
	skills := newMockSkillRepo(s)
	uc := NewSkillUsecase(skills, nil, nil)

	page, err := uc.List(context.Background(), SkillListParams{Category: " Plumbing ", Page: 3, Limit: 1000})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if skills.listFilter.Category != "Plumbing" || skills.listFilter.Limit != maxSkillPageLimit || skills.listFilter.Offset != 2*maxSkillPageLimit {
		t.Fatalf("filter = %+v", skills.listFilter)
	}
	if page.Total != 1 {
		t.Fatalf("total = %d", page.Total)
	}

	got, err := uc.Get(context.Background(), s.ID)
	if err != nil || got.ID != s.ID {
		t.Fatalf("Get = %+v, %v", got, err)
	}
	if _, err := uc.Get(context.Background(), uuid.New()); !errors.Is(err, ErrSkillNotFound) {
		t.Fatalf("expected ErrSkillNotFound, got %v", err)
	}
}
