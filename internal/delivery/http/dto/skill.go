package dto

import (
	"time"

	"skilllink/internal/domain/recommendation"
	"skilllink/internal/domain/skill"

	"github.com/google/uuid"
)

type SkillResponse struct {
	ID              uuid.UUID   `json:"id"`
	Name            string      `json:"name"`
	Category        string      `json:"category"`
	Description     string      `json:"description"`
	Status          string      `json:"status"`
	CurrentDemand   int         `json:"current_demand"`
	GrowthRate      int         `json:"growth_rate"`
	DemandUpdatedAt *time.Time  `json:"demand_updated_at"`
	AvgHourlyRate   *float64    `json:"average_hourly_rate"`
	RelatedSkillIDs []uuid.UUID `json:"related_skill_ids"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

type SkillListResponse struct {
	Skills     []SkillResponse `json:"skills"`
	Pagination Pagination      `json:"pagination"`
}

type RecommendedSkill struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Category      string    `json:"category"`
	CurrentDemand float64   `json:"current_demand"`
	GrowthRate    float64   `json:"growth_rate"`
}

type RecommendationResponse struct {
	Skill  RecommendedSkill `json:"skill"`
	Score  float64          `json:"score"`
	Reason string           `json:"reason"`
}

func NewSkillResponse(s skill.Skill) SkillResponse {
	related := s.RelatedIDs
	if related == nil {
		related = []uuid.UUID{}
	}
	return SkillResponse{
		ID:              s.ID,
		Name:            s.Name,
		Category:        s.Category,
		Description:     s.Description,
		Status:          s.Status,
		CurrentDemand:   s.CurrentDemandPct,
		GrowthRate:      s.GrowthRatePct,
		DemandUpdatedAt: s.DemandUpdatedAt,
		AvgHourlyRate:   s.AvgHourlyRate,
		RelatedSkillIDs: related,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

func NewRecommendationResponses(recs []recommendation.Recommendation) []RecommendationResponse {
	out := make([]RecommendationResponse, 0, len(recs))
	for _, r := range recs {
		out = append(out, RecommendationResponse{
			Skill: RecommendedSkill{
				ID:            r.Skill.ID,
				Name:          r.Skill.Name,
				Category:      r.Skill.Category,
				CurrentDemand: r.Skill.CurrentDemandPct,
				GrowthRate:    r.Skill.GrowthRatePct,
			},
			Score:  r.Score,
			Reason: r.Reason,
		})
	}
	return out
}
