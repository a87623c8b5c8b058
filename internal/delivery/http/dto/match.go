package dto

import (
	"skilllink/internal/domain/matching"

	"github.com/google/uuid"
)

type MatchedJobResponse struct {
	JobResponse
	AIMatchScore int     `json:"ai_match_score"`
	DistanceKm   float64 `json:"distance_km"`
}

type MatchDetailResponse struct {
	JobID        uuid.UUID `json:"job_id"`
	AIMatchScore int       `json:"ai_match_score"`
	DistanceKm   float64   `json:"distance_km"`
	Skills       float64   `json:"skills"`
	Experience   float64   `json:"experience"`
	Location     float64   `json:"location"`
	Availability float64   `json:"availability"`
	Rating       float64   `json:"rating"`
}

func NewMatchDetailResponse(jobID uuid.UUID, b matching.Breakdown) MatchDetailResponse {
	return MatchDetailResponse{
		JobID:        jobID,
		AIMatchScore: b.Score,
		DistanceKm:   b.DistanceKm,
		Skills:       b.Skills,
		Experience:   b.Experience,
		Location:     b.Location,
		Availability: b.Availability,
		Rating:       b.Rating,
	}
}
