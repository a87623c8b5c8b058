package dto

import (
	"time"

	"skilllink/internal/domain/job"

	"github.com/google/uuid"
)

type JobResponse struct {
	ID                      uuid.UUID           `json:"id"`
	BusinessID              uuid.UUID           `json:"business_id"`
	Title                   string              `json:"title"`
	Description             string              `json:"description"`
	Category                string              `json:"category"`
	RequiredSkills          []string            `json:"required_skills"`
	RequiredExperienceYears float64             `json:"required_experience_years"`
	Type                    string              `json:"job_type"`
	Location                GeoPoint            `json:"location"`
	Address                 string              `json:"address"`
	Budget                  BudgetResponse      `json:"budget"`
	Urgency                 string              `json:"urgency"`
	Status                  string              `json:"status"`
	AssignedWorkerID        *uuid.UUID          `json:"assigned_worker_id"`
	Completion              *CompletionResponse `json:"completion,omitempty"`
	CreatedAt               time.Time           `json:"created_at"`
	UpdatedAt               time.Time           `json:"updated_at"`
}

type BudgetResponse struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

type CompletionResponse struct {
	BusinessRating *float64              `json:"business_rating"`
	BusinessReview string                `json:"business_review,omitempty"`
	WorkerRating   *float64              `json:"worker_rating"`
	WorkerReview   string                `json:"worker_review,omitempty"`
	ProofOfWork    []ProofOfWorkResponse `json:"proof_of_work,omitempty"`
	CompletedAt    *time.Time            `json:"completed_at"`
}

type ProofOfWorkResponse struct {
	Type        string `json:"type"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

type JobListResponse struct {
	Jobs       []JobResponse `json:"jobs"`
	Pagination Pagination    `json:"pagination"`
}

type ApplicationResponse struct {
	ID          uuid.UUID `json:"id"`
	JobID       uuid.UUID `json:"job_id"`
	WorkerID    uuid.UUID `json:"worker_id"`
	Proposal    string    `json:"proposal"`
	QuotedPrice float64   `json:"quoted_price"`
	Status      string    `json:"status"`
	AppliedAt   time.Time `json:"applied_at"`
}

func NewJobResponse(j job.Job) JobResponse {
	skills := j.RequiredSkills
	if skills == nil {
		skills = []string{}
	}
	res := JobResponse{
		ID:                      j.ID,
		BusinessID:              j.BusinessID,
		Title:                   j.Title,
		Description:             j.Description,
		Category:                j.Category,
		RequiredSkills:          skills,
		RequiredExperienceYears: j.RequiredExperienceYears,
		Type:                    string(j.Type),
		Location:                NewGeoPoint(j.Location),
		Address:                 j.Address,
		Budget:                  BudgetResponse{Amount: j.Budget.Amount, Currency: j.Budget.Currency},
		Urgency:                 string(j.Urgency),
		Status:                  string(j.Status),
		AssignedWorkerID:        j.AssignedWorkerID,
		CreatedAt:               j.CreatedAt,
		UpdatedAt:               j.UpdatedAt,
	}
	c := j.Completion
	if c.BusinessRating != nil || c.WorkerRating != nil || c.CompletedAt != nil {
		res.Completion = &CompletionResponse{
			BusinessRating: c.BusinessRating,
			BusinessReview: c.BusinessReview,
			WorkerRating:   c.WorkerRating,
			WorkerReview:   c.WorkerReview,
			CompletedAt:    c.CompletedAt,
		}
		for _, p := range c.ProofOfWork {
			res.Completion.ProofOfWork = append(res.Completion.ProofOfWork, ProofOfWorkResponse{
				Type:        string(p.Kind),
				URL:         p.URL,
				Description: p.Description,
			})
		}
	}
	return res
}

func NewApplicationResponse(a job.Application) ApplicationResponse {
	return ApplicationResponse{
		ID:          a.ID,
		JobID:       a.JobID,
		WorkerID:    a.WorkerID,
		Proposal:    a.Proposal,
		QuotedPrice: a.QuotedPrice,
		Status:      a.Status,
		AppliedAt:   a.AppliedAt,
	}
}
