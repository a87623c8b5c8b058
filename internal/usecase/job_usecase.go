package usecase

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"skilllink/internal/domain/geo"
	"skilllink/internal/domain/job"
	"skilllink/internal/domain/skill"
	"skilllink/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultJobPageLimit = 10
	maxJobPageLimit     = 50
	defaultCurrency     = "INR"
)

type CreateJobInput struct {
	Title                   string
	Description             string
	Category                string
	RequiredSkills          []string
	RequiredExperienceYears float64
	Type                    job.Type
	Location                geo.Point
	Address                 string
	BudgetAmount            float64
	Currency                string
	Urgency                 job.Urgency
}

type JobListParams struct {
	Category  string
	Skills    []string
	Near      *geo.Point
	RadiusKm  float64
	Status    job.Status
	Type      job.Type
	MinBudget *float64
	MaxBudget *float64
	Urgency   job.Urgency
	Page      int
	Limit     int
}

type JobPage struct {
	Items      []job.Job
	Page       int
	Limit      int
	Total      int
	TotalPages int
}

func (p JobPage) HasNext() bool { return p.Page < p.TotalPages }
func (p JobPage) HasPrev() bool { return p.Page > 1 }

type ApplyInput struct {
	Proposal    string
	QuotedPrice float64
}

type CompleteJobInput struct {
	Rating float64
	Review string
	// ProofOfWork is kept only when the assigned worker completes.
	ProofOfWork []job.ProofOfWork
}

type JobUsecase interface {
	Create(ctx context.Context, businessID uuid.UUID, in CreateJobInput) (job.Job, error)
	List(ctx context.Context, p JobListParams) (JobPage, error)
	Get(ctx context.Context, id uuid.UUID) (job.Job, error)
	Apply(ctx context.Context, workerID, jobID uuid.UUID, in ApplyInput) (job.Application, error)
	UpdateStatus(ctx context.Context, ownerID, jobID uuid.UUID, status job.Status, workerID *uuid.UUID) (job.Job, error)
	Complete(ctx context.Context, userID, jobID uuid.UUID, in CompleteJobInput) (job.Job, error)
}

type Jobs struct {
	jobs  repository.JobRepository
	users repository.UserRepository
	log   *zap.Logger
	now   func() time.Time
}

func NewJobUsecase(jobs repository.JobRepository, users repository.UserRepository, log *zap.Logger) *Jobs {
	if log == nil {
		log = zap.NewNop()
	}
	return &Jobs{jobs: jobs, users: users, log: log, now: time.Now}
}

func (u *Jobs) Create(ctx context.Context, businessID uuid.UUID, in CreateJobInput) (job.Job, error) {
	if businessID == uuid.Nil {
		return job.Job{}, ErrUnauthorized
	}

	title := strings.TrimSpace(in.Title)
	skills := cleanSkillNames(in.RequiredSkills)
	if title == "" || len(skills) == 0 {
		return job.Job{}, ErrInvalidInput
	}
	if !in.Location.Valid() {
		return job.Job{}, ErrInvalidInput
	}
	if in.RequiredExperienceYears < 0 || math.IsNaN(in.RequiredExperienceYears) {
		return job.Job{}, ErrInvalidInput
	}
	if in.BudgetAmount < 0 || math.IsNaN(in.BudgetAmount) {
		return job.Job{}, ErrInvalidInput
	}

	jobType := in.Type
	if jobType == "" {
		jobType = job.TypeOneTime
	}
	urgency := in.Urgency
	if urgency == "" {
		urgency = job.UrgencyMedium
	}
	if !jobType.Valid() || !urgency.Valid() {
		return job.Job{}, ErrInvalidInput
	}
	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = defaultCurrency
	}

	now := u.now().UTC()
	j := job.Job{
		ID:                      uuid.New(),
		BusinessID:              businessID,
		Title:                   title,
		Description:             strings.TrimSpace(in.Description),
		Category:                strings.TrimSpace(in.Category),
		RequiredSkills:          skills,
		RequiredExperienceYears: in.RequiredExperienceYears,
		Type:                    jobType,
		Location:                in.Location,
		Address:                 strings.TrimSpace(in.Address),
		Budget:                  job.Budget{Amount: in.BudgetAmount, Currency: currency},
		Urgency:                 urgency,
		Status:                  job.StatusOpen,
		CreatedAt:               now,
		UpdatedAt:               now,
	}

	if err := u.jobs.Create(ctx, j); err != nil {
		u.log.Error("create job failed", zap.Error(err))
		return job.Job{}, ErrInternal
	}
	return j, nil
}

func (u *Jobs) List(ctx context.Context, p JobListParams) (JobPage, error) {
	page := p.Page
	if page == 0 {
		page = 1
	}
	limit := p.Limit
	if limit == 0 {
		limit = defaultJobPageLimit
	}
	if page < 1 || limit < 1 {
		return JobPage{}, ErrInvalidInput
	}
	if limit > maxJobPageLimit {
		limit = maxJobPageLimit
	}
	if p.Status != "" && !p.Status.Valid() {
		return JobPage{}, ErrInvalidInput
	}
	if p.Type != "" && !p.Type.Valid() {
		return JobPage{}, ErrInvalidInput
	}
	if p.Urgency != "" && !p.Urgency.Valid() {
		return JobPage{}, ErrInvalidInput
	}
	radius := p.RadiusKm
	if p.Near != nil {
		if !p.Near.Valid() {
			return JobPage{}, ErrInvalidInput
		}
		if radius <= 0 {
			radius = DefaultListRadiusKm
		}
	}

	items, total, err := u.jobs.List(ctx, job.ListFilter{
		Category:  strings.TrimSpace(p.Category),
		Skills:    cleanSkillNames(p.Skills),
		Near:      p.Near,
		RadiusKm:  radius,
		Status:    p.Status,
		Type:      p.Type,
		MinBudget: p.MinBudget,
		MaxBudget: p.MaxBudget,
		Urgency:   p.Urgency,
		Limit:     limit,
		Offset:    (page - 1) * limit,
	})
	if err != nil {
		u.log.Error("list jobs failed", zap.Error(err))
		return JobPage{}, ErrInternal
	}

	return JobPage{
		Items:      items,
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: (total + limit - 1) / limit,
	}, nil
}

// DefaultListRadiusKm applies when a listing filters by location without a radius.
const DefaultListRadiusKm = 25.0

func (u *Jobs) Get(ctx context.Context, id uuid.UUID) (job.Job, error) {
	j, err := u.jobs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return job.Job{}, ErrJobNotFound
		}
		return job.Job{}, ErrInternal
	}
	return j, nil
}

func (u *Jobs) Apply(ctx context.Context, workerID, jobID uuid.UUID, in ApplyInput) (job.Application, error) {
	if in.QuotedPrice < 0 || math.IsNaN(in.QuotedPrice) {
		return job.Application{}, ErrInvalidInput
	}
	j, err := u.Get(ctx, jobID)
	if err != nil {
		return job.Application{}, err
	}
	if j.Status != job.StatusOpen {
		return job.Application{}, ErrInvalidTransition
	}

	a := job.Application{
		ID:          uuid.New(),
		JobID:       jobID,
		WorkerID:    workerID,
		Proposal:    strings.TrimSpace(in.Proposal),
		QuotedPrice: in.QuotedPrice,
		Status:      "pending",
		AppliedAt:   u.now().UTC(),
	}
	if err := u.jobs.Apply(ctx, a); err != nil {
		if errors.Is(err, repository.ErrAlreadyApplied) {
			return job.Application{}, ErrAlreadyApplied
		}
		u.log.Error("apply failed", zap.Error(err), zap.Stringer("job_id", jobID))
		return job.Application{}, ErrInternal
	}
	return a, nil
}

func (u *Jobs) UpdateStatus(ctx context.Context, ownerID, jobID uuid.UUID, status job.Status, workerID *uuid.UUID) (job.Job, error) {
	if !status.Valid() {
		return job.Job{}, ErrInvalidInput
	}
	j, err := u.Get(ctx, jobID)
	if err != nil {
		return job.Job{}, err
	}
	if j.BusinessID != ownerID {
		return job.Job{}, ErrForbidden
	}
	if !j.Status.CanTransition(status) {
		return job.Job{}, ErrInvalidTransition
	}

	var assign *uuid.UUID
	if status == job.StatusAssigned {
		if workerID == nil || *workerID == uuid.Nil {
			return job.Job{}, ErrInvalidInput
		}
		w, err := u.users.GetByID(ctx, *workerID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return job.Job{}, ErrUserNotFound
			}
			return job.Job{}, ErrInternal
		}
		if !w.IsWorker() {
			return job.Job{}, ErrWorkerRequired
		}
		assign = workerID
	}

	if err := u.jobs.UpdateStatus(ctx, jobID, status, assign); err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return job.Job{}, ErrJobNotFound
		}
		return job.Job{}, ErrInternal
	}
	return u.Get(ctx, jobID)
}

// Complete records the caller's rating. Once both the owner and the assigned
// worker have rated, the job is completed and the owner's rating is folded
// into the worker's average atomically with it.
func (u *Jobs) Complete(ctx context.Context, userID, jobID uuid.UUID, in CompleteJobInput) (job.Job, error) {
	if in.Rating < 1 || in.Rating > 5 || math.IsNaN(in.Rating) {
		return job.Job{}, ErrInvalidInput
	}
	for _, p := range in.ProofOfWork {
		if !p.Valid() {
			return job.Job{}, ErrInvalidInput
		}
	}
	j, err := u.Get(ctx, jobID)
	if err != nil {
		return job.Job{}, err
	}

	isOwner := j.BusinessID == userID
	isWorker := j.AssignedWorkerID != nil && *j.AssignedWorkerID == userID
	if !isOwner && !isWorker {
		return job.Job{}, ErrForbidden
	}

	rin := repository.RatingInput{
		JobID:      jobID,
		ByBusiness: isOwner,
		Rating:     in.Rating,
		Review:     strings.TrimSpace(in.Review),
	}
	if !isOwner {
		rin.Proof = in.ProofOfWork
	}
	res, err := u.jobs.RecordRating(ctx, rin)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotRateable) {
			return job.Job{}, ErrJobNotRateable
		}
		u.log.Error("record rating failed", zap.Error(err), zap.Stringer("job_id", jobID))
		return job.Job{}, ErrInternal
	}

	if res.Completed {
		fields := []zap.Field{zap.Stringer("job_id", jobID)}
		if r := res.WorkerRatings; r != nil {
			fields = append(fields, zap.Float64("worker_rating_avg", r.Average), zap.Int("worker_rating_count", r.Count))
		}
		u.log.Info("job completed", fields...)
	}
	return res.Job, nil
}

// cleanSkillNames trims names and drops blanks and case-insensitive
// duplicates, keeping the first spelling.
func cleanSkillNames(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		key := skill.Key(s)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}
