package usecase

import (
	"context"
	"errors"

	"skilllink/internal/domain/geo"
	"skilllink/internal/domain/job"
	"skilllink/internal/domain/matching"
	"skilllink/internal/domain/user"
	"skilllink/internal/pkg/metrics"
	"skilllink/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type MatchedJob struct {
	Job        job.Job
	Score      int
	DistanceKm float64
}

type MatchingUsecase interface {
	MatchedJobs(ctx context.Context, workerID uuid.UUID) ([]MatchedJob, error)
	MatchDetail(ctx context.Context, workerID, jobID uuid.UUID) (matching.Breakdown, error)
}

type MatchingConfig struct {
	DefaultRadiusKm float64
	CandidateLimit  int
}

type Matching struct {
	jobs    repository.JobRepository
	users   repository.UserRepository
	cfg     MatchingConfig
	metrics *metrics.Manager
	log     *zap.Logger
}

func NewMatchingUsecase(jobs repository.JobRepository, users repository.UserRepository, cfg MatchingConfig, m *metrics.Manager, log *zap.Logger) *Matching {
	if cfg.DefaultRadiusKm <= 0 {
		cfg.DefaultRadiusKm = matching.DefaultSearchRadiusKm
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Matching{jobs: jobs, users: users, cfg: cfg, metrics: m, log: log}
}

// MatchedJobs returns open jobs sharing a skill with the worker inside their
// search radius, best match first.
func (u *Matching) MatchedJobs(ctx context.Context, workerID uuid.UUID) ([]MatchedJob, error) {
	w, err := u.worker(ctx, workerID)
	if err != nil {
		return nil, err
	}

	skills := w.SkillNames()
	if len(skills) == 0 {
		u.metrics.RecordMatch(nil)
		return []MatchedJob{}, nil
	}

	profile := u.profile(w)
	box := geo.BoundingBox(profile.Location, profile.SearchRadiusKm)
	candidates, err := u.jobs.FindMatchCandidates(ctx, skills, box, u.cfg.CandidateLimit)
	if err != nil {
		u.log.Error("find match candidates failed", zap.Error(err), zap.Stringer("worker_id", workerID))
		return nil, ErrInternal
	}

	byID := make(map[uuid.UUID]job.Job, len(candidates))
	postings := make([]matching.JobPosting, 0, len(candidates))
	for _, j := range candidates {
		if !geo.Within(j.Location, profile.Location, profile.SearchRadiusKm) {
			continue
		}
		byID[j.ID] = j
		postings = append(postings, toPosting(j))
	}

	ranked := matching.RankJobs(postings, profile)
	out := make([]MatchedJob, 0, len(ranked))
	scores := make([]int, 0, len(ranked))
	for _, r := range ranked {
		j := byID[r.JobID]
		out = append(out, MatchedJob{
			Job:        j,
			Score:      r.Score,
			DistanceKm: geo.DistanceMeters(j.Location, profile.Location) / 1000,
		})
		scores = append(scores, r.Score)
	}

	u.metrics.RecordMatch(scores)
	u.log.Debug("matched jobs",
		zap.Stringer("worker_id", workerID),
		zap.Int("candidates", len(candidates)),
		zap.Int("matched", len(out)),
	)
	return out, nil
}

// MatchDetail scores one job against the worker regardless of radius or
// status, exposing the sub-scores.
func (u *Matching) MatchDetail(ctx context.Context, workerID, jobID uuid.UUID) (matching.Breakdown, error) {
	w, err := u.worker(ctx, workerID)
	if err != nil {
		return matching.Breakdown{}, err
	}
	j, err := u.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return matching.Breakdown{}, ErrJobNotFound
		}
		return matching.Breakdown{}, ErrInternal
	}
	return matching.Calculate(toPosting(j), u.profile(w)), nil
}

func (u *Matching) worker(ctx context.Context, workerID uuid.UUID) (user.User, error) {
	if workerID == uuid.Nil {
		return user.User{}, ErrUnauthorized
	}
	w, err := u.users.GetByID(ctx, workerID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return user.User{}, ErrUserNotFound
		}
		return user.User{}, ErrInternal
	}
	if !w.IsWorker() {
		return user.User{}, ErrWorkerRequired
	}
	return w, nil
}

func (u *Matching) profile(w user.User) matching.WorkerProfile {
	radius := w.Profile.SearchRadiusKm
	if radius <= 0 {
		radius = u.cfg.DefaultRadiusKm
	}
	skills := make([]matching.WorkerSkill, 0, len(w.Worker.Skills))
	for _, s := range w.Worker.Skills {
		skills = append(skills, matching.WorkerSkill{SkillName: s.SkillName, YearsExperience: s.YearsExperience})
	}
	return matching.WorkerProfile{
		Skills:         skills,
		Location:       w.Profile.Location,
		SearchRadiusKm: radius,
		IsAvailableNow: w.Worker.IsAvailableNow,
		RatingAverage:  w.Ratings.Average,
	}
}

func toPosting(j job.Job) matching.JobPosting {
	return matching.JobPosting{
		ID:                      j.ID,
		RequiredSkills:          j.RequiredSkills,
		Location:                j.Location,
		RequiredExperienceYears: j.RequiredExperienceYears,
	}
}
