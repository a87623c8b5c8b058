package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"skilllink/internal/database"
	"skilllink/internal/database/postgres"
	"skilllink/internal/domain/geo"
	"skilllink/internal/domain/job"
	"skilllink/internal/domain/skill"
	"skilllink/internal/domain/user"

	"github.com/google/uuid"
)

var (
	ErrJobNotFound    = errors.New("job not found")
	ErrJobNotRateable = errors.New("job cannot be rated")
	ErrAlreadyApplied = errors.New("already applied to this job")
)

type JobRepository interface {
	Create(ctx context.Context, j job.Job) error
	GetByID(ctx context.Context, id uuid.UUID) (job.Job, error)
	List(ctx context.Context, f job.ListFilter) ([]job.Job, int, error)
	FindMatchCandidates(ctx context.Context, skills []string, box geo.Box, limit int) ([]job.Job, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status job.Status, assignedWorker *uuid.UUID) error
	RecordRating(ctx context.Context, in RatingInput) (RatingResult, error)
	Apply(ctx context.Context, a job.Application) error
}

// RatingInput is one side's completion rating. Proof is only stored for the
// worker's side.
type RatingInput struct {
	JobID      uuid.UUID
	ByBusiness bool
	Rating     float64
	Review     string
	Proof      []job.ProofOfWork
}

type RatingResult struct {
	Job job.Job
	// Completed is true for exactly one caller: the one whose rating
	// completed the job.
	Completed bool
	// WorkerRatings holds the worker's new average when Completed.
	WorkerRatings *user.Ratings
}

type PostgresJobRepository struct {
	db database.DB
}

func NewPostgresJobRepository(db database.DB) *PostgresJobRepository {
	return &PostgresJobRepository{db: db}
}

const jobColumns = `id, business_id, title, description, category, required_skills, experience_years,
	job_type, longitude, latitude, address, budget_amount, currency, urgency, status,
	assigned_worker_id, business_rating, business_review, worker_rating, worker_review,
	proof_of_work, completed_at, created_at, updated_at`

func scanJob(row database.Row) (job.Job, error) {
	var j job.Job
	var jobType, urgency, status string
	err := row.Scan(
		&j.ID, &j.BusinessID, &j.Title, &j.Description, &j.Category, &j.RequiredSkills,
		&j.RequiredExperienceYears, &jobType, &j.Location.Longitude, &j.Location.Latitude,
		&j.Address, &j.Budget.Amount, &j.Budget.Currency, &urgency, &status,
		&j.AssignedWorkerID, &j.Completion.BusinessRating, &j.Completion.BusinessReview,
		&j.Completion.WorkerRating, &j.Completion.WorkerReview, &j.Completion.ProofOfWork,
		&j.Completion.CompletedAt,
		&j.CreatedAt, &j.UpdatedAt,
	)
	j.Type = job.Type(jobType)
	j.Urgency = job.Urgency(urgency)
	j.Status = job.Status(status)
	return j, err
}

func scanJobs(rows database.Rows) ([]job.Job, error) {
	defer rows.Close()

	out := make([]job.Job, 0)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresJobRepository) Create(ctx context.Context, j job.Job) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO jobs (id, business_id, title, description, category, required_skills,
			experience_years, job_type, longitude, latitude, address, budget_amount, currency,
			urgency, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $16)`,
		j.ID, j.BusinessID, j.Title, j.Description, j.Category, j.RequiredSkills,
		j.RequiredExperienceYears, string(j.Type), j.Location.Longitude, j.Location.Latitude,
		j.Address, j.Budget.Amount, j.Budget.Currency, string(j.Urgency), string(j.Status),
		j.CreatedAt,
	)
	return err
}

func (r *PostgresJobRepository) GetByID(ctx context.Context, id uuid.UUID) (job.Job, error) {
	j, err := scanJob(r.db.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id))
	if err != nil {
		if postgres.IsNoRows(err) {
			return job.Job{}, ErrJobNotFound
		}
		return job.Job{}, err
	}
	return j, nil
}

// List applies the filter in SQL. A Near filter uses the bounding box for the
// index and the great-circle distance for the exact cut.
func (r *PostgresJobRepository) List(ctx context.Context, f job.ListFilter) ([]job.Job, int, error) {
	where, args := listWhere(f)

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(1) FROM jobs WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 10
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx,
		fmt.Sprintf(`SELECT %s FROM jobs WHERE %s ORDER BY created_at DESC, id ASC LIMIT $%d OFFSET $%d`,
			jobColumns, where, len(args)-1, len(args)),
		args...,
	)
	if err != nil {
		return nil, 0, err
	}
	jobs, err := scanJobs(rows)
	if err != nil {
		return nil, 0, err
	}
	return jobs, total, nil
}

// haversineKmSQL takes the center longitude and latitude placeholders.
const haversineKmSQL = `(2 * 6371 * asin(least(1, sqrt(
	power(sin(radians(latitude - $%[2]d) / 2), 2) +
	cos(radians($%[2]d)) * cos(radians(latitude)) * power(sin(radians(longitude - $%[1]d) / 2), 2)))))`

// skillOverlapSQL matches jobs requiring any of the given skill keys,
// comparing case-insensitively.
const skillOverlapSQL = `EXISTS (SELECT 1 FROM unnest(required_skills) rs WHERE lower(rs) = ANY($%d))`

func listWhere(f job.ListFilter) (string, []any) {
	conds := make([]string, 0, 8)
	args := make([]any, 0, 10)
	add := func(cond string, vals ...any) {
		ph := make([]any, len(vals))
		for i, v := range vals {
			args = append(args, v)
			ph[i] = len(args)
		}
		conds = append(conds, fmt.Sprintf(cond, ph...))
	}

	status := f.Status
	if status == "" {
		status = job.StatusOpen
	}
	add("status = $%d", string(status))

	if f.Category != "" {
		add("category = $%d", f.Category)
	}
	if keys := skill.Keys(f.Skills); len(keys) > 0 {
		add(skillOverlapSQL, keys)
	}
	if f.Type != "" {
		add("job_type = $%d", string(f.Type))
	}
	if f.Urgency != "" {
		add("urgency = $%d", string(f.Urgency))
	}
	if f.MinBudget != nil {
		add("budget_amount >= $%d", *f.MinBudget)
	}
	if f.MaxBudget != nil {
		add("budget_amount <= $%d", *f.MaxBudget)
	}
	if f.Near != nil && f.RadiusKm > 0 {
		b := geo.BoundingBox(*f.Near, f.RadiusKm)
		add("longitude BETWEEN $%d AND $%d AND latitude BETWEEN $%d AND $%d",
			b.MinLongitude, b.MaxLongitude, b.MinLatitude, b.MaxLatitude)
		add(haversineKmSQL+" <= $%[3]d", f.Near.Longitude, f.Near.Latitude, f.RadiusKm)
	}

	return strings.Join(conds, " AND "), args
}

// FindMatchCandidates returns open jobs that share at least one skill with
// skills and fall inside box.
func (r *PostgresJobRepository) FindMatchCandidates(ctx context.Context, skills []string, box geo.Box, limit int) ([]job.Job, error) {
	keys := skill.Keys(skills)
	if len(keys) == 0 {
		return []job.Job{}, nil
	}
	if limit <= 0 {
		limit = 500
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+jobColumns+`
		 FROM jobs
		 WHERE status = 'open'
		   AND `+fmt.Sprintf(skillOverlapSQL, 1)+`
		   AND longitude BETWEEN $2 AND $3
		   AND latitude BETWEEN $4 AND $5
		 ORDER BY created_at DESC
		 LIMIT $6`,
		keys, box.MinLongitude, box.MaxLongitude, box.MinLatitude, box.MaxLatitude, limit,
	)
	if err != nil {
		return nil, err
	}
	return scanJobs(rows)
}

func (r *PostgresJobRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status job.Status, assignedWorker *uuid.UUID) error {
	affected, err := r.db.Exec(ctx,
		`UPDATE jobs SET status = $2, assigned_worker_id = COALESCE($3, assigned_worker_id), updated_at = $4
		 WHERE id = $1`,
		id, string(status), assignedWorker, time.Now().UTC(),
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrJobNotFound
	}
	return nil
}

// RecordRating stores one side's rating. When both sides have rated, the job
// is completed and the owner's rating is folded into the assigned worker's
// average in the same transaction, so a failed fold leaves the job rateable.
func (r *PostgresJobRepository) RecordRating(ctx context.Context, in RatingInput) (RatingResult, error) {
	var proof any
	if !in.ByBusiness && len(in.Proof) > 0 {
		proof = in.Proof
	}

	var out RatingResult
	err := database.WithTx(ctx, r.db, func(tx database.Tx) error {
		affected, err := tx.Exec(ctx,
			`UPDATE jobs SET
				business_rating = CASE WHEN $2 THEN $3 ELSE business_rating END,
				business_review = CASE WHEN $2 THEN $4 ELSE business_review END,
				worker_rating = CASE WHEN $2 THEN worker_rating ELSE $3 END,
				worker_review = CASE WHEN $2 THEN worker_review ELSE $4 END,
				proof_of_work = COALESCE($5::jsonb, proof_of_work),
				updated_at = now()
			 WHERE id = $1 AND status NOT IN ('completed', 'cancelled', 'open')`,
			in.JobID, in.ByBusiness, in.Rating, in.Review, proof,
		)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrJobNotRateable
		}

		var workerID *uuid.UUID
		var businessRating float64
		err = tx.QueryRow(ctx,
			`UPDATE jobs SET status = 'completed', completed_at = now()
			 WHERE id = $1 AND status <> 'completed'
			   AND business_rating IS NOT NULL AND worker_rating IS NOT NULL
			 RETURNING assigned_worker_id, business_rating`,
			in.JobID,
		).Scan(&workerID, &businessRating)
		switch {
		case postgres.IsNoRows(err):
		case err != nil:
			return err
		default:
			out.Completed = true
			if workerID != nil {
				ratings, err := addWorkerRating(ctx, tx, *workerID, businessRating)
				if err != nil {
					return fmt.Errorf("fold worker rating: %w", err)
				}
				out.WorkerRatings = &ratings
			}
		}

		out.Job, err = scanJob(tx.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, in.JobID))
		return err
	})
	if err != nil {
		return RatingResult{}, err
	}
	return out, nil
}

func (r *PostgresJobRepository) Apply(ctx context.Context, a job.Application) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO job_applications (id, job_id, worker_id, proposal, quoted_price, status, applied_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		a.ID, a.JobID, a.WorkerID, a.Proposal, a.QuotedPrice, a.Status, a.AppliedAt,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return ErrAlreadyApplied
		}
		return err
	}
	return nil
}
