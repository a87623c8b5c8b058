package repository

import (
	"context"
	"time"

	"skilllink/internal/database"
	"skilllink/internal/domain/geo"

	"github.com/google/uuid"
)

// DemandQueryRepository reads the job and worker aggregates that feed demand
// metrics. Skills are referenced by name on jobs and worker profiles.
type DemandQueryRepository interface {
	JobTimesForSkill(ctx context.Context, skillID uuid.UUID, since time.Time) ([]time.Time, error)
	CountWorkersWithSkill(ctx context.Context, skillID uuid.UUID) (int, error)
	NearbyJobSkillSets(ctx context.Context, box geo.Box, since time.Time) ([]NearbyJob, error)
}

type NearbyJob struct {
	Location geo.Point
	Skills   []string
}

type PostgresDemandQueryRepository struct {
	db database.DB
}

func NewPostgresDemandQueryRepository(db database.DB) *PostgresDemandQueryRepository {
	return &PostgresDemandQueryRepository{db: db}
}

func (r *PostgresDemandQueryRepository) JobTimesForSkill(ctx context.Context, skillID uuid.UUID, since time.Time) ([]time.Time, error) {
	rows, err := r.db.Query(ctx,
		`SELECT j.created_at
		 FROM jobs j
		 JOIN skills s ON s.id = $1
		 WHERE j.created_at >= $2
		   AND EXISTS (SELECT 1 FROM unnest(j.required_skills) rs WHERE lower(rs) = lower(s.name))`,
		skillID, since,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]time.Time, 0)
	for rows.Next() {
		var ts time.Time
		if err := rows.Scan(&ts); err != nil {
			return nil, err
		}
		out = append(out, ts)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresDemandQueryRepository) CountWorkersWithSkill(ctx context.Context, skillID uuid.UUID) (int, error) {
	var c int
	row := r.db.QueryRow(ctx,
		`SELECT COUNT(DISTINCT u.id)
		 FROM users u
		 JOIN worker_skills ws ON ws.user_id = u.id
		 JOIN skills s ON lower(s.name) = lower(ws.skill_name)
		 WHERE s.id = $1 AND u.role = 'worker' AND u.status = 'active'`,
		skillID,
	)
	if err := row.Scan(&c); err != nil {
		return 0, err
	}
	return c, nil
}

// NearbyJobSkillSets returns jobs of any status created since the cutoff
// inside box. Callers apply the exact radius.
func (r *PostgresDemandQueryRepository) NearbyJobSkillSets(ctx context.Context, box geo.Box, since time.Time) ([]NearbyJob, error) {
	rows, err := r.db.Query(ctx,
		`SELECT longitude, latitude, required_skills
		 FROM jobs
		 WHERE created_at >= $1
		   AND longitude BETWEEN $2 AND $3
		   AND latitude BETWEEN $4 AND $5`,
		since, box.MinLongitude, box.MaxLongitude, box.MinLatitude, box.MaxLatitude,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]NearbyJob, 0)
	for rows.Next() {
		var nj NearbyJob
		if err := rows.Scan(&nj.Location.Longitude, &nj.Location.Latitude, &nj.Skills); err != nil {
			return nil, err
		}
		out = append(out, nj)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
