package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"skilllink/internal/database"
	"skilllink/internal/database/postgres"
	"skilllink/internal/domain/demand"
	"skilllink/internal/domain/skill"

	"github.com/google/uuid"
)

var ErrSkillNotFound = errors.New("skill not found")

type SkillListFilter struct {
	Category string
	Search   string
	Limit    int
	Offset   int
}

type SkillRepository interface {
	Upsert(ctx context.Context, s skill.Skill, related []string) (skill.Skill, error)
	List(ctx context.Context, f SkillListFilter) ([]skill.Skill, int, error)
	GetByID(ctx context.Context, id uuid.UUID) (skill.Skill, error)
	FindByNames(ctx context.Context, names []string) ([]skill.Skill, error)
	FindRelatedTo(ctx context.Context, names []string) ([]skill.Skill, error)
	ListActiveIDs(ctx context.Context) ([]uuid.UUID, error)
	UpdateDemand(ctx context.Context, id uuid.UUID, m demand.Metrics) (skill.Skill, error)
}

type PostgresSkillRepository struct {
	db database.DB
}

func NewPostgresSkillRepository(db database.DB) *PostgresSkillRepository {
	return &PostgresSkillRepository{db: db}
}

const skillColumns = `s.id, s.name, s.category, s.description, s.status, s.current_demand, s.growth_rate,
	s.demand_updated_at, s.avg_hourly_rate, s.created_at, s.updated_at,
	COALESCE((SELECT array_agg(r.related_skill_id ORDER BY r.related_skill_id)
		FROM skill_relations r WHERE r.skill_id = s.id), '{}')`

func scanSkill(row database.Row) (skill.Skill, error) {
	var s skill.Skill
	err := row.Scan(
		&s.ID, &s.Name, &s.Category, &s.Description, &s.Status, &s.CurrentDemandPct, &s.GrowthRatePct,
		&s.DemandUpdatedAt, &s.AvgHourlyRate, &s.CreatedAt, &s.UpdatedAt, &s.RelatedIDs,
	)
	return s, err
}

func scanSkills(rows database.Rows) ([]skill.Skill, error) {
	defer rows.Close()

	out := make([]skill.Skill, 0)
	for rows.Next() {
		s, err := scanSkill(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Upsert inserts or updates a skill by name and replaces its outgoing
// relation edges with the named skills that exist.
func (r *PostgresSkillRepository) Upsert(ctx context.Context, s skill.Skill, related []string) (skill.Skill, error) {
	var id uuid.UUID
	err := database.WithTx(ctx, r.db, func(tx database.Tx) error {
		row := tx.QueryRow(ctx,
			`INSERT INTO skills (id, name, category, description, status, avg_hourly_rate)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 ON CONFLICT ((lower(name))) DO UPDATE SET
				category = EXCLUDED.category,
				description = EXCLUDED.description,
				status = EXCLUDED.status,
				avg_hourly_rate = EXCLUDED.avg_hourly_rate,
				updated_at = now()
			 RETURNING id`,
			uuid.New(), s.Name, s.Category, s.Description, s.Status, s.AvgHourlyRate,
		)
		if err := row.Scan(&id); err != nil {
			return err
		}

		if related == nil {
			return nil
		}
		if _, err := tx.Exec(ctx, `DELETE FROM skill_relations WHERE skill_id = $1`, id); err != nil {
			return err
		}
		keys := skill.Keys(related)
		if len(keys) == 0 {
			return nil
		}
		_, err := tx.Exec(ctx,
			`INSERT INTO skill_relations (skill_id, related_skill_id)
			 SELECT $1, id FROM skills WHERE lower(name) = ANY($2) AND id <> $1
			 ON CONFLICT DO NOTHING`,
			id, keys,
		)
		return err
	})
	if err != nil {
		return skill.Skill{}, err
	}
	return r.GetByID(ctx, id)
}

func (r *PostgresSkillRepository) List(ctx context.Context, f SkillListFilter) ([]skill.Skill, int, error) {
	conds := []string{"s.status = 'active'"}
	args := make([]any, 0, 4)
	if f.Category != "" {
		args = append(args, f.Category)
		conds = append(conds, fmt.Sprintf("s.category = $%d", len(args)))
	}
	if q := strings.TrimSpace(f.Search); q != "" {
		args = append(args, "%"+q+"%")
		conds = append(conds, fmt.Sprintf("(s.name ILIKE $%d OR s.description ILIKE $%d)", len(args), len(args)))
	}
	where := strings.Join(conds, " AND ")

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(1) FROM skills s WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 10
	}
	args = append(args, limit, max(f.Offset, 0))
	rows, err := r.db.Query(ctx,
		fmt.Sprintf(`SELECT %s FROM skills s WHERE %s ORDER BY s.current_demand DESC, s.name ASC LIMIT $%d OFFSET $%d`,
			skillColumns, where, len(args)-1, len(args)),
		args...,
	)
	if err != nil {
		return nil, 0, err
	}
	skills, err := scanSkills(rows)
	if err != nil {
		return nil, 0, err
	}
	return skills, total, nil
}

func (r *PostgresSkillRepository) GetByID(ctx context.Context, id uuid.UUID) (skill.Skill, error) {
	s, err := scanSkill(r.db.QueryRow(ctx, `SELECT `+skillColumns+` FROM skills s WHERE s.id = $1`, id))
	if err != nil {
		if postgres.IsNoRows(err) {
			return skill.Skill{}, ErrSkillNotFound
		}
		return skill.Skill{}, err
	}
	return s, nil
}

// FindByNames matches names case-insensitively.
func (r *PostgresSkillRepository) FindByNames(ctx context.Context, names []string) ([]skill.Skill, error) {
	keys := skill.Keys(names)
	if len(keys) == 0 {
		return []skill.Skill{}, nil
	}
	rows, err := r.db.Query(ctx,
		`SELECT `+skillColumns+` FROM skills s WHERE lower(s.name) = ANY($1) ORDER BY s.name ASC`,
		keys,
	)
	if err != nil {
		return nil, err
	}
	return scanSkills(rows)
}

// FindRelatedTo returns skills with an edge pointing at any of names,
// excluding names themselves, highest current demand first.
func (r *PostgresSkillRepository) FindRelatedTo(ctx context.Context, names []string) ([]skill.Skill, error) {
	keys := skill.Keys(names)
	if len(keys) == 0 {
		return []skill.Skill{}, nil
	}
	rows, err := r.db.Query(ctx,
		`SELECT `+skillColumns+`
		 FROM skills s
		 WHERE s.status = 'active'
		   AND NOT (lower(s.name) = ANY($1))
		   AND EXISTS (
			SELECT 1 FROM skill_relations rel
			JOIN skills cur ON cur.id = rel.related_skill_id
			WHERE rel.skill_id = s.id AND lower(cur.name) = ANY($1)
		   )
		 ORDER BY s.current_demand DESC, s.name ASC`,
		keys,
	)
	if err != nil {
		return nil, err
	}
	return scanSkills(rows)
}

func (r *PostgresSkillRepository) ListActiveIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, `SELECT id FROM skills WHERE status = 'active' ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresSkillRepository) UpdateDemand(ctx context.Context, id uuid.UUID, m demand.Metrics) (skill.Skill, error) {
	updatedAt := m.LastUpdated
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}
	affected, err := r.db.Exec(ctx,
		`UPDATE skills SET current_demand = $2, growth_rate = $3, demand_updated_at = $4, updated_at = now()
		 WHERE id = $1`,
		id, m.CurrentDemandPct, m.GrowthRatePct, updatedAt,
	)
	if err != nil {
		return skill.Skill{}, err
	}
	if affected == 0 {
		return skill.Skill{}, ErrSkillNotFound
	}
	return r.GetByID(ctx, id)
}
