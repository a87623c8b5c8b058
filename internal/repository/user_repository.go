package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"skilllink/internal/database"
	"skilllink/internal/database/postgres"
	"skilllink/internal/domain/user"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
)

type UserRepository interface {
	Create(ctx context.Context, u user.User) error
	GetByID(ctx context.Context, id uuid.UUID) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdateProfile(ctx context.Context, u user.User) error
	ReplaceWorkerSkills(ctx context.Context, userID uuid.UUID, skills []user.WorkerSkill) error
}

type PostgresUserRepository struct {
	db database.DB
}

func NewPostgresUserRepository(db database.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

const userColumns = `id, email, password_hash, role, status,
	first_name, last_name, phone, address, city, state, country, pincode,
	longitude, latitude, search_radius_km, is_available_now,
	rating_average, rating_count, business_name, business_type,
	created_at, updated_at`

func scanUser(row database.Row) (user.User, error) {
	var u user.User
	var role string
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &role, &u.Status,
		&u.Profile.FirstName, &u.Profile.LastName, &u.Profile.Phone, &u.Profile.Address,
		&u.Profile.City, &u.Profile.State, &u.Profile.Country, &u.Profile.Pincode,
		&u.Profile.Location.Longitude, &u.Profile.Location.Latitude, &u.Profile.SearchRadiusKm,
		&u.Worker.IsAvailableNow, &u.Ratings.Average, &u.Ratings.Count,
		&u.Business.BusinessName, &u.Business.BusinessType,
		&u.CreatedAt, &u.UpdatedAt,
	)
	u.Role = user.Role(role)
	return u, err
}

func (r *PostgresUserRepository) Create(ctx context.Context, u user.User) error {
	return database.WithTx(ctx, r.db, func(tx database.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO users (id, email, password_hash, role, status,
				first_name, last_name, phone, address, city, state, country, pincode,
				longitude, latitude, search_radius_km, is_available_now,
				business_name, business_type)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`,
			u.ID, strings.ToLower(u.Email), u.PasswordHash, string(u.Role), u.Status,
			u.Profile.FirstName, u.Profile.LastName, u.Profile.Phone, u.Profile.Address,
			u.Profile.City, u.Profile.State, u.Profile.Country, u.Profile.Pincode,
			u.Profile.Location.Longitude, u.Profile.Location.Latitude, u.Profile.SearchRadiusKm,
			u.Worker.IsAvailableNow, u.Business.BusinessName, u.Business.BusinessType,
		)
		if err != nil {
			if postgres.IsUniqueViolation(err) {
				return ErrEmailAlreadyExists
			}
			return err
		}
		return insertWorkerSkills(ctx, tx, u.ID, u.Worker.Skills)
	})
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if postgres.IsNoRows(err) {
			return user.User{}, ErrUserNotFound
		}
		return user.User{}, err
	}
	return r.withSkills(ctx, u)
}

func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`,
		strings.ToLower(strings.TrimSpace(email)),
	))
	if err != nil {
		if postgres.IsNoRows(err) {
			return user.User{}, ErrUserNotFound
		}
		return user.User{}, err
	}
	return r.withSkills(ctx, u)
}

func (r *PostgresUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	row := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`,
		strings.ToLower(strings.TrimSpace(email)),
	)
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PostgresUserRepository) UpdateProfile(ctx context.Context, u user.User) error {
	affected, err := r.db.Exec(ctx,
		`UPDATE users SET
			first_name = $2, last_name = $3, phone = $4, address = $5, city = $6,
			state = $7, country = $8, pincode = $9, longitude = $10, latitude = $11,
			search_radius_km = $12, is_available_now = $13,
			business_name = $14, business_type = $15, updated_at = $16
		 WHERE id = $1`,
		u.ID, u.Profile.FirstName, u.Profile.LastName, u.Profile.Phone, u.Profile.Address,
		u.Profile.City, u.Profile.State, u.Profile.Country, u.Profile.Pincode,
		u.Profile.Location.Longitude, u.Profile.Location.Latitude,
		u.Profile.SearchRadiusKm, u.Worker.IsAvailableNow,
		u.Business.BusinessName, u.Business.BusinessType, time.Now().UTC(),
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *PostgresUserRepository) ReplaceWorkerSkills(ctx context.Context, userID uuid.UUID, skills []user.WorkerSkill) error {
	return database.WithTx(ctx, r.db, func(tx database.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM worker_skills WHERE user_id = $1`, userID); err != nil {
			return err
		}
		return insertWorkerSkills(ctx, tx, userID, skills)
	})
}

// addWorkerRating folds a rating into the stored average in a single
// statement so concurrent completions do not lose updates. It runs on the
// caller's transaction.
func addWorkerRating(ctx context.Context, q database.Querier, userID uuid.UUID, rating float64) (user.Ratings, error) {
	var out user.Ratings
	row := q.QueryRow(ctx,
		`UPDATE users SET
			rating_average = (rating_average * rating_count + $2) / (rating_count + 1),
			rating_count = rating_count + 1,
			updated_at = now()
		 WHERE id = $1
		 RETURNING rating_average, rating_count`,
		userID, rating,
	)
	if err := row.Scan(&out.Average, &out.Count); err != nil {
		if postgres.IsNoRows(err) {
			return user.Ratings{}, ErrUserNotFound
		}
		return user.Ratings{}, err
	}
	return out, nil
}

func (r *PostgresUserRepository) withSkills(ctx context.Context, u user.User) (user.User, error) {
	if !u.IsWorker() {
		return u, nil
	}
	rows, err := r.db.Query(ctx,
		`SELECT ws.skill_name, ws.years_experience, ws.hourly_rate, COALESCE(s.category, '')
		 FROM worker_skills ws
		 LEFT JOIN skills s ON lower(s.name) = lower(ws.skill_name)
		 WHERE ws.user_id = $1
		 ORDER BY ws.skill_name ASC`,
		u.ID,
	)
	if err != nil {
		return user.User{}, err
	}
	defer rows.Close()

	u.Worker.Skills = make([]user.WorkerSkill, 0)
	for rows.Next() {
		var ws user.WorkerSkill
		if err := rows.Scan(&ws.SkillName, &ws.YearsExperience, &ws.HourlyRate, &ws.Category); err != nil {
			return user.User{}, err
		}
		u.Worker.Skills = append(u.Worker.Skills, ws)
	}
	if err := rows.Err(); err != nil {
		return user.User{}, err
	}
	return u, nil
}

// insertWorkerSkills stores the catalog spelling of a skill name when the
// catalog has one.
func insertWorkerSkills(ctx context.Context, q database.Querier, userID uuid.UUID, skills []user.WorkerSkill) error {
	for _, s := range skills {
		_, err := q.Exec(ctx,
			`INSERT INTO worker_skills (id, user_id, skill_name, years_experience, hourly_rate)
			 SELECT $1::uuid, $2::uuid, COALESCE((SELECT name FROM skills WHERE lower(name) = lower($3::text)), $3::text),
				$4::double precision, $5::double precision`,
			uuid.New(), userID, s.SkillName, s.YearsExperience, s.HourlyRate,
		)
		if err != nil {
			if postgres.IsUniqueViolation(err) {
				return ErrDuplicateWorkerSkill
			}
			return err
		}
	}
	return nil
}

var ErrDuplicateWorkerSkill = errors.New("duplicate worker skill")
