package user

import (
	"time"

	"skilllink/internal/domain/geo"

	"github.com/google/uuid"
)

type Role string

const (
	RoleWorker   Role = "worker"
	RoleBusiness Role = "business"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleWorker, RoleBusiness, RoleAdmin:
		return true
	default:
		return false
	}
}

const DefaultSearchRadiusKm = 25.0

type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Role         Role
	Status       string
	Profile      Profile
	Business     BusinessDetails
	Worker       WorkerDetails
	Ratings      Ratings
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Profile struct {
	FirstName string
	LastName  string
	Phone     string
	Address   string
	City      string
	State     string
	Country   string
	Pincode   string
	Location  geo.Point
	// SearchRadiusKm is the worker's preferred job radius.
	SearchRadiusKm float64
}

type BusinessDetails struct {
	BusinessName string
	BusinessType string
}

type WorkerDetails struct {
	Skills         []WorkerSkill
	IsAvailableNow bool
}

type WorkerSkill struct {
	SkillName       string
	YearsExperience float64
	HourlyRate      float64
	// Category is resolved from the skill taxonomy; empty when the skill is
	// not in the catalog.
	Category string
}

type Ratings struct {
	Average float64
	Count   int
}

// AddRating folds one more rating into the running average.
func (r Ratings) AddRating(rating float64) Ratings {
	n := r.Count + 1
	return Ratings{
		Average: (r.Average*float64(r.Count) + rating) / float64(n),
		Count:   n,
	}
}

func (u User) IsWorker() bool { return u.Role == RoleWorker }

func (u User) SkillNames() []string {
	out := make([]string, 0, len(u.Worker.Skills))
	for _, s := range u.Worker.Skills {
		out = append(out, s.SkillName)
	}
	return out
}

func (u User) SkillCategories() []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(u.Worker.Skills))
	for _, s := range u.Worker.Skills {
		if s.Category == "" {
			continue
		}
		if _, ok := seen[s.Category]; ok {
			continue
		}
		seen[s.Category] = struct{}{}
		out = append(out, s.Category)
	}
	return out
}
