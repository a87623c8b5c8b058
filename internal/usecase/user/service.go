package user

import (
	"context"
	"errors"
	"math"
	"strings"

	"skilllink/internal/domain/geo"
	"skilllink/internal/domain/skill"
	"skilllink/internal/domain/user"
	"skilllink/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrInternal       = errors.New("internal error")
	ErrNotFound       = errors.New("user not found")
	ErrDuplicateSkill = errors.New("duplicate skill in profile")
)

const maxSearchRadiusKm = 500

type SkillInput struct {
	SkillName       string
	YearsExperience float64
	HourlyRate      float64
}

// UpdateProfileInput carries optional changes; nil fields are left as is.
// Skills, when non-nil, replaces the worker's whole skill list.
type UpdateProfileInput struct {
	FirstName      *string
	LastName       *string
	Phone          *string
	Address        *string
	City           *string
	State          *string
	Country        *string
	Pincode        *string
	Location       *geo.Point
	SearchRadiusKm *float64
	IsAvailableNow *bool
	BusinessName   *string
	BusinessType   *string
	Skills         []SkillInput
}

type Service struct {
	users repository.UserRepository
}

func NewService(users repository.UserRepository) *Service {
	return &Service{users: users}
}

func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (user.User, error) {
	usr, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return user.User{}, ErrNotFound
		}
		return user.User{}, ErrInternal
	}
	return sanitizeUser(usr), nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, in UpdateProfileInput) (user.User, error) {
	usr, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return user.User{}, ErrNotFound
		}
		return user.User{}, ErrInternal
	}

	setString(&usr.Profile.FirstName, in.FirstName)
	setString(&usr.Profile.LastName, in.LastName)
	setString(&usr.Profile.Phone, in.Phone)
	setString(&usr.Profile.Address, in.Address)
	setString(&usr.Profile.City, in.City)
	setString(&usr.Profile.State, in.State)
	setString(&usr.Profile.Country, in.Country)
	setString(&usr.Profile.Pincode, in.Pincode)
	setString(&usr.Business.BusinessName, in.BusinessName)
	setString(&usr.Business.BusinessType, in.BusinessType)

	if in.Location != nil {
		if !in.Location.Valid() {
			return user.User{}, ErrInvalidInput
		}
		usr.Profile.Location = *in.Location
	}
	if in.SearchRadiusKm != nil {
		r := *in.SearchRadiusKm
		if math.IsNaN(r) || r <= 0 || r > maxSearchRadiusKm {
			return user.User{}, ErrInvalidInput
		}
		usr.Profile.SearchRadiusKm = r
	}
	if in.IsAvailableNow != nil {
		usr.Worker.IsAvailableNow = *in.IsAvailableNow
	}

	var skills []user.WorkerSkill
	if in.Skills != nil {
		if !usr.IsWorker() {
			return user.User{}, ErrInvalidInput
		}
		skills, err = normalizeSkills(in.Skills)
		if err != nil {
			return user.User{}, err
		}
	}

	if err := s.users.UpdateProfile(ctx, usr); err != nil {
		return user.User{}, ErrInternal
	}
	if skills != nil {
		if err := s.users.ReplaceWorkerSkills(ctx, userID, skills); err != nil {
			if errors.Is(err, repository.ErrDuplicateWorkerSkill) {
				return user.User{}, ErrDuplicateSkill
			}
			return user.User{}, ErrInternal
		}
	}

	return s.GetProfile(ctx, userID)
}

func normalizeSkills(in []SkillInput) ([]user.WorkerSkill, error) {
	out := make([]user.WorkerSkill, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		name := strings.TrimSpace(s.SkillName)
		if name == "" || s.YearsExperience < 0 || s.HourlyRate < 0 {
			return nil, ErrInvalidInput
		}
		key := skill.Key(name)
		if _, ok := seen[key]; ok {
			return nil, ErrDuplicateSkill
		}
		seen[key] = struct{}{}
		out = append(out, user.WorkerSkill{
			SkillName:       name,
			YearsExperience: s.YearsExperience,
			HourlyRate:      s.HourlyRate,
		})
	}
	return out, nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

func sanitizeUser(u user.User) user.User {
	u.PasswordHash = ""
	return u
}
