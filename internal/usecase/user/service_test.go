package user

import (
	"context"
	"errors"
	"testing"

	"skilllink/internal/domain/geo"
	"skilllink/internal/domain/user"
	"skilllink/internal/repository"

	"github.com/google/uuid"
)

type fakeUsers struct {
	byID      map[uuid.UUID]user.User
	replaced  []user.WorkerSkill
	replaceFn func([]user.WorkerSkill) error
}

func (f *fakeUsers) Create(context.Context, user.User) error { return nil }
func (f *fakeUsers) GetByID(_ context.Context, id uuid.UUID) (user.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return user.User{}, repository.ErrUserNotFound
	}
	return u, nil
}
func (f *fakeUsers) GetByEmail(context.Context, string) (user.User, error) {
	return user.User{}, repository.ErrUserNotFound
}
func (f *fakeUsers) ExistsByEmail(context.Context, string) (bool, error) { return false, nil }
func (f *fakeUsers) UpdateProfile(_ context.Context, u user.User) error {
	f.byID[u.ID] = u
	return nil
}
func (f *fakeUsers) ReplaceWorkerSkills(_ context.Context, id uuid.UUID, skills []user.WorkerSkill) error {
	if f.replaceFn != nil {
		if err := f.replaceFn(skills); err != nil {
			return err
		}
	}
	f.replaced = skills
	u := f.byID[id]
	u.Worker.Skills = skills
	f.byID[id] = u
	return nil
}

func strPtr(s string) *string { return &s }

func TestService_UpdateProfile(t *testing.T) {
	id := uuid.New()
	users := &fakeUsers{byID: map[uuid.UUID]user.User{
		id: {ID: id, Role: user.RoleWorker, PasswordHash: "hash", Profile: user.Profile{SearchRadiusKm: 25}},
	}}
	s := NewService(users)

	loc := geo.Point{Longitude: 77.2090, Latitude: 28.6139}
	radius := 15.0
	avail := true
	got, err := s.UpdateProfile(context.Background(), id, UpdateProfileInput{
		FirstName:      strPtr("  Asha "),
		City:           strPtr("Delhi"),
		Location:       &loc,
		SearchRadiusKm: &radius,
		IsAvailableNow: &avail,
		Skills: []SkillInput{
			{SkillName: " Plumbing ", YearsExperience: 3, HourlyRate: 300},
			{SkillName: "Tiling", YearsExperience: 1},
		},
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.Profile.FirstName != "Asha" || got.Profile.City != "Delhi" || got.Profile.Location != loc {
		t.Fatalf("profile = %+v", got.Profile)
	}
	if got.Profile.SearchRadiusKm != 15 || !got.Worker.IsAvailableNow {
		t.Fatalf("worker fields not applied: %+v", got)
	}
	if len(users.replaced) != 2 || users.replaced[0].SkillName != "Plumbing" {
		t.Fatalf("skills = %+v", users.replaced)
	}
	if got.PasswordHash != "" {
		t.Fatalf("password hash leaked")
	}
}

func TestService_UpdateProfile_Invalid(t *testing.T) {
	worker := uuid.New()
	business := uuid.New()
	users := &fakeUsers{byID: map[uuid.UUID]user.User{
		worker:   {ID: worker, Role: user.RoleWorker},
		business: {ID: business, Role: user.RoleBusiness},
	}}
	s := NewService(users)
	ctx := context.Background()

	tooFar := 501.0
	if _, err := s.UpdateProfile(ctx, worker, UpdateProfileInput{SearchRadiusKm: &tooFar}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for radius, got %v", err)
	}
	bad := geo.Point{Longitude: -181}
	if _, err := s.UpdateProfile(ctx, worker, UpdateProfileInput{Location: &bad}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for location, got %v", err)
	}
	dup := []SkillInput{{SkillName: "Plumbing"}, {SkillName: "plumbing"}}
	if _, err := s.UpdateProfile(ctx, worker, UpdateProfileInput{Skills: dup}); !errors.Is(err, ErrDuplicateSkill) {
		t.Fatalf("expected ErrDuplicateSkill, got %v", err)
	}
	if _, err := s.UpdateProfile(ctx, business, UpdateProfileInput{Skills: []SkillInput{{SkillName: "Plumbing"}}}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("businesses cannot carry skills, got %v", err)
	}
	if _, err := s.UpdateProfile(ctx, uuid.New(), UpdateProfileInput{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	users.replaceFn = func([]user.WorkerSkill) error { return repository.ErrDuplicateWorkerSkill }
	if _, err := s.UpdateProfile(ctx, worker, UpdateProfileInput{Skills: []SkillInput{{SkillName: "Plumbing"}}}); !errors.Is(err, ErrDuplicateSkill) {
		t.Fatalf("expected ErrDuplicateSkill from store, got %v", err)
	}
}

func TestService_UpdateProfile_EmptySkillsClearsList(t *testing.T) {
	id := uuid.New()
	users := &fakeUsers{byID: map[uuid.UUID]user.User{
		id: {ID: id, Role: user.RoleWorker, Worker: user.WorkerDetails{Skills: []user.WorkerSkill{{SkillName: "Plumbing"}}}},
	}}
	got, err := NewService(users).UpdateProfile(context.Background(), id, UpdateProfileInput{Skills: []SkillInput{}})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got.Worker.Skills) != 0 {
		t.Fatalf("skills = %+v", got.Worker.Skills)
	}
}
