package usecase

import (
	"context"

	"skilllink/internal/domain/user"
	"skilllink/internal/repository"
	ucuser "skilllink/internal/usecase/user"

	"github.com/google/uuid"
)

// ProfileChangeHook runs after a profile update succeeds. The recommendation
// cache uses it to drop the worker's stale entry.
type ProfileChangeHook func(ctx context.Context, userID uuid.UUID)

type UserUsecase interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (user.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, in ucuser.UpdateProfileInput) (user.User, error)
}

type User struct {
	svc      *ucuser.Service
	onChange ProfileChangeHook
}

func NewUserUsecase(users repository.UserRepository, onChange ProfileChangeHook) *User {
	return &User{svc: ucuser.NewService(users), onChange: onChange}
}

func (u *User) GetProfile(ctx context.Context, userID uuid.UUID) (user.User, error) {
	return u.svc.GetProfile(ctx, userID)
}

func (u *User) UpdateProfile(ctx context.Context, userID uuid.UUID, in ucuser.UpdateProfileInput) (user.User, error) {
	usr, err := u.svc.UpdateProfile(ctx, userID, in)
	if err != nil {
		return user.User{}, err
	}
	if u.onChange != nil {
		u.onChange(ctx, userID)
	}
	return usr, nil
}
