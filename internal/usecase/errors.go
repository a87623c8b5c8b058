package usecase

import "errors"

var (
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidInput        = errors.New("invalid input")
	ErrInternal            = errors.New("internal error")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrRefreshTokenExpired = errors.New("refresh token expired")

	ErrUserNotFound      = errors.New("user not found")
	ErrWorkerRequired    = errors.New("worker profile required")
	ErrJobNotFound       = errors.New("job not found")
	ErrSkillNotFound     = errors.New("skill not found")
	ErrAlreadyApplied    = errors.New("already applied to this job")
	ErrInvalidTransition = errors.New("invalid job status transition")
	ErrJobNotRateable    = errors.New("job cannot be rated in its current state")
	ErrRefreshIncomplete = errors.New("demand refresh incomplete")
)
