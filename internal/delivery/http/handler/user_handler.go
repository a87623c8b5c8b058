package handler

import (
	"errors"

	"skilllink/internal/delivery/http/dto"
	"skilllink/internal/delivery/http/middleware"
	"skilllink/internal/pkg/response"
	"skilllink/internal/usecase"
	useruc "skilllink/internal/usecase/user"

	"github.com/gofiber/fiber/v3"
)

type UserHandler struct {
	uc usecase.UserUsecase
}

type skillRequest struct {
	SkillName       string  `json:"skill_name"`
	YearsExperience float64 `json:"years_experience"`
	HourlyRate      float64 `json:"hourly_rate"`
}

type updateProfileRequest struct {
	FirstName      *string        `json:"first_name"`
	LastName       *string        `json:"last_name"`
	Phone          *string        `json:"phone"`
	Address        *string        `json:"address"`
	City           *string        `json:"city"`
	State          *string        `json:"state"`
	Country        *string        `json:"country"`
	Pincode        *string        `json:"pincode"`
	Location       *dto.GeoPoint  `json:"location"`
	SearchRadiusKm *float64       `json:"search_radius_km"`
	IsAvailableNow *bool          `json:"is_available_now"`
	BusinessName   *string        `json:"business_name"`
	BusinessType   *string        `json:"business_type"`
	Skills         []skillRequest `json:"skills"`
}

func NewUserHandler(uc usecase.UserUsecase) *UserHandler {
	return &UserHandler{uc: uc}
}

func (h *UserHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/me", h.GetMe)
	r.Put("/me", h.UpdateMe)
}

func (h *UserHandler) GetMe(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	prof, err := h.uc.GetProfile(c.Context(), userID)
	if err != nil {
		return mapUserUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewUserProfileResponse(prof))
}

func (h *UserHandler) UpdateMe(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	in := useruc.UpdateProfileInput{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Phone:          req.Phone,
		Address:        req.Address,
		City:           req.City,
		State:          req.State,
		Country:        req.Country,
		Pincode:        req.Pincode,
		SearchRadiusKm: req.SearchRadiusKm,
		IsAvailableNow: req.IsAvailableNow,
		BusinessName:   req.BusinessName,
		BusinessType:   req.BusinessType,
	}
	if req.Location != nil {
		p := req.Location.Point()
		in.Location = &p
	}
	if req.Skills != nil {
		in.Skills = make([]useruc.SkillInput, 0, len(req.Skills))
		for _, s := range req.Skills {
			in.Skills = append(in.Skills, useruc.SkillInput{
				SkillName:       s.SkillName,
				YearsExperience: s.YearsExperience,
				HourlyRate:      s.HourlyRate,
			})
		}
	}

	prof, err := h.uc.UpdateProfile(c.Context(), userID, in)
	if err != nil {
		return mapUserUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewUserProfileResponse(prof))
}

func mapUserUsecaseError(err error) error {
	switch {
	case errors.Is(err, useruc.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	case errors.Is(err, useruc.ErrDuplicateSkill):
		return middleware.NewAppError(fiber.StatusBadRequest, "Duplicate skill in profile", nil, err)
	case errors.Is(err, useruc.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "User not found", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
