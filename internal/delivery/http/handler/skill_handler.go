package handler

import (
	"skilllink/internal/delivery/http/dto"
	"skilllink/internal/delivery/http/middleware"
	"skilllink/internal/domain/user"
	"skilllink/internal/pkg/metrics"
	"skilllink/internal/pkg/response"
	"skilllink/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type SkillHandler struct {
	skills          usecase.SkillUsecase
	demand          usecase.DemandUsecase
	recommendations usecase.RecommendationUsecase
}

type upsertSkillRequest struct {
	Name          string   `json:"name"`
	Category      string   `json:"category"`
	Description   string   `json:"description"`
	Status        string   `json:"status"`
	AvgHourlyRate *float64 `json:"average_hourly_rate"`
	RelatedSkills []string `json:"related_skills"`
}

func NewSkillHandler(skills usecase.SkillUsecase, demand usecase.DemandUsecase, recs usecase.RecommendationUsecase) *SkillHandler {
	return &SkillHandler{skills: skills, demand: demand, recommendations: recs}
}

// RegisterPublicRoutes mounts the read-only catalog routes.
func (h *SkillHandler) RegisterPublicRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/", h.List)
	r.Get("/:id", h.Get)
}

// RegisterProtectedRoutes expects an authenticated group.
func (h *SkillHandler) RegisterProtectedRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	adminOnly := middleware.RequireRole(string(user.RoleAdmin))

	r.Get("/:id/recommendations", h.Recommendations)
	r.Post("/", adminOnly, h.Upsert)
	r.Put("/:id/demand-metrics", adminOnly, h.RefreshDemand)
}

func (h *SkillHandler) List(c fiber.Ctx) error {
	page, err := parseQueryIntStrict(c, "page", 1)
	if err != nil {
		return err
	}
	limit, err := parseQueryIntStrict(c, "limit", 0)
	if err != nil {
		return err
	}

	res, err := h.skills.List(c.Context(), usecase.SkillListParams{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		return mapUsecaseError(err)
	}

	out := dto.SkillListResponse{
		Skills:     make([]dto.SkillResponse, 0, len(res.Items)),
		Pagination: dto.NewPagination(res.Page, res.Limit, res.Total, res.TotalPages),
	}
	for _, s := range res.Items {
		out.Skills = append(out.Skills, dto.NewSkillResponse(s))
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *SkillHandler) Get(c fiber.Ctx) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	s, err := h.skills.Get(c.Context(), id)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewSkillResponse(s))
}

func (h *SkillHandler) Upsert(c fiber.Ctx) error {
	var req upsertSkillRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	s, err := h.skills.Upsert(c.Context(), usecase.UpsertSkillInput{
		Name:          req.Name,
		Category:      req.Category,
		Description:   req.Description,
		Status:        req.Status,
		AvgHourlyRate: req.AvgHourlyRate,
		RelatedSkills: req.RelatedSkills,
	})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "skill saved", dto.NewSkillResponse(s))
}

// Recommendations treats :id as the worker's user id.
func (h *SkillHandler) Recommendations(c fiber.Ctx) error {
	workerID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	recs, err := h.recommendations.Recommend(c.Context(), workerID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewRecommendationResponses(recs))
}

func (h *SkillHandler) RefreshDemand(c fiber.Ctx) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	s, err := h.demand.RefreshSkill(c.Context(), id, metrics.TriggerManual)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "demand metrics updated", dto.NewSkillResponse(s))
}
