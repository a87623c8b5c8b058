package handler

import (
	"strings"

	"skilllink/internal/delivery/http/dto"
	"skilllink/internal/delivery/http/middleware"
	"skilllink/internal/domain/geo"
	"skilllink/internal/domain/job"
	"skilllink/internal/domain/user"
	"skilllink/internal/pkg/response"
	"skilllink/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type JobHandler struct {
	uc usecase.JobUsecase
}

type createJobRequest struct {
	Title                   string       `json:"title"`
	Description             string       `json:"description"`
	Category                string       `json:"category"`
	RequiredSkills          []string     `json:"required_skills"`
	RequiredExperienceYears float64      `json:"required_experience_years"`
	Type                    string       `json:"job_type"`
	Location                dto.GeoPoint `json:"location"`
	Address                 string       `json:"address"`
	Budget                  struct {
		Amount   float64 `json:"amount"`
		Currency string  `json:"currency"`
	} `json:"budget"`
	Urgency string `json:"urgency"`
}

type applyRequest struct {
	Proposal    string  `json:"proposal"`
	QuotedPrice float64 `json:"quoted_price"`
}

type updateStatusRequest struct {
	Status   string     `json:"status"`
	WorkerID *uuid.UUID `json:"worker_id"`
}

type completeJobRequest struct {
	Rating      float64              `json:"rating"`
	Review      string               `json:"review"`
	ProofOfWork []proofOfWorkRequest `json:"proof_of_work"`
}

type proofOfWorkRequest struct {
	Type        string `json:"type"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

func NewJobHandler(uc usecase.JobUsecase) *JobHandler {
	return &JobHandler{uc: uc}
}

// RegisterRoutes mounts the job routes on an authenticated group. Routes
// with static segments under /jobs must be registered before this.
func (h *JobHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/", middleware.RequireRole(string(user.RoleBusiness)), h.Create)
	r.Get("/", h.List)
	r.Get("/:id", h.Get)
	r.Post("/:id/apply", middleware.RequireRole(string(user.RoleWorker)), h.Apply)
	r.Put("/:id/status", h.UpdateStatus)
	r.Put("/:id/complete", h.Complete)
}

func (h *JobHandler) Create(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	var req createJobRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	j, err := h.uc.Create(c.Context(), userID, usecase.CreateJobInput{
		Title:                   req.Title,
		Description:             req.Description,
		Category:                req.Category,
		RequiredSkills:          req.RequiredSkills,
		RequiredExperienceYears: req.RequiredExperienceYears,
		Type:                    job.Type(req.Type),
		Location:                req.Location.Point(),
		Address:                 req.Address,
		BudgetAmount:            req.Budget.Amount,
		Currency:                req.Budget.Currency,
		Urgency:                 job.Urgency(req.Urgency),
	})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Created(c, "job created", dto.NewJobResponse(j))
}

func (h *JobHandler) List(c fiber.Ctx) error {
	page, err := parseQueryIntStrict(c, "page", 1)
	if err != nil {
		return err
	}
	limit, err := parseQueryIntStrict(c, "limit", 0)
	if err != nil {
		return err
	}
	minBudget, err := parseQueryFloat(c, "min_budget")
	if err != nil {
		return err
	}
	maxBudget, err := parseQueryFloat(c, "max_budget")
	if err != nil {
		return err
	}
	lon, err := parseQueryFloat(c, "longitude")
	if err != nil {
		return err
	}
	lat, err := parseQueryFloat(c, "latitude")
	if err != nil {
		return err
	}
	radius, err := parseQueryFloat(c, "radius")
	if err != nil {
		return err
	}

	p := usecase.JobListParams{
		Category:  strings.TrimSpace(c.Query("category")),
		Skills:    parseSkillsQuery(c.Query("skills")),
		Status:    job.Status(c.Query("status", string(job.StatusOpen))),
		Type:      job.Type(c.Query("job_type")),
		MinBudget: minBudget,
		MaxBudget: maxBudget,
		Urgency:   job.Urgency(c.Query("urgency")),
		Page:      page,
		Limit:     limit,
	}
	if (lon == nil) != (lat == nil) {
		return middleware.NewAppError(fiber.StatusBadRequest, "longitude and latitude go together", nil, nil)
	}
	if lon != nil {
		p.Near = &geo.Point{Longitude: *lon, Latitude: *lat}
		if radius != nil {
			p.RadiusKm = *radius
		}
	}

	res, err := h.uc.List(c.Context(), p)
	if err != nil {
		return mapUsecaseError(err)
	}

	out := dto.JobListResponse{
		Jobs:       make([]dto.JobResponse, 0, len(res.Items)),
		Pagination: dto.NewPagination(res.Page, res.Limit, res.Total, res.TotalPages),
	}
	for _, j := range res.Items {
		out.Jobs = append(out.Jobs, dto.NewJobResponse(j))
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *JobHandler) Get(c fiber.Ctx) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	j, err := h.uc.Get(c.Context(), id)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewJobResponse(j))
}

func (h *JobHandler) Apply(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req applyRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	a, err := h.uc.Apply(c.Context(), userID, id, usecase.ApplyInput{Proposal: req.Proposal, QuotedPrice: req.QuotedPrice})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Created(c, "application submitted", dto.NewApplicationResponse(a))
}

func (h *JobHandler) UpdateStatus(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req updateStatusRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	j, err := h.uc.UpdateStatus(c.Context(), userID, id, job.Status(req.Status), req.WorkerID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "job status updated", dto.NewJobResponse(j))
}

func (h *JobHandler) Complete(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req completeJobRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	in := usecase.CompleteJobInput{Rating: req.Rating, Review: req.Review}
	for _, p := range req.ProofOfWork {
		in.ProofOfWork = append(in.ProofOfWork, job.ProofOfWork{
			Kind:        job.ProofKind(p.Type),
			URL:         strings.TrimSpace(p.URL),
			Description: strings.TrimSpace(p.Description),
		})
	}
	j, err := h.uc.Complete(c.Context(), userID, id, in)
	if err != nil {
		return mapUsecaseError(err)
	}
	msg := "rating recorded"
	if j.Status == job.StatusCompleted {
		msg = "job completed"
	}
	return response.Success(c, fiber.StatusOK, msg, dto.NewJobResponse(j))
}
