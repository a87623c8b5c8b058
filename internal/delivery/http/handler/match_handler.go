package handler

import (
	"skilllink/internal/delivery/http/dto"
	"skilllink/internal/delivery/http/middleware"
	"skilllink/internal/domain/user"
	"skilllink/internal/pkg/response"
	"skilllink/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type MatchHandler struct {
	uc usecase.MatchingUsecase
}

func NewMatchHandler(uc usecase.MatchingUsecase) *MatchHandler {
	return &MatchHandler{uc: uc}
}

// RegisterRoutes mounts on the /jobs group ahead of the job handler so that
// /matched is not captured by /:id.
func (h *MatchHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	workerOnly := middleware.RequireRole(string(user.RoleWorker))
	r.Get("/matched", workerOnly, h.GetMatchedJobs)
	r.Get("/:id/match", workerOnly, h.GetMatch)
}

func (h *MatchHandler) GetMatchedJobs(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	matched, err := h.uc.MatchedJobs(c.Context(), userID)
	if err != nil {
		return mapUsecaseError(err)
	}

	out := make([]dto.MatchedJobResponse, 0, len(matched))
	for _, m := range matched {
		out = append(out, dto.MatchedJobResponse{
			JobResponse:  dto.NewJobResponse(m.Job),
			AIMatchScore: m.Score,
			DistanceKm:   m.DistanceKm,
		})
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *MatchHandler) GetMatch(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	jobID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	b, err := h.uc.MatchDetail(c.Context(), userID, jobID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewMatchDetailResponse(jobID, b))
}
