package v1

import (
	"skilllink/internal/delivery/http/handler"

	"github.com/gofiber/fiber/v3"
)

type Handlers struct {
	Auth  *handler.AuthHandler
	User  *handler.UserHandler
	Job   *handler.JobHandler
	Match *handler.MatchHandler
	Skill *handler.SkillHandler
}

// Register mounts every v1 route. auth guards everything except login,
// registration and the public skill catalog.
func Register(r fiber.Router, h Handlers, auth fiber.Handler) {
	if r == nil {
		return
	}

	if h.Auth != nil {
		h.Auth.RegisterRoutes(r.Group("/auth"))
	}

	RegisterSkills(r.Group("/skills"), h.Skill, auth)

	protected := r.Group("", auth)
	if h.User != nil {
		h.User.RegisterRoutes(protected.Group("/users"))
	}
	RegisterJobs(protected.Group("/jobs"), h.Match, h.Job)
}
