package v1

import (
	"skilllink/internal/delivery/http/handler"

	"github.com/gofiber/fiber/v3"
)

func RegisterJobs(r fiber.Router, matchHandler *handler.MatchHandler, jobHandler *handler.JobHandler) {
	if r == nil {
		return
	}

	// static segments first
	if matchHandler != nil {
		matchHandler.RegisterRoutes(r)
	}
	if jobHandler != nil {
		jobHandler.RegisterRoutes(r)
	}
}
