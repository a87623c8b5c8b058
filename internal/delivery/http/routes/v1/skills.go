package v1

import (
	"skilllink/internal/delivery/http/handler"

	"github.com/gofiber/fiber/v3"
)

func RegisterSkills(r fiber.Router, skillHandler *handler.SkillHandler, auth fiber.Handler) {
	if r == nil {
		return
	}
	if skillHandler == nil {
		return
	}

	skillHandler.RegisterPublicRoutes(r)
	skillHandler.RegisterProtectedRoutes(r.Group("", auth))
}
