package routes

import (
	"net/http"

	"skilllink/internal/delivery/http/handler"
	v1 "skilllink/internal/delivery/http/routes/v1"
	"skilllink/internal/ws"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
)

type Registry struct {
	health  *handler.HealthHandler
	metrics http.Handler
	ws      *ws.Handler
	api     v1.Handlers
	auth    fiber.Handler
}

func NewRegistry(health *handler.HealthHandler, metrics http.Handler, wsHandler *ws.Handler, api v1.Handlers, auth fiber.Handler) *Registry {
	return &Registry{health: health, metrics: metrics, ws: wsHandler, api: api, auth: auth}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.registerHealth(app)
	r.registerMetrics(app)
	r.registerWS(app)
	r.registerAPI(app)
}

func (r *Registry) registerHealth(app *fiber.App) {
	r.health.RegisterRoutes(app)
}

func (r *Registry) registerMetrics(app *fiber.App) {
	if r.metrics == nil {
		return
	}
	app.Get("/metrics", adaptor.HTTPHandler(r.metrics))
}

func (r *Registry) registerWS(app *fiber.App) {
	if r.ws == nil {
		return
	}
	r.ws.RegisterRoutes(app)
}

func (r *Registry) registerAPI(app *fiber.App) {
	api := app.Group("/api")
	v1.Register(api.Group("/v1"), r.api, r.auth)
}
