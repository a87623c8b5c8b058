package handler

import (
	"context"
	"time"

	"skilllink/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

// Pinger is anything readiness checks should ping.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db    Pinger
	cache Pinger
}

type readiness struct {
	Database string `json:"database"`
	Cache    string `json:"cache"`
}

func NewHealthHandler(db, cache Pinger) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/health", h.Live)
	r.Get("/ready", h.Ready)
}

func (h *HealthHandler) Live(c fiber.Ctx) error {
	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}

// Ready fails only on the database; a missing cache is reported but the
// service degrades to uncached reads.
func (h *HealthHandler) Ready(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	out := readiness{Database: "up", Cache: "up"}
	status, msg := fiber.StatusOK, "ready"
	if h.db == nil || h.db.Ping(ctx) != nil {
		out.Database = "down"
		status, msg = fiber.StatusServiceUnavailable, "not ready"
	}
	if h.cache == nil || h.cache.Ping(ctx) != nil {
		out.Cache = "bypassed"
	}
	return response.Success(c, status, msg, out)
}
