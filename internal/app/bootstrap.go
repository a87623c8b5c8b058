package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"skilllink/internal/delivery/http/handler"
	"skilllink/internal/delivery/http/middleware"
	"skilllink/internal/delivery/http/routes"
	v1 "skilllink/internal/delivery/http/routes/v1"
	"skilllink/internal/scheduler"
	"skilllink/internal/ws"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	Fiber     *fiber.App
	container *Container
	scheduler *scheduler.Scheduler
}

// New builds the HTTP app on top of an initialized container.
func New(c *Container) *App {
	f := fiber.New(fiber.Config{AppName: c.Config.App.AppName})

	registerGlobalMiddleware(f, c)
	registerRoutes(f, c)

	a := &App{Fiber: f, container: c}
	if c.Config.Demand.RefreshEnabled {
		a.scheduler = scheduler.New(c.Config.Demand.RefreshCron, c.DemandUC, c.Cache, c.Log)
	}
	return a
}

func registerGlobalMiddleware(app *fiber.App, c *Container) {
	app.Use(middleware.NewErrorMiddleware(c.Log.Named("http")).Middleware())
	app.Use(middleware.NewAccessLogMiddleware(c.Log.Named("access"), c.Metrics).Middleware())
}

func registerRoutes(app *fiber.App, c *Container) {
	routes.NewRegistry(
		handler.NewHealthHandler(c.DB, c.Cache),
		c.Metrics.Handler(),
		ws.NewHandler(c.Hub, c.Log.Named("ws")),
		v1.Handlers{
			Auth:  handler.NewAuthHandler(c.AuthUC),
			User:  handler.NewUserHandler(c.UserUC),
			Job:   handler.NewJobHandler(c.JobUC),
			Match: handler.NewMatchHandler(c.MatchingUC),
			Skill: handler.NewSkillHandler(c.SkillUC, c.DemandUC, c.RecommendationUC),
		},
		middleware.NewAuthMiddleware(c.JWT).Middleware(),
	).Register(app)
}

// Run serves HTTP until ctx is canceled, then drains connections and stops
// the hub and the scheduler.
func (a *App) Run(ctx context.Context) error {
	log := a.container.Log
	addr, err := ListenAddr(a.container.Config.App.HTTPPort)
	if err != nil {
		return err
	}

	hubCtx, stopHub := context.WithCancel(ctx)
	defer stopHub()
	go a.container.Hub.Run(hubCtx)

	if a.scheduler != nil {
		if err := a.scheduler.Start(ctx); err != nil {
			return err
		}
		defer a.scheduler.Stop()
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.Fiber.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true})
	}()
	log.Info("http listening", zap.String("addr", addr))

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.Fiber.ShutdownWithContext(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
