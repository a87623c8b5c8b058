package app

import (
	"context"
	"fmt"

	"skilllink/internal/config"
	"skilllink/internal/database"
	"skilllink/internal/database/migration"
	dbpostgres "skilllink/internal/database/postgres"
	"skilllink/internal/database/seeder"
	"skilllink/internal/infrastructure/cache"
	"skilllink/internal/pkg/jwt"
	"skilllink/internal/pkg/metrics"
	"skilllink/internal/repository"
	"skilllink/internal/usecase"
	"skilllink/internal/ws"
	"skilllink/migrations"

	"go.uber.org/zap"
)

// Container owns the long-lived dependencies shared by the HTTP server and
// the CLI commands.
type Container struct {
	Config  config.Config
	Log     *zap.Logger
	Metrics *metrics.Manager
	DB      database.DB
	Cache   *cache.Redis
	JWT     *jwt.HMACService
	Hub     *ws.Hub

	Users  repository.UserRepository
	Jobs   repository.JobRepository
	Skills repository.SkillRepository
	Demand repository.DemandQueryRepository

	AuthUC           usecase.AuthUsecase
	UserUC           usecase.UserUsecase
	JobUC            usecase.JobUsecase
	SkillUC          usecase.SkillUsecase
	MatchingUC       usecase.MatchingUsecase
	RecommendationUC usecase.RecommendationUsecase
	DemandUC         usecase.DemandUsecase
}

func NewContainer(ctx context.Context, cfg config.Config, log *zap.Logger) (*Container, error) {
	if log == nil {
		log = zap.NewNop()
	}

	db, err := dbpostgres.Connect(ctx, cfg.Database, log)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	c := &Container{
		Config:  cfg,
		Log:     log,
		Metrics: metrics.NewManager(),
		DB:      db,
		Cache:   cache.NewRedis(cfg.Redis, log.Named("cache")),
		JWT:     jwt.NewHMACService(cfg.JWT.AccessSecret, cfg.JWT.RefreshSecret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL),
	}
	c.Hub = ws.NewHub(log.Named("ws"), c.Metrics)

	c.Users = repository.NewPostgresUserRepository(db)
	c.Jobs = repository.NewPostgresJobRepository(db)
	c.Skills = repository.NewPostgresSkillRepository(db)
	c.Demand = repository.NewPostgresDemandQueryRepository(db)

	recs := usecase.NewRecommendationUsecase(
		c.Users, c.Skills, c.Demand, c.Cache,
		cfg.Redis.TTL, cfg.Matching.DefaultRadiusKm,
		c.Metrics, log.Named("recommendation"),
	)
	c.RecommendationUC = recs
	c.AuthUC = usecase.NewAuthUsecase(c.Users, c.JWT)
	c.UserUC = usecase.NewUserUsecase(c.Users, recs.Invalidate)
	c.JobUC = usecase.NewJobUsecase(c.Jobs, c.Users, log.Named("job"))
	c.SkillUC = usecase.NewSkillUsecase(c.Skills, c.Cache, log.Named("skill"))
	c.MatchingUC = usecase.NewMatchingUsecase(c.Jobs, c.Users, usecase.MatchingConfig{
		DefaultRadiusKm: cfg.Matching.DefaultRadiusKm,
		CandidateLimit:  cfg.Matching.CandidateLimit,
	}, c.Metrics, log.Named("matching"))
	demandUC := usecase.NewDemandUsecase(
		c.Skills, c.Demand, c.Cache,
		ws.NewNotifier(c.Hub, log.Named("ws")),
		c.Metrics, log.Named("demand"),
	)
	demandUC.SetRefreshWorkers(cfg.Demand.RefreshWorkers)
	c.DemandUC = demandUC

	return c, nil
}

func (c *Container) Migrate(ctx context.Context) error {
	return migration.Runner{FS: migrations.FS, Logger: c.Log.Named("migration")}.Run(ctx, c.DB)
}

// Seed loads the skill catalog, plus demo users and jobs when demo is set.
func (c *Container) Seed(ctx context.Context, demo bool) error {
	seeders := seeder.Catalog()
	if demo {
		seeders = seeder.WithDemo()
	}
	return seeder.Runner{Seeders: seeders, Logger: c.Log.Named("seeder")}.Run(ctx, c.DB)
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.Cache != nil {
		if err := c.Cache.Close(); err != nil {
			c.Log.Warn("close cache", zap.Error(err))
		}
	}
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
