package seeder

import (
	"context"
	"fmt"
	"time"

	"skilllink/internal/database"

	"go.uber.org/zap"
)

// Seeder loads reference or demo rows. Implementations must be idempotent.
type Seeder interface {
	Name() string
	Run(ctx context.Context, db database.DB) error
}

// Catalog returns the seeders every environment needs.
func Catalog() []Seeder {
	return []Seeder{SkillsSeeder{}}
}

// WithDemo appends the demo seeder to the catalog.
func WithDemo() []Seeder {
	return append(Catalog(), DemoSeeder{})
}

type Runner struct {
	Seeders []Seeder
	Logger  *zap.Logger
}

// Run executes seeders in order and stops at the first failure.
func (r Runner) Run(ctx context.Context, db database.DB) error {
	if db == nil {
		return database.ErrNilDB
	}
	log := r.Logger
	if log == nil {
		log = zap.NewNop()
	}

	for _, s := range r.Seeders {
		if s == nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		started := time.Now()
		if err := s.Run(ctx, db); err != nil {
			log.Error("seeder failed", zap.String("seeder", s.Name()), zap.Error(err))
			return fmt.Errorf("seed %s: %w", s.Name(), err)
		}
		log.Info("seeder finished",
			zap.String("seeder", s.Name()),
			zap.Duration("took", time.Since(started)),
		)
	}
	return nil
}
