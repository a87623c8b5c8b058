// Package scheduler runs the periodic skill demand recomputation.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"skilllink/internal/pkg/metrics"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	LockKey = "demand:refresh:lock"

	// maxLockTTL bounds how long a crashed holder can block other replicas.
	maxLockTTL    = 30 * time.Minute
	unlockTimeout = 5 * time.Second
)

// Refresher recomputes demand metrics for every active skill.
type Refresher interface {
	RefreshAll(ctx context.Context, trigger string) (int, error)
}

// Locker keeps replicas from refreshing at the same time. A nil Locker means
// every tick runs.
type Locker interface {
	TryLock(ctx context.Context, key, token string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, key, token string) error
}

type Scheduler struct {
	cron      *cron.Cron
	spec      string
	refresher Refresher
	locker    Locker
	lockTTL   time.Duration
	log       *zap.Logger

	mu      sync.Mutex
	running bool
}

func New(spec string, refresher Refresher, locker Locker, log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{
		cron:      cron.New(),
		spec:      spec,
		refresher: refresher,
		locker:    locker,
		lockTTL:   lockTTLFor(spec, time.Now()),
		log:       log.Named("scheduler"),
	}
}

// lockTTLFor keeps the lock shorter than the gap between ticks, so a holder
// that dies without unlocking never costs the next tick.
func lockTTLFor(spec string, now time.Time) time.Duration {
	sched, err := cron.ParseStandard(spec)
	if err != nil {
		return maxLockTTL
	}
	next := sched.Next(now)
	interval := sched.Next(next).Sub(next)
	if interval <= 0 || interval > maxLockTTL {
		return maxLockTTL
	}
	return interval
}

// Start registers the refresh job and starts the cron loop. ctx bounds every
// refresh run.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.spec, func() { s.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("cron add %q: %w", s.spec, err)
	}
	s.cron.Start()
	s.log.Info("cron started", zap.String("spec", s.spec))
	return nil
}

// Stop halts the cron loop and waits for a running refresh to return.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("cron stopped")
}

// RunOnce performs a single guarded refresh. It reports whether the refresh
// actually ran.
func (s *Scheduler) RunOnce(ctx context.Context) bool {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.log.Warn("previous refresh still running, skipping tick")
		return false
	}
	s.running = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	if s.locker != nil {
		token := uuid.NewString()
		ok, err := s.locker.TryLock(ctx, LockKey, token, s.lockTTL)
		if err != nil {
			s.log.Warn("refresh lock unavailable, running unguarded", zap.Error(err))
		}
		if !ok {
			s.log.Info("refresh held by another instance")
			return false
		}
		if err == nil {
			defer s.unlock(ctx, token)
		}
	}

	start := time.Now()
	n, err := s.refresher.RefreshAll(ctx, metrics.TriggerScheduled)
	if err != nil {
		s.log.Error("demand refresh failed",
			zap.Int("refreshed", n),
			zap.Duration("took", time.Since(start)),
			zap.Error(err),
		)
		return true
	}
	s.log.Info("demand refresh complete",
		zap.Int("refreshed", n),
		zap.Duration("took", time.Since(start)),
	)
	return true
}

func (s *Scheduler) unlock(ctx context.Context, token string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), unlockTimeout)
	defer cancel()
	if err := s.locker.Unlock(ctx, LockKey, token); err != nil {
		s.log.Warn("refresh lock release failed", zap.Error(err))
	}
}
