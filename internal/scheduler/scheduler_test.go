package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"skilllink/internal/pkg/metrics"
)

type fakeRefresher struct {
	calls    int
	triggers []string
	err      error
}

func (f *fakeRefresher) RefreshAll(_ context.Context, trigger string) (int, error) {
	f.calls++
	f.triggers = append(f.triggers, trigger)
	return 3, f.err
}

type fakeLocker struct {
	held     map[string]string
	err      error
	ttls     []time.Duration
	unlocked int
}

func (l *fakeLocker) TryLock(_ context.Context, key, token string, ttl time.Duration) (bool, error) {
	l.ttls = append(l.ttls, ttl)
	if l.err != nil {
		return true, l.err
	}
	if _, ok := l.held[key]; ok {
		return false, nil
	}
	l.held[key] = token
	return true, nil
}

func (l *fakeLocker) Unlock(_ context.Context, key, token string) error {
	if l.held[key] == token {
		delete(l.held, key)
		l.unlocked++
	}
	return nil
}

func TestRunOnce_UsesScheduledTrigger(t *testing.T) {
	r := &fakeRefresher{}
	s := New("@every 1h", r, nil, nil)

	if !s.RunOnce(context.Background()) {
		t.Fatal("expected run")
	}
	if r.calls != 1 || r.triggers[0] != metrics.TriggerScheduled {
		t.Fatalf("calls=%d triggers=%v", r.calls, r.triggers)
	}
}

func TestRunOnce_LockHeldElsewhere(t *testing.T) {
	r := &fakeRefresher{}
	l := &fakeLocker{held: map[string]string{LockKey: "other-instance"}}
	s := New("@every 1h", r, l, nil)

	if s.RunOnce(context.Background()) {
		t.Fatal("should skip when another instance holds the lock")
	}
	if r.calls != 0 {
		t.Fatalf("refresher called %d times", r.calls)
	}
	if l.held[LockKey] != "other-instance" || l.unlocked != 0 {
		t.Fatal("lock held by another instance must not be released")
	}
}

func TestRunOnce_ReleasesLockForNextTick(t *testing.T) {
	r := &fakeRefresher{}
	l := &fakeLocker{held: map[string]string{}}
	s := New("@every 5m", r, l, nil)

	for i := 0; i < 2; i++ {
		if !s.RunOnce(context.Background()) {
			t.Fatalf("tick %d skipped", i)
		}
	}
	if r.calls != 2 || l.unlocked != 2 {
		t.Fatalf("calls=%d unlocked=%d", r.calls, l.unlocked)
	}
	if _, ok := l.held[LockKey]; ok {
		t.Fatal("lock still held after refresh")
	}
	if l.ttls[0] != 5*time.Minute {
		t.Fatalf("lock ttl = %v", l.ttls[0])
	}
}

func TestLockTTLFor(t *testing.T) {
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	cases := map[string]time.Duration{
		"@every 5m":    5 * time.Minute,
		"*/10 * * * *": 10 * time.Minute,
		"@every 6h":    maxLockTTL,
		"not a cron":   maxLockTTL,
	}
	for spec, want := range cases {
		if got := lockTTLFor(spec, now); got != want {
			t.Errorf("lockTTLFor(%q) = %v, want %v", spec, got, want)
		}
	}
}

func TestRunOnce_LockErrorStillRuns(t *testing.T) {
	r := &fakeRefresher{err: errors.New("partial")}
	l := &fakeLocker{held: map[string]string{}, err: errors.New("redis down")}
	s := New("@every 1h", r, l, nil)

	if !s.RunOnce(context.Background()) {
		t.Fatal("expected run when the lock store is down")
	}
	if r.calls != 1 {
		t.Fatalf("calls = %d", r.calls)
	}
}

func TestStart_RejectsBadSpec(t *testing.T) {
	s := New("not a cron", &fakeRefresher{}, nil, nil)
	if err := s.Start(context.Background()); err == nil {
		s.Stop()
		t.Fatal("expected error")
	}
}

func TestStartStop(t *testing.T) {
	s := New("@every 1h", &fakeRefresher{}, nil, nil)
	if err := s.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	s.Stop()
}
