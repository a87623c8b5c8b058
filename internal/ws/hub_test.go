package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"skilllink/internal/domain/skill"

	"github.com/google/uuid"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met in time")
}

func TestHub_BroadcastReachesClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(nil, nil)
	go hub.Run(ctx)

	a := &Client{hub: hub, send: make(chan []byte, 1)}
	b := &Client{hub: hub, send: make(chan []byte, 1)}
	hub.Register(a)
	hub.Register(b)
	waitFor(t, func() bool { return hub.ClientCount() == 2 })

	hub.Broadcast([]byte("hello"))
	for _, c := range []*Client{a, b} {
		select {
		case msg := <-c.send:
			if string(msg) != "hello" {
				t.Fatalf("msg = %q", msg)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("broadcast not delivered")
		}
	}

	hub.Unregister(a)
	waitFor(t, func() bool { return hub.ClientCount() == 1 })
	if _, ok := <-a.send; ok {
		t.Fatalf("send channel of unregistered client still open")
	}
}

func TestHub_DropsSlowClient(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(nil, nil)
	go hub.Run(ctx)

	slow := &Client{hub: hub, send: make(chan []byte)}
	hub.Register(slow)
	waitFor(t, func() bool { return hub.ClientCount() == 1 })

	hub.Broadcast([]byte("x"))
	waitFor(t, func() bool { return hub.ClientCount() == 0 })
}

func TestHub_StopClosesClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(nil, nil)
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()

	c := &Client{hub: hub, send: make(chan []byte, 1)}
	hub.Register(c)
	waitFor(t, func() bool { return hub.ClientCount() == 1 })

	cancel()
	<-done
	if _, ok := <-c.send; ok {
		t.Fatalf("client not closed on stop")
	}
}

func TestNotifier_EncodesDemandEvent(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(nil, nil)
	go hub.Run(ctx)
	c := &Client{hub: hub, send: make(chan []byte, 1)}
	hub.Register(c)
	waitFor(t, func() bool { return hub.ClientCount() == 1 })

	at := time.Date(2026, 4, 2, 8, 30, 0, 0, time.UTC)
	s := skill.Skill{
		ID:               uuid.New(),
		Name:             "AC Servicing",
		Category:         "HVAC",
		CurrentDemandPct: 72,
		GrowthRatePct:    -10,
		DemandUpdatedAt:  &at,
	}
	NewNotifier(hub, nil).SkillDemandUpdated(s)

	var evt SkillDemandUpdatedEvent
	select {
	case msg := <-c.send:
		if err := json.Unmarshal(msg, &evt); err != nil {
			t.Fatalf("decode: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("event not delivered")
	}
	if evt.Type != EventSkillDemandUpdated || evt.SkillID != s.ID || evt.CurrentDemand != 72 || evt.GrowthRate != -10 {
		t.Fatalf("event = %+v", evt)
	}
	if evt.Timestamp != "2026-04-02T08:30:00Z" {
		t.Fatalf("timestamp = %s", evt.Timestamp)
	}
}

func TestHub_CallsAfterStopDoNotBlock(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(nil, nil)
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()
	cancel()
	<-done

	finished := make(chan struct{})
	late := &Client{hub: hub, send: make(chan []byte, 1)}
	go func() {
		// more calls than the unregister buffer holds
		for i := 0; i < 300; i++ {
			hub.Unregister(&Client{hub: hub, send: make(chan []byte)})
		}
		hub.Register(late)
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("Register or Unregister blocked after the hub stopped")
	}
	if _, ok := <-late.send; ok {
		t.Fatal("late client should be closed")
	}
}
