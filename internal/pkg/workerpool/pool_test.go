package workerpool

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

func TestPool_RunsEveryTask(t *testing.T) {
	p := New(3, 10)
	var ran atomic.Int32
	boom := errors.New("boom")
	for i := 0; i < 10; i++ {
		i := i
		p.Submit(func(context.Context) error {
			ran.Add(1)
			if i%5 == 0 {
				return boom
			}
			return nil
		})
	}
	p.Close()

	failed, ok := 0, 0
	for res := range p.Run(context.Background()) {
		if errors.Is(res.Err, boom) {
			failed++
		} else {
			ok++
		}
	}
	if ran.Load() != 10 || failed != 2 || ok != 8 {
		t.Fatalf("ran=%d failed=%d ok=%d", ran.Load(), failed, ok)
	}
}

func TestPool_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p := New(1, 5)
	for i := 0; i < 5; i++ {
		p.Submit(func(context.Context) error {
			cancel()
			return nil
		})
	}
	p.Close()

	n := 0
	for range p.Run(ctx) {
		n++
	}
	if n > 1 {
		t.Fatalf("results after cancel = %d", n)
	}
}

func TestPool_NilSafe(t *testing.T) {
	var p *Pool
	p.Submit(func(context.Context) error { return nil })
	p.Close()
	if _, open := <-p.Run(context.Background()); open {
		t.Fatal("nil pool should yield a closed channel")
	}
}
