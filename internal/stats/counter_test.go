package stats

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fixedIntN(v int) func(int) int {
	return func(n int) int {
		if v >= n {
			return n - 1
		}
		return v
	}
}

func TestCounter_TickIsBounded(t *testing.T) {
	c := NewCounter([]Seed{
		{Name: "a", Value: 10, MaxStep: 3},
		{Name: "b", Value: 5, MaxStep: 0},
	}, time.Second, fixedIntN(99))

	snap := c.Tick()
	if snap.Stats[0].Value != 13 {
		t.Fatalf("expected a=13, got %d", snap.Stats[0].Value)
	}
	if snap.Stats[1].Value != 5 {
		t.Fatalf("expected b unchanged, got %d", snap.Stats[1].Value)
	}
	if c.Snapshot().Stats[0].Value != 13 {
		t.Fatal("Snapshot should reflect last tick")
	}
}

func TestCounter_SeedsAreCopied(t *testing.T) {
	seeds := []Seed{{Name: "a", Value: 1, MaxStep: 1}}
	c := NewCounter(seeds, time.Second, fixedIntN(1))
	c.Tick()
	if seeds[0].Value != 1 {
		t.Fatalf("caller seeds mutated: %d", seeds[0].Value)
	}
}

func TestCounter_StartStopLifecycle(t *testing.T) {
	c := NewCounter([]Seed{{Name: "a", Value: 0, MaxStep: 1}}, 5*time.Millisecond, fixedIntN(1))

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := c.Start(context.Background()); !errors.Is(err, ErrAlreadyStarted) {
		t.Fatalf("expected ErrAlreadyStarted, got %v", err)
	}

	select {
	case snap := <-c.Updates():
		if snap.Stats[0].Value < 1 {
			t.Fatalf("expected growth, got %d", snap.Stats[0].Value)
		}
	case <-time.After(time.Second):
		t.Fatal("no update received")
	}

	c.Stop()
	c.Stop()

	frozen := c.Snapshot().Stats[0].Value
	// drain anything published before Stop returned
	select {
	case <-c.Updates():
	default:
	}
	time.Sleep(20 * time.Millisecond)
	if got := c.Snapshot().Stats[0].Value; got != frozen {
		t.Fatalf("counter advanced after Stop: %d -> %d", frozen, got)
	}
}

func TestCounter_StopsWithContext(t *testing.T) {
	c := NewCounter(DefaultSeeds, time.Millisecond, nil)
	ctx, cancel := context.WithCancel(context.Background())
	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	cancel()

	done := make(chan struct{})
	go func() {
		c.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return after context cancel")
	}
}

func TestCounter_StopWithoutStart(t *testing.T) {
	c := NewCounter(DefaultSeeds, time.Second, nil)
	c.Stop()
}
