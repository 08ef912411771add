// Package stats drives the ambient "live" counters shown on the landing page.
// Each viewer gets its own Counter, started when the view opens and stopped
// when it closes.
package stats

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"time"
)

// ErrAlreadyStarted is returned when Start is called twice.
var ErrAlreadyStarted = errors.New("stats: counter already started")

// Seed is the starting value and per-tick growth bound of one counter.
type Seed struct {
	Name    string `json:"name"`
	Label   string `json:"label"`
	Value   int64  `json:"value"`
	MaxStep int    `json:"-"`
}

// DefaultSeeds are the landing page counters.
var DefaultSeeds = []Seed{
	{Name: "patients_matched", Label: "Patients matched", Value: 12847, MaxStep: 3},
	{Name: "appointments_today", Label: "Appointments booked today", Value: 318, MaxStep: 2},
	{Name: "dentists_listed", Label: "Dentists listed", Value: 1432, MaxStep: 1},
}

// Stat is one counter reading.
type Stat struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Value int64  `json:"value"`
}

// Snapshot is every counter at one instant.
type Snapshot struct {
	Stats []Stat    `json:"stats"`
	At    time.Time `json:"at"`
}

// Counter holds process-local counter values that grow on a timer between
// Start and Stop.
type Counter struct {
	interval time.Duration
	intN     func(n int) int
	now      func() time.Time

	mu      sync.Mutex
	seeds   []Seed
	updates chan Snapshot
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewCounter creates a stopped counter. A nil intN uses math/rand/v2.
func NewCounter(seeds []Seed, interval time.Duration, intN func(n int) int) *Counter {
	if interval <= 0 {
		interval = 3 * time.Second
	}
	if intN == nil {
		intN = rand.IntN
	}
	return &Counter{
		interval: interval,
		intN:     intN,
		now:      time.Now,
		seeds:    append([]Seed(nil), seeds...),
		updates:  make(chan Snapshot, 1),
	}
}

// Updates delivers a snapshot after every tick. Slow readers only see the
// latest snapshot.
func (c *Counter) Updates() <-chan Snapshot {
	return c.updates
}

// Start launches the ticker goroutine. It stops on Stop or when ctx ends; a
// Counter is started at most once.
func (c *Counter) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		return ErrAlreadyStarted
	}
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.done = make(chan struct{})
	go c.run(ctx, c.done)
	return nil
}

// Stop halts the ticker and waits for it to exit. Safe to call more than once.
func (c *Counter) Stop() {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (c *Counter) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.publish(c.Tick())
		}
	}
}

func (c *Counter) publish(snap Snapshot) {
	select {
	case c.updates <- snap:
		return
	default:
	}
	// Drop the stale snapshot and retry once.
	select {
	case <-c.updates:
	default:
	}
	select {
	case c.updates <- snap:
	default:
	}
}

// Tick applies one random increment to every counter.
func (c *Counter) Tick() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.seeds {
		if step := c.seeds[i].MaxStep; step > 0 {
			c.seeds[i].Value += int64(c.intN(step + 1))
		}
	}
	return c.snapshotLocked()
}

// Snapshot reads the current values.
func (c *Counter) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Counter) snapshotLocked() Snapshot {
	stats := make([]Stat, len(c.seeds))
	for i, s := range c.seeds {
		stats[i] = Stat{Name: s.Name, Label: s.Label, Value: s.Value}
	}
	return Snapshot{Stats: stats, At: c.now().UTC()}
}
