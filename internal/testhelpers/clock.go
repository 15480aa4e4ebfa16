package testhelpers

import (
	"context"
	"sync"
	"time"
)

// FakeClock is a manual clock: Sleep advances Now instantly and is recorded.
type FakeClock struct {
	mu     sync.Mutex
	start  time.Time
	now    time.Time
	sleeps []time.Duration
}

func NewFakeClock() *FakeClock {
	t := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	return &FakeClock{start: t, now: t}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *FakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	c.sleeps = append(c.sleeps, d)
	return nil
}

// Advance moves the clock without recording a sleep.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Sleeps returns every recorded sleep, in order.
func (c *FakeClock) Sleeps() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.sleeps...)
}

// CountSleeps returns how many recorded sleeps lasted exactly d.
func (c *FakeClock) CountSleeps(d time.Duration) int {
	n := 0
	for _, s := range c.Sleeps() {
		if s == d {
			n++
		}
	}
	return n
}

// Elapsed is the time since the clock was created.
func (c *FakeClock) Elapsed() time.Duration {
	return c.Now().Sub(c.start)
}
