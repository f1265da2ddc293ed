// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"sync"
	"time"
)

type (
	// FakeClock provides manually controlled time for testing.
	// Time only advances when Advance() or Set() is called. It satisfies the
	// Now/After/Since clock interfaces used by production packages.
	FakeClock struct {
		current time.Time
		mu      sync.Mutex
		waiters []waiter
	}

	// waiter tracks a pending After() call.
	waiter struct {
		target time.Time
		ch     chan time.Time
	}
)

// NewFakeClock creates a FakeClock initialized to the given time.
// If initial is zero, defaults to a fixed reference time for reproducibility.
func NewFakeClock(initial time.Time) *FakeClock {
	if initial.IsZero() {
		initial = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	return &FakeClock{current: initial}
}

// Now returns the current fake time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// After returns a channel that receives the time when the target time is reached.
// The channel receives when Advance() or Set() moves past the target time.
func (c *FakeClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan time.Time, 1)
	if d <= 0 {
		ch <- c.current
		return ch
	}

	c.waiters = append(c.waiters, waiter{target: c.current.Add(d), ch: ch})
	return ch
}

// Since returns the fake time elapsed since t.
func (c *FakeClock) Since(t time.Time) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current.Sub(t)
}

// Advance moves the fake time forward by d, firing any due After() channels.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.current = c.current.Add(d)
	c.notifyWaiters()
}

// Set sets the fake time to t, firing any due After() channels.
func (c *FakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = t
	c.notifyWaiters()
}

// Waiters returns the number of pending After() calls. Tests use it to make
// sure the code under test is parked on the clock before advancing it.
func (c *FakeClock) Waiters() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.waiters)
}

// notifyWaiters notifies all waiters whose target time has been reached.
// Must be called with mu held.
func (c *FakeClock) notifyWaiters() {
	remaining := c.waiters[:0]
	for _, w := range c.waiters {
		if !c.current.Before(w.target) {
			select {
			case w.ch <- c.current:
			default:
			}
		} else {
			remaining = append(remaining, w)
		}
	}
	c.waiters = remaining
}
