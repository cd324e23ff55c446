// internal/ledger/clock.go
package ledger

import (
	"sync"
	"time"
)

// Clock supplies the environment time in unix seconds.
type Clock interface {
	Now() int64
}

// SystemClock reads wall time but never reports a value lower than one it
// already returned.
type SystemClock struct {
	mu   sync.Mutex
	last int64
}

func NewSystemClock() *SystemClock {
	return &SystemClock{}
}

func (c *SystemClock) Now() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now().Unix()
	if now < c.last {
		return c.last
	}
	c.last = now
	return now
}

// ManualClock is set explicitly; Advance only moves forward.
type ManualClock struct {
	mu  sync.Mutex
	now int64
}

func NewManualClock(start int64) *ManualClock {
	return &ManualClock{now: start}
}

func (c *ManualClock) Now() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *ManualClock) Advance(seconds int64) {
	if seconds < 0 {
		return
	}
	c.mu.Lock()
	c.now += seconds
	c.mu.Unlock()
}

// Set moves the clock to ts unless that would go backwards.
func (c *ManualClock) Set(ts int64) {
	c.mu.Lock()
	if ts > c.now {
		c.now = ts
	}
	c.mu.Unlock()
}
