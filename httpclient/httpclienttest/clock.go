package httpclienttest

import (
	"sync"
	"time"

	"github.com/kbukum/logkit/httpclient"
)

// Clock is a fake clock. Timers fire at once and advance Now by their
// duration, unless Block is set, in which case they never fire.
type Clock struct {
	// Block makes timers never fire, for exercising cancellation.
	Block bool

	mu     sync.Mutex
	now    time.Time
	delays []time.Duration
}

var _ httpclient.Clock = (*Clock)(nil)

// NewClock returns a clock starting at a fixed instant.
func NewClock() *Clock {
	return &Clock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) NewTimer(d time.Duration) httpclient.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.delays = append(c.delays, d)

	ch := make(chan time.Time, 1)
	if !c.Block {
		c.now = c.now.Add(d)
		ch <- c.now
	}
	return &timer{c: ch}
}

// Delays returns every duration a timer was created with, in order.
func (c *Clock) Delays() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.delays...)
}

type timer struct {
	c chan time.Time
}

func (t *timer) C() <-chan time.Time { return t.c }
func (t *timer) Stop() bool          { return true }
