package room

import (
	"sync"
	"time"
)

// Countdown is a per-room round timer. While active it ticks once per
// interval (one second in production), decrementing the remaining count and
// notifying tick observers; on reaching zero it stops itself and notifies
// finished observers exactly once per run. The countdown carries no game
// rules; elimination decisions belong to whoever subscribes to Finished.
type Countdown struct {
	mu        sync.Mutex
	interval  time.Duration
	remaining int
	running   bool
	stop      chan struct{}

	onTick     []func(remaining int)
	onFinished []func()
}

// NewCountdown creates a countdown ticking at the given interval
func NewCountdown(interval time.Duration) *Countdown {
	return &Countdown{interval: interval}
}

// OnTick registers a tick observer. Observers are invoked from the timer
// goroutine and must not block.
func (c *Countdown) OnTick(fn func(remaining int)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onTick = append(c.onTick, fn)
}

// OnFinished registers a finished observer
func (c *Countdown) OnFinished(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onFinished = append(c.onFinished, fn)
}

// Start begins counting down from the given number of seconds. Starting an
// already-running countdown is a no-op.
func (c *Countdown) Start(seconds int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return
	}
	c.remaining = seconds
	c.running = true
	c.stop = make(chan struct{})
	go c.run(c.stop)
}

// Stop halts the countdown without firing finished observers. Idempotent.
func (c *Countdown) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
}

func (c *Countdown) stopLocked() {
	if !c.running {
		return
	}
	c.running = false
	close(c.stop)
}

// Remaining returns the seconds left on the countdown
func (c *Countdown) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

// Running reports whether the countdown is active
func (c *Countdown) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

func (c *Countdown) run(stop chan struct{}) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			c.mu.Lock()
			if !c.running || c.stop != stop {
				c.mu.Unlock()
				return
			}
			c.remaining--
			remaining := c.remaining
			var fire []func()
			if remaining <= 0 {
				c.stopLocked()
				fire = append(fire, c.onFinished...)
			} else {
				for _, fn := range c.onTick {
					fn := fn
					fire = append(fire, func() { fn(remaining) })
				}
			}
			c.mu.Unlock()

			for _, fn := range fire {
				fn()
			}
			if remaining <= 0 {
				return
			}
		}
	}
}
