package room

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// collectRun drains a countdown run, returning the observed ticks and how
// many finished notifications fired.
func collectRun(t *testing.T, c *Countdown, start int) ([]int, int) {
	t.Helper()

	var mu sync.Mutex
	var once sync.Once
	var ticks []int
	finished := 0
	done := make(chan struct{})

	c.OnTick(func(remaining int) {
		mu.Lock()
		ticks = append(ticks, remaining)
		mu.Unlock()
	})
	c.OnFinished(func() {
		mu.Lock()
		finished++
		mu.Unlock()
		once.Do(func() { close(done) })
	})

	c.Start(start)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("countdown did not finish in time")
	}

	// Allow any stray post-finish ticks to surface before asserting
	time.Sleep(20 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	return append([]int(nil), ticks...), finished
}

func TestCountdownTicksDownAndFinishesOnce(t *testing.T) {
	c := NewCountdown(2 * time.Millisecond)

	ticks, finished := collectRun(t, c, 5)

	assert.Equal(t, []int{4, 3, 2, 1}, ticks)
	assert.Equal(t, 1, finished)
	assert.False(t, c.Running())
}

func TestCountdownStopPreventsFinished(t *testing.T) {
	c := NewCountdown(5 * time.Millisecond)

	finished := make(chan struct{}, 1)
	c.OnFinished(func() { finished <- struct{}{} })

	c.Start(1000)
	require.True(t, c.Running())

	c.Stop()
	c.Stop() // idempotent

	select {
	case <-finished:
		t.Fatal("finished fired after Stop")
	case <-time.After(50 * time.Millisecond):
	}
	assert.False(t, c.Running())
}

func TestCountdownRestartsAfterFinish(t *testing.T) {
	c := NewCountdown(2 * time.Millisecond)

	_, finished := collectRun(t, c, 2)
	require.Equal(t, 1, finished)

	// A fresh run after finishing counts down again
	done := make(chan struct{})
	c.OnFinished(func() {
		select {
		case <-done:
		default:
			close(done)
		}
	})
	c.Start(2)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("restarted countdown did not finish")
	}
}

func TestCountdownStartWhileRunningIsNoop(t *testing.T) {
	c := NewCountdown(time.Hour)
	c.Start(100)
	c.Start(5)
	assert.Equal(t, 100, c.Remaining())
	c.Stop()
}
