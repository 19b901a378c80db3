package mocks

import (
	"sync"

	"github.com/botornot-chat/botornot/internal/dependencies/random"
)

// MockRandom is a mock implementation of Random for testing. It is safe
// for concurrent use since bot goroutines may draw from it in tests.
type MockRandom struct {
	mu sync.Mutex
	// IntnResults is a queue of results to return from Intn and Between
	IntnResults []int
	intnIndex   int
}

// Ensure MockRandom implements Random
var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// Intn returns the next queued result, or 0 if none remaining
func (r *MockRandom) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.nextLocked()
}

func (r *MockRandom) nextLocked() int {
	if r.intnIndex >= len(r.IntnResults) {
		return 0
	}
	result := r.IntnResults[r.intnIndex]
	r.intnIndex++
	return result
}

// Between returns min plus the next queued result, clamped into [min, max)
func (r *MockRandom) Between(min, max int) int {
	if max <= min {
		return min
	}
	r.mu.Lock()
	v := min + r.nextLocked()
	r.mu.Unlock()
	if v >= max {
		return max - 1
	}
	return v
}

// QueueIntn adds values to the result queue
func (r *MockRandom) QueueIntn(values ...int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.IntnResults = append(r.IntnResults, values...)
}

// Reset clears all queued results
func (r *MockRandom) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.IntnResults = nil
	r.intnIndex = 0
}
