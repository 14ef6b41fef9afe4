package mocks

import (
	"sync"

	"github.com/mcoot/wagerpong/internal/dependencies/random"
)

// MockRandom is a mock implementation of Random for testing.
// Queued values are returned in order; an empty queue yields 0, which the
// simulation reads as a serve towards the joiner and downwards.
type MockRandom struct {
	mu      sync.Mutex
	results []int
	next    int
	calls   int
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
	r.calls++
	if r.next >= len(r.results) {
		return 0
	}
	result := r.results[r.next]
	r.next++
	return result
}

// QueueIntn adds values to the Intn result queue
func (r *MockRandom) QueueIntn(values ...int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, values...)
}

// Calls returns how many times Intn has been called
func (r *MockRandom) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}
