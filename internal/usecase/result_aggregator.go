package usecase

import (
	"sync"

	"munhash/internal/domain/entity"
)

// ResultAggregator collects hash results from concurrent workers. Add is safe
// for concurrent use; Snapshot is meant to be read after the workers joined.
type ResultAggregator struct {
	mu      sync.Mutex
	results []entity.HashResult
}

// NewResultAggregator pre-sizes the aggregator for capacity results.
func NewResultAggregator(capacity int) *ResultAggregator {
	return &ResultAggregator{results: make([]entity.HashResult, 0, capacity)}
}

// Add takes ownership of result.
func (a *ResultAggregator) Add(result entity.HashResult) {
	a.mu.Lock()
	a.results = append(a.results, result)
	a.mu.Unlock()
}

// Len returns the number of results collected so far.
func (a *ResultAggregator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()

	return len(a.results)
}

// Snapshot returns a copy of the collected results, in insertion order.
func (a *ResultAggregator) Snapshot() []entity.HashResult {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]entity.HashResult, len(a.results))
	copy(out, a.results)

	return out
}
