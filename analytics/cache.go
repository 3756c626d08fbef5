/*
cache.go - Versioned summary memoization

PURPOSE:
  Aggregation is cheap but not free, and the dashboard asks for the same
  summary on every paint. The cache memoizes one summary per (revision,
  as-of date) pair. Invalidation is EXPLICIT: the caller bumps the revision
  whenever the source snapshot changes. There are no reactive subscriptions
  and no implicit expiry — the revision counter is the whole protocol.

CONCURRENCY:
  Safe for concurrent readers. Two goroutines racing past a stale entry may
  both recompute; last write wins, which is harmless because both computed
  the same pure function over the same snapshot.
*/
package analytics

import "sync"

// SummaryCache memoizes the latest FinancialSummary per snapshot revision.
type SummaryCache struct {
	mu       sync.Mutex
	revision uint64

	builtRev  uint64
	builtAsOf Date
	summary   *FinancialSummary
}

// NewSummaryCache returns a cache at revision 1 with nothing built.
func NewSummaryCache() *SummaryCache {
	return &SummaryCache{revision: 1}
}

// Invalidate marks every cached result stale. Call after replacing the
// source snapshot.
func (c *SummaryCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.revision++
}

// Revision returns the current snapshot revision.
func (c *SummaryCache) Revision() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.revision
}

// Get returns the cached summary for asOf, computing it with build when the
// cache holds nothing for the current revision and date.
func (c *SummaryCache) Get(asOf Date, build func() *FinancialSummary) *FinancialSummary {
	c.mu.Lock()
	if c.summary != nil && c.builtRev == c.revision && c.builtAsOf.Equal(asOf) {
		s := c.summary
		c.mu.Unlock()
		return s
	}
	rev := c.revision
	c.mu.Unlock()

	// Build outside the lock: aggregation is pure, so concurrent rebuilds
	// are redundant work, not a correctness problem.
	s := build()

	c.mu.Lock()
	if rev == c.revision {
		c.builtRev = rev
		c.builtAsOf = asOf
		c.summary = s
	}
	c.mu.Unlock()
	return s
}
