package analytics_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hugooswaldo23/ProSistemaSeguros-sub004/analytics"
)

func TestSummaryCache_MemoizesUntilInvalidated(t *testing.T) {
	today := date(2024, time.March, 20)
	cache := analytics.NewSummaryCache()

	builds := 0
	build := func() *analytics.FinancialSummary {
		builds++
		return analytics.Aggregate(scenarioPolicies(), today)
	}

	first := cache.Get(today, build)
	second := cache.Get(today, build)
	assert.Equal(t, 1, builds, "second Get must hit the cache")
	assert.Same(t, first, second)

	cache.Invalidate()
	third := cache.Get(today, build)
	assert.Equal(t, 2, builds, "invalidation must force a rebuild")
	assert.NotSame(t, first, third)
}

func TestSummaryCache_DifferentAsOfRebuilds(t *testing.T) {
	cache := analytics.NewSummaryCache()

	builds := 0
	build := func() *analytics.FinancialSummary {
		builds++
		return analytics.Aggregate(nil, date(2024, time.March, 20))
	}

	cache.Get(date(2024, time.March, 20), build)
	cache.Get(date(2024, time.March, 21), build)
	assert.Equal(t, 2, builds)
}

func TestSummaryCache_RevisionAdvances(t *testing.T) {
	cache := analytics.NewSummaryCache()
	before := cache.Revision()
	cache.Invalidate()
	assert.Greater(t, cache.Revision(), before)
}
