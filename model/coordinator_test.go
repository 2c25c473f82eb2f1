package model

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoordinatorTryIncrementStopsAtQuota(t *testing.T) {
	c := NewCoordinator([]string{"LoadTest1"}, 350)

	for i := 0; i < 350; i++ {
		count, ok := c.TryIncrement("LoadTest1")
		require.True(t, ok, "increment %d should count", i)
		assert.Equal(t, i+1, count)
	}
	assert.Equal(t, 350, c.Count("LoadTest1"))
	assert.True(t, c.QuotaReached("LoadTest1"))

	// further attempts are no-ops
	for i := 0; i < 10; i++ {
		count, ok := c.TryIncrement("LoadTest1")
		assert.False(t, ok)
		assert.Equal(t, 350, count)
	}
	assert.Equal(t, 350, c.Count("LoadTest1"))
}

func TestCoordinatorCountsPerOrg(t *testing.T) {
	c := NewCoordinator([]string{"LoadTest1", "LoadTest2"}, 5)

	for i := 0; i < 5; i++ {
		_, ok := c.TryIncrement("LoadTest1")
		require.True(t, ok)
	}
	assert.True(t, c.QuotaReached("LoadTest1"))
	assert.False(t, c.QuotaReached("LoadTest2"))
	assert.Equal(t, 0, c.Count("LoadTest2"))
}

func TestCoordinatorConcurrentIncrement(t *testing.T) {
	const quota = 100
	c := NewCoordinator([]string{"LoadTest1"}, quota)

	var counted, sawQuota int64
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				if count, ok := c.TryIncrement("LoadTest1"); ok {
					atomic.AddInt64(&counted, 1)
					if count == quota {
						atomic.AddInt64(&sawQuota, 1)
					}
				}
			}
		}()
	}
	wg.Wait()

	// the counter never passes quota no matter how many racers
	assert.Equal(t, int64(quota), counted)
	assert.Equal(t, quota, c.Count("LoadTest1"))
	// exactly one racer crosses the finish line
	assert.Equal(t, int64(1), sawQuota)
}

func TestCoordinatorCountMonotonic(t *testing.T) {
	c := NewCoordinator([]string{"LoadTest1"}, 10)

	prev := 0
	for i := 0; i < 20; i++ {
		c.TryIncrement("LoadTest1")
		cur := c.Count("LoadTest1")
		require.GreaterOrEqual(t, cur, prev)
		prev = cur
	}
	assert.Equal(t, 10, prev)
}

func TestCoordinatorSampleIDEmpty(t *testing.T) {
	c := NewCoordinator([]string{"LoadTest1"}, 1)

	id, ok := c.SampleID()
	assert.False(t, ok)
	assert.Empty(t, id)
}

func TestCoordinatorRecordAndSampleID(t *testing.T) {
	c := NewCoordinator([]string{"LoadTest1"}, 1)

	recorded := map[string]struct{}{"a": {}, "b": {}, "c": {}}
	for id := range recorded {
		c.RecordID(id)
	}
	assert.Equal(t, 3, c.IDCount())

	// samples only ever come from what was recorded
	for i := 0; i < 50; i++ {
		id, ok := c.SampleID()
		require.True(t, ok)
		assert.Contains(t, recorded, id)
	}
}

func TestCoordinatorDropID(t *testing.T) {
	c := NewCoordinator([]string{"LoadTest1"}, 1)
	c.RecordID("a")
	c.RecordID("b")

	c.DropID("a")
	assert.Equal(t, 1, c.IDCount())
	for i := 0; i < 20; i++ {
		id, ok := c.SampleID()
		require.True(t, ok)
		assert.Equal(t, "b", id)
	}

	// dropping something unknown is a no-op
	c.DropID("zzz")
	assert.Equal(t, 1, c.IDCount())
}
