package cache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRU_GetSet(t *testing.T) {
	c := New[int](2)

	_, ok := c.Get("a")
	assert.False(t, ok)

	c.Set("a", 1)
	c.Set("a", 2)
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 2, v)
	assert.Equal(t, 1, c.Len())
}

func TestLRU_EvictsLeastRecentlyUsed(t *testing.T) {
	c := New[string](2)
	c.Set("a", "A")
	c.Set("b", "B")

	// Touch a so b becomes the oldest
	_, _ = c.Get("a")
	c.Set("c", "C")

	_, ok := c.Get("b")
	assert.False(t, ok)
	_, ok = c.Get("a")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)

	stats := c.Stats()
	assert.Equal(t, int64(1), stats.Evictions)
	assert.Equal(t, 2, stats.Size)
	assert.Equal(t, 2, stats.MaxSize)
}

func TestLRU_SingleEntry(t *testing.T) {
	c := New[int](0)
	c.Set("a", 1)
	c.Set("b", 2)

	assert.Equal(t, 1, c.Len())
	v, ok := c.Get("b")
	require.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestLRU_InvalidateAndClear(t *testing.T) {
	c := New[int](4)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	c.Invalidate("b")
	c.Invalidate("missing")
	assert.Equal(t, 2, c.Len())

	// The list stays consistent after removing from the middle
	c.Set("d", 4)
	c.Set("e", 5)
	c.Set("f", 6)
	_, ok := c.Get("a")
	assert.False(t, ok)

	c.Clear()
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, Stats{MaxSize: 4}, c.Stats())
}

func TestStats_HitRate(t *testing.T) {
	assert.Equal(t, 0.0, Stats{}.HitRate())
	assert.Equal(t, 75.0, Stats{Hits: 3, Misses: 1}.HitRate())
}

func TestLRU_Concurrent(t *testing.T) {
	c := New[int](8)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("k%d", (i+j)%16)
				c.Set(key, j)
				c.Get(key)
			}
		}(i)
	}
	wg.Wait()
	assert.LessOrEqual(t, c.Len(), 8)
}
