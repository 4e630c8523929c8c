package cache_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kiwinews/feedstore/internal/cache"
)

func TestAddAndGet(t *testing.T) {
	c := cache.New[string, int](0, 0)

	c.Add("a", 1)
	c.Add("b", 2)

	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestUnboundedByDefault(t *testing.T) {
	c := cache.New[string, int](0, 0)

	for i := 0; i < 10_000; i++ {
		c.Add(fmt.Sprintf("k%d", i), i)
	}

	assert.Equal(t, 10_000, c.Len(), "zero maxEntries must not evict")
}

func TestMaxEntriesEvicts(t *testing.T) {
	c := cache.New[string, int](2, 0)

	c.Add("a", 1)
	c.Add("b", 2)
	c.Add("c", 3)

	assert.Equal(t, 2, c.Len())
	_, ok := c.Get("a")
	assert.False(t, ok, "oldest entry should have been evicted")
}

func TestTTLExpires(t *testing.T) {
	c := cache.New[string, int](0, 20*time.Millisecond)

	c.Add("a", 1)
	_, ok := c.Get("a")
	assert.True(t, ok)

	time.Sleep(60 * time.Millisecond)

	_, ok = c.Get("a")
	assert.False(t, ok, "entry should expire after the TTL")
}

func TestRemoveAndPurge(t *testing.T) {
	c := cache.New[string, int](0, 0)

	c.Add("a", 1)
	c.Add("b", 2)

	c.Remove("a")
	_, ok := c.Get("a")
	assert.False(t, ok)

	c.Purge()
	assert.Equal(t, 0, c.Len())
}
