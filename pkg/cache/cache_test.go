package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestBounded_GetSet(t *testing.T) {
	c := New[string, int](Config{MaxSize: 4})

	if _, ok := c.Get("missing"); ok {
		t.Error("Get() on empty cache reported a hit")
	}

	c.Set("a", 1)
	c.Set("b", 2)
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Errorf("Get(a) = %v, %v", v, ok)
	}

	c.Set("a", 10)
	if v, _ := c.Get("a"); v != 10 {
		t.Errorf("Set() did not replace: got %v", v)
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}

	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Error("Get() after Delete() reported a hit")
	}

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() after Clear() = %d", c.Len())
	}
}

func TestBounded_LRUEviction(t *testing.T) {
	c := New[string, int](Config{MaxSize: 2})

	c.Set("a", 1)
	c.Set("b", 2)

	// Touching "a" makes "b" the least recently used entry.
	if _, ok := c.Get("a"); !ok {
		t.Fatal("Get(a) missed")
	}

	c.Set("c", 3)
	if _, ok := c.Get("b"); ok {
		t.Error("least recently used entry survived eviction")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("recently touched entry was evicted")
	}
	if _, ok := c.Get("c"); !ok {
		t.Error("newest entry missing")
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want capacity 2", c.Len())
	}
}

func TestBounded_TTLExpiry(t *testing.T) {
	c := New[string, int](Config{MaxSize: 8, TTL: time.Minute})
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return clock }

	c.Set("k", 1)
	clock = clock.Add(59 * time.Second)
	if _, ok := c.Get("k"); !ok {
		t.Error("entry expired before its TTL")
	}

	// Age is measured from creation, so the read above did not extend it.
	clock = clock.Add(2 * time.Second)
	if _, ok := c.Get("k"); ok {
		t.Error("entry survived past its TTL")
	}
	if c.Len() != 0 {
		t.Errorf("expired read left the entry resident: Len() = %d", c.Len())
	}

	// Re-setting restarts the clock.
	c.Set("k", 2)
	clock = clock.Add(59 * time.Second)
	if v, ok := c.Get("k"); !ok || v != 2 {
		t.Errorf("Get() after re-set = %v, %v", v, ok)
	}
}

func TestBounded_ZeroTTLNeverExpires(t *testing.T) {
	c := New[string, int](Config{MaxSize: 2})
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return clock }

	c.Set("k", 1)
	clock = clock.Add(1000 * time.Hour)
	if _, ok := c.Get("k"); !ok {
		t.Error("entry expired with TTL disabled")
	}
}

func TestBounded_Stats(t *testing.T) {
	c := New[string, int](Config{MaxSize: 4, TTL: time.Minute})
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return clock }

	c.Set("a", 1)
	c.Set("b", 2)

	stats := c.Stats()
	if stats.Size != 2 || stats.MaxSize != 4 || stats.Utilization != 0.5 {
		t.Errorf("Stats() = %+v", stats)
	}

	// Stats purges expired entries before reporting.
	clock = clock.Add(2 * time.Minute)
	c.Set("c", 3)
	stats = c.Stats()
	if stats.Size != 1 {
		t.Errorf("Stats() after expiry = %+v, want size 1", stats)
	}
}

func TestBounded_DefaultMaxSize(t *testing.T) {
	c := New[int, int](Config{})
	for i := 0; i < DefaultMaxSize+10; i++ {
		c.Set(i, i)
	}
	if c.Len() != DefaultMaxSize {
		t.Errorf("Len() = %d, want %d", c.Len(), DefaultMaxSize)
	}
}

func TestBounded_ConcurrentAccess(t *testing.T) {
	c := New[string, int](Config{MaxSize: 32})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				key := fmt.Sprintf("k%d", j%40)
				c.Set(key, n)
				c.Get(key)
			}
		}(i)
	}
	wg.Wait()

	if c.Len() > 32 {
		t.Errorf("Len() = %d exceeds capacity", c.Len())
	}
}
