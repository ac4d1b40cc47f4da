package layout

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestLayoutCache_Basic(t *testing.T) {
	cache := NewLayoutCacheWithConfig(CacheConfig{MaxSize: 10})
	l := &Layout{}

	cache.Set("key", l)
	got, ok := cache.Get("key")
	if !ok || got != l {
		t.Fatal("expected cached layout")
	}
	if cache.Size() != 1 {
		t.Errorf("Size() = %d, want 1", cache.Size())
	}

	cache.Remove("key")
	if _, ok := cache.Get("key"); ok {
		t.Error("layout should be removed")
	}
}

func TestLayoutCache_Eviction(t *testing.T) {
	cache := NewLayoutCacheWithConfig(CacheConfig{MaxSize: 2})
	a, b, c := &Layout{}, &Layout{}, &Layout{}

	cache.Set("a", a)
	cache.Set("b", b)
	// touch a so b is the least recently used
	cache.Get("a")
	cache.Set("c", c)

	if _, ok := cache.Get("b"); ok {
		t.Error("b should have been evicted")
	}
	if _, ok := cache.Get("a"); !ok {
		t.Error("a should still be cached")
	}
	if _, ok := cache.Get("c"); !ok {
		t.Error("c should be cached")
	}
	if cache.Size() != 2 {
		t.Errorf("Size() = %d, want 2", cache.Size())
	}
}

func TestLayoutCache_TTL(t *testing.T) {
	cache := NewLayoutCacheWithConfig(CacheConfig{MaxSize: 10, TTL: 20 * time.Millisecond})
	cache.Set("key", &Layout{})

	if _, ok := cache.Get("key"); !ok {
		t.Fatal("expected cached layout before expiry")
	}
	time.Sleep(40 * time.Millisecond)
	if _, ok := cache.Get("key"); ok {
		t.Error("layout should have expired")
	}
	if cache.Size() != 0 {
		t.Errorf("expired entry should be removed, Size() = %d", cache.Size())
	}
}

func TestLayoutCache_Disabled(t *testing.T) {
	cache := NewLayoutCacheWithConfig(CacheConfig{MaxSize: 0})
	cache.Set("key", &Layout{})
	if cache.Size() != 0 {
		t.Error("cache with MaxSize 0 should not store layouts")
	}
}

func TestLayoutCache_GetOrCompile(t *testing.T) {
	cache := NewLayoutCacheWithConfig(CacheConfig{MaxSize: 10})
	calls := 0
	compile := func() (*Layout, error) {
		calls++
		return &Layout{}, nil
	}

	first, err := cache.GetOrCompile("k", compile)
	if err != nil {
		t.Fatal(err)
	}
	second, _ := cache.GetOrCompile("k", compile)
	if first != second || calls != 1 {
		t.Errorf("expected one compile and a shared layout, got %d compiles", calls)
	}

	boom := errors.New("boom")
	_, err = cache.GetOrCompile("bad", func() (*Layout, error) { return nil, boom })
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want boom", err)
	}
	if _, ok := cache.Get("bad"); ok {
		t.Error("errors must not be cached")
	}
}

func TestLayoutCache_Clear(t *testing.T) {
	cache := NewLayoutCacheWithConfig(CacheConfig{MaxSize: 10})
	for i := 0; i < 5; i++ {
		cache.Set(fmt.Sprintf("k%d", i), &Layout{})
	}
	cache.Clear()
	if cache.Size() != 0 {
		t.Errorf("Size() after Clear = %d", cache.Size())
	}
}

func TestLayoutCache_Concurrent(t *testing.T) {
	cache := NewLayoutCacheWithConfig(CacheConfig{MaxSize: 50})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("k%d", (id+j)%60)
				cache.Set(key, &Layout{})
				cache.Get(key)
			}
		}(i)
	}
	wg.Wait()

	if cache.Size() > 50 {
		t.Errorf("Size() = %d exceeds MaxSize", cache.Size())
	}
}

func TestSourceKey(t *testing.T) {
	if SourceKey("a") == SourceKey("b") {
		t.Error("different sources should have different keys")
	}
	if SourceKey(`\author`) != SourceKey(`\author`) {
		t.Error("SourceKey should be deterministic")
	}
}
