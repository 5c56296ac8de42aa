package payflow

import (
	"testing"
	"time"
)

// virtualClock lets tests advance cache time without sleeping.
type virtualClock struct {
	now time.Time
}

func (vc *virtualClock) Now() time.Time          { return vc.now }
func (vc *virtualClock) Advance(d time.Duration) { vc.now = vc.now.Add(d) }

func newVirtualCache() (*Cache, *virtualClock) {
	vc := &virtualClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewCache()
	c.now = vc.Now
	return c, vc
}

func TestCacheSetGet(t *testing.T) {
	c, _ := newVirtualCache()

	c.Set("balance:default", "v", time.Second)
	got, ok := c.Get("balance:default")
	if !ok {
		t.Fatal("expected hit immediately after Set")
	}
	if got != "v" {
		t.Errorf("got %v, want v", got)
	}
}

func TestCacheExpiry(t *testing.T) {
	c, vc := newVirtualCache()

	c.Set("k", "v", 1000*time.Millisecond)
	vc.Advance(1001 * time.Millisecond)

	if _, ok := c.Get("k"); ok {
		t.Fatal("expected miss after TTL elapsed")
	}
	// Lazy deletion on read removes the entry entirely.
	if n := c.Len(); n != 0 {
		t.Errorf("Len = %d, want 0 after expired read", n)
	}
}

func TestCacheExpiryBoundary(t *testing.T) {
	// Expiry is exclusive: an entry read exactly at its expiry instant is gone.
	c, vc := newVirtualCache()

	c.Set("k", "v", time.Second)
	vc.Advance(time.Second)

	if _, ok := c.Get("k"); ok {
		t.Error("expected miss exactly at expiry instant")
	}
}

func TestCacheLastWriteWins(t *testing.T) {
	c, _ := newVirtualCache()

	c.Set("k", "first", time.Second)
	c.Set("k", "second", time.Second)

	got, ok := c.Get("k")
	if !ok || got != "second" {
		t.Errorf("got %v/%v, want second/true", got, ok)
	}
}

func TestCacheClear(t *testing.T) {
	c, _ := newVirtualCache()

	c.Set("a", 1, time.Minute)
	c.Set("b", 2, time.Minute)
	c.Clear()

	if n := c.Len(); n != 0 {
		t.Errorf("Len = %d, want 0 after Clear", n)
	}
	if _, ok := c.Get("a"); ok {
		t.Error("expected miss after Clear")
	}
}

func TestCacheExpiredEntryLingersUntilRead(t *testing.T) {
	// No background sweeper: an expired entry stays in the store until its
	// key is next read.
	c, vc := newVirtualCache()

	c.Set("k", "v", time.Second)
	vc.Advance(2 * time.Second)

	if n := c.Len(); n != 1 {
		t.Fatalf("Len = %d, want 1 before the expired read", n)
	}
	if _, ok := c.Get("k"); ok {
		t.Fatal("expected miss")
	}
	if n := c.Len(); n != 0 {
		t.Errorf("Len = %d, want 0 after the expired read", n)
	}
}
