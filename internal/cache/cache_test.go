// file: internal/cache/cache_test.go
// version: 1.1.0
// guid: b2c3d4e5-f6a7-8b9c-0d1e-2f3a4b5c6d7e

package cache

import (
	"testing"
	"time"
)

func TestGetSet(t *testing.T) {
	c := New[string](time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Error("expected miss for unknown key")
	}

	c.Set("k", "v")
	got, ok := c.Get("k")
	if !ok || got != "v" {
		t.Errorf("Get = %q, %v; want v, true", got, ok)
	}
}

func TestExpiry(t *testing.T) {
	c := New[int](time.Minute)
	c.SetWithTTL("k", 42, -time.Second)

	if _, ok := c.Get("k"); ok {
		t.Error("expected expired entry to miss")
	}
}

func TestInvalidate(t *testing.T) {
	c := New[int](time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)

	c.Invalidate("a")
	if _, ok := c.Get("a"); ok {
		t.Error("expected invalidated key to miss")
	}
	if _, ok := c.Get("b"); !ok {
		t.Error("unrelated key should survive Invalidate")
	}

	c.InvalidateAll()
	if c.Len() != 0 {
		t.Errorf("Len after InvalidateAll = %d", c.Len())
	}
}

func TestGetPrunesExpiredEntry(t *testing.T) {
	c := New[int](time.Minute)
	c.SetWithTTL("stale", 7, -time.Second)
	if c.Len() != 1 {
		t.Fatalf("Len = %d, want 1", c.Len())
	}
	if _, ok := c.Get("stale"); ok {
		t.Error("expired entry should not be returned")
	}
	if c.Len() != 0 {
		t.Errorf("Len after reading expired key = %d, want 0", c.Len())
	}
}
