package cache

import (
	"testing"
	"time"
)

func TestTTLCacheSetGet(t *testing.T) {
	c := NewTTLCache()
	c.Set("k", "v", time.Minute)
	v, ok := c.Get("k")
	if !ok || v.(string) != "v" {
		t.Fatalf("expected hit with v, got %v %v", v, ok)
	}
}

func TestTTLCacheExpiry(t *testing.T) {
	c := NewTTLCache()
	c.Set("k", 1, time.Millisecond)
	time.Sleep(5 * time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Fatalf("expected expired entry to miss")
	}
}

func TestTTLCacheZeroTTLNeverExpires(t *testing.T) {
	c := NewTTLCache()
	c.Set("k", 1, 0)
	if _, ok := c.Get("k"); !ok {
		t.Fatalf("expected zero-ttl entry to stay")
	}
}

func TestTTLCacheBytes(t *testing.T) {
	c := NewTTLCache()
	if err := c.SetBytes("b", []byte("payload"), time.Minute); err != nil {
		t.Fatalf("SetBytes: %v", err)
	}
	b, ok, err := c.GetBytes("b")
	if err != nil || !ok || string(b) != "payload" {
		t.Fatalf("GetBytes = %q %v %v", b, ok, err)
	}
	// non-bytes value reads as miss
	c.Set("s", "str", time.Minute)
	if _, ok, _ := c.GetBytes("s"); ok {
		t.Fatalf("expected non-bytes value to miss")
	}
}
