package ratelimit

import "testing"

func TestAllowConsumesTokens(t *testing.T) {
	l := New()
	for i := 0; i < 3; i++ {
		if !l.Allow("ip", 3, 0) {
			t.Fatalf("expected allow on token %d", i)
		}
	}
	if l.Allow("ip", 3, 0) {
		t.Fatalf("expected deny after capacity exhausted")
	}
}

func TestAllowIsPerKey(t *testing.T) {
	l := New()
	if !l.Allow("a", 1, 0) {
		t.Fatalf("expected allow for a")
	}
	if l.Allow("a", 1, 0) {
		t.Fatalf("expected deny for a")
	}
	if !l.Allow("b", 1, 0) {
		t.Fatalf("expected separate bucket for b")
	}
}
