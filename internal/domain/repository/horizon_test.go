package repository

import "testing"

func TestNormalizeHorizon(t *testing.T) {
	if got := NormalizeHorizon(""); got != H1d {
		t.Fatalf("empty: got %s", got)
	}
	if got := NormalizeHorizon("4h"); got != H4h {
		t.Fatalf("4h: got %s", got)
	}
	if got := NormalizeHorizon("7w"); got != H1d {
		t.Fatalf("invalid: got %s", got)
	}
}
