package repository

// Horizon represents the forecasting horizon a terminal view is pinned to.
type Horizon string

const (
	H1h Horizon = "1h"
	H4h Horizon = "4h"
	H1d Horizon = "1d"
)

// IsValidHorizon returns true if h is a supported horizon.
func IsValidHorizon(h Horizon) bool {
	switch h {
	case H1h, H4h, H1d:
		return true
	default:
		return false
	}
}

// DefaultHorizon returns the default horizon.
func DefaultHorizon() Horizon { return H1d }

// NormalizeHorizon converts raw string to a valid horizon (or default).
func NormalizeHorizon(s string) Horizon {
	if s == "" {
		return DefaultHorizon()
	}
	h := Horizon(s)
	if IsValidHorizon(h) {
		return h
	}
	return DefaultHorizon()
}
