package service

import (
	"context"

	"FractalPulse/internal/domain/models"
)

// ConsensusProvider fetches the agreement score and directional lean.
type ConsensusProvider interface {
	Consensus(ctx context.Context, symbol, horizon string) (models.Consensus, error)
}

// DiagnosticsProvider fetches reliability/entropy/quality diagnostics.
type DiagnosticsProvider interface {
	Diagnostics(ctx context.Context, symbol, horizon string) (models.Diagnostics, error)
}

// PhaseProvider fetches the current detected market phase.
type PhaseProvider interface {
	Phase(ctx context.Context, symbol string) (models.PhaseSnapshot, error)
}

// OverlayProvider fetches historical analog matches and their statistics.
type OverlayProvider interface {
	Overlay(ctx context.Context, symbol, horizon string) (models.Overlay, error)
}

// VolatilityProvider fetches the volatility regime snapshot.
type VolatilityProvider interface {
	Volatility(ctx context.Context, symbol string) (models.Volatility, error)
}
