package usecase

import (
	"context"
	"errors"
	"testing"

	"FractalPulse/internal/domain/models"
	domrepo "FractalPulse/internal/domain/repository"
)

func fptr(v float64) *float64 { return &v }

type fakeProviders struct {
	consensus   models.Consensus
	diagnostics models.Diagnostics
	phase       models.PhaseSnapshot
	overlay     models.Overlay
	volatility  models.Volatility

	failConsensus  error
	failPhase      error
	failVolatility error
}

func (f *fakeProviders) Consensus(ctx context.Context, symbol, horizon string) (models.Consensus, error) {
	return f.consensus, f.failConsensus
}

func (f *fakeProviders) Diagnostics(ctx context.Context, symbol, horizon string) (models.Diagnostics, error) {
	return f.diagnostics, nil
}

func (f *fakeProviders) Phase(ctx context.Context, symbol string) (models.PhaseSnapshot, error) {
	return f.phase, f.failPhase
}

func (f *fakeProviders) Overlay(ctx context.Context, symbol, horizon string) (models.Overlay, error) {
	return f.overlay, nil
}

func (f *fakeProviders) Volatility(ctx context.Context, symbol string) (models.Volatility, error) {
	return f.volatility, f.failVolatility
}

func newTestComposer(f *fakeProviders) *HeaderComposer {
	return NewHeaderComposer(f, f, f, f, f)
}

func TestComposeFullBundle(t *testing.T) {
	f := &fakeProviders{
		consensus:   models.Consensus{Score: 0.8, Dir: models.DirSell, Dispersion: 0.1},
		diagnostics: models.Diagnostics{Reliability: 0.9, Entropy: 0.2, QualityScore: 0.85},
		phase:       models.PhaseSnapshot{CurrentPhase: models.PhaseMarkup, Confidence: fptr(0.7)},
		overlay: models.Overlay{
			Matches: []models.OverlayMatch{{Phase: models.PhaseMarkdown}},
			Stats:   &models.OverlayStats{AvgMaxDD: 0.05},
		},
		volatility: models.Volatility{Regime: models.VolNormal},
	}
	h, err := newTestComposer(f).Compose(context.Background(), "BTC", domrepo.H1d)
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if h.Signal != models.SignalSell {
		t.Fatalf("expected SELL, got %s", h.Signal)
	}
	if h.ConfidenceScore != 87 {
		t.Fatalf("expected confidence 87, got %v", h.ConfidenceScore)
	}
	if h.Phase != models.PhaseMarkup || h.PhaseConfidence != 0.7 {
		t.Fatalf("expected snapshot phase MARKUP/0.7, got %s/%v", h.Phase, h.PhaseConfidence)
	}
	if h.RiskLevel != models.RiskNormal {
		t.Fatalf("expected NORMAL risk, got %s", h.RiskLevel)
	}
	if len(h.Errors) != 0 {
		t.Fatalf("expected no errors, got %v", h.Errors)
	}
	if h.Symbol != "BTC" || h.Horizon != "1d" {
		t.Fatalf("unexpected identity %s/%s", h.Symbol, h.Horizon)
	}
}

func TestComposePartialFailureFallsBackToDefaults(t *testing.T) {
	f := &fakeProviders{
		consensus:      models.Consensus{Score: 0.8, Dir: models.DirBuy},
		diagnostics:    models.Diagnostics{Reliability: 0.9, Entropy: 0.2, QualityScore: 0.85},
		overlay:        models.Overlay{Matches: []models.OverlayMatch{{Phase: models.PhaseRecovery}}},
		failPhase:      errors.New("phase service down"),
		failVolatility: errors.New("volatility service down"),
	}
	h, err := newTestComposer(f).Compose(context.Background(), "SPX", domrepo.H4h)
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if h.Signal != models.SignalBuy {
		t.Fatalf("expected BUY despite failures, got %s", h.Signal)
	}
	// phase falls back to the first overlay match
	if h.Phase != models.PhaseRecovery {
		t.Fatalf("expected overlay fallback RECOVERY, got %s", h.Phase)
	}
	if h.PhaseConfidence != 0.5 {
		t.Fatalf("expected default phase confidence, got %v", h.PhaseConfidence)
	}
	if h.RiskLevel != models.RiskNormal {
		t.Fatalf("expected NORMAL risk with absent inputs, got %s", h.RiskLevel)
	}
	if len(h.Errors) != 2 {
		t.Fatalf("expected 2 recorded errors, got %v", h.Errors)
	}
	if _, ok := h.Errors["phase"]; !ok {
		t.Fatalf("expected phase error recorded")
	}
	if _, ok := h.Errors["volatility"]; !ok {
		t.Fatalf("expected volatility error recorded")
	}
}

func TestComposeAllFailuresStillDerives(t *testing.T) {
	f := &fakeProviders{
		failConsensus:  errors.New("down"),
		failPhase:      errors.New("down"),
		failVolatility: errors.New("down"),
	}
	h, err := newTestComposer(f).Compose(context.Background(), "BTC", domrepo.H1h)
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if h.Signal != models.SignalHold {
		t.Fatalf("expected HOLD, got %s", h.Signal)
	}
	if h.ConfidenceScore != 50 {
		t.Fatalf("expected all-defaults confidence 50, got %v", h.ConfidenceScore)
	}
}

func TestComposeEmptySymbol(t *testing.T) {
	if _, err := newTestComposer(&fakeProviders{}).Compose(context.Background(), "", domrepo.H1d); err == nil {
		t.Fatalf("expected error for empty symbol")
	}
}

func TestBuildHeaderNilBundle(t *testing.T) {
	h := BuildHeader(nil, nil)
	if h.Signal != models.SignalHold || h.RiskLevel != models.RiskNormal {
		t.Fatalf("unexpected nil-bundle header %+v", h)
	}
	if h.Timestamp.IsZero() {
		t.Fatalf("expected timestamp default")
	}
}
