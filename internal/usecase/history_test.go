package usecase

import (
	"context"
	"testing"
	"time"

	"FractalPulse/internal/domain/models"
	domrepo "FractalPulse/internal/domain/repository"
)

func TestGetHistoryValidation(t *testing.T) {
	uc := NewHistoryUseCase(&fakeStorage{})
	now := time.Now()

	if _, err := uc.GetHistory(context.Background(), GetHistoryParams{Horizon: domrepo.H1d, From: now.Add(-time.Hour), To: now}); err == nil {
		t.Fatalf("expected error for empty symbol")
	}
	if _, err := uc.GetHistory(context.Background(), GetHistoryParams{Symbol: "BTC", Horizon: domrepo.H1d, From: now, To: now.Add(-time.Hour)}); err == nil {
		t.Fatalf("expected error for inverted range")
	}
}

func TestGetHistoryNormalizesStoredSignals(t *testing.T) {
	store := &fakeStorage{stored: []*models.SignalHeader{
		{Symbol: "BTC", Signal: models.SignalSell},
		{Symbol: "BTC", Signal: models.Signal("LEGACY_LONG")},
	}}
	uc := NewHistoryUseCase(store)

	res, err := uc.GetHistory(context.Background(), GetHistoryParams{
		Symbol:  "BTC",
		Horizon: domrepo.H1d,
		From:    time.Now().Add(-24 * time.Hour),
		To:      time.Now(),
	})
	if err != nil {
		t.Fatalf("get history: %v", err)
	}
	if res.Count != 2 {
		t.Fatalf("expected 2 rows, got %d", res.Count)
	}
	if res.Headers[0].Signal != models.SignalSell {
		t.Fatalf("known signal must pass through, got %s", res.Headers[0].Signal)
	}
	if res.Headers[1].Signal != models.SignalNeutral {
		t.Fatalf("unknown stored signal must display as NEUTRAL, got %s", res.Headers[1].Signal)
	}
}

func TestGetHistoryAlignsRange(t *testing.T) {
	store := &fakeStorage{}
	uc := NewHistoryUseCase(store)

	from := time.Date(2024, 10, 10, 10, 17, 0, 0, time.UTC)
	to := time.Date(2024, 10, 10, 14, 3, 0, 0, time.UTC)
	res, err := uc.GetHistory(context.Background(), GetHistoryParams{
		Symbol: "SPX", Horizon: domrepo.H4h, From: from, To: to,
	})
	if err != nil {
		t.Fatalf("get history: %v", err)
	}
	if res.From.Hour() != 8 || res.To.Hour() != 16 {
		t.Fatalf("expected 4h-aligned range, got %v .. %v", res.From, res.To)
	}
}
