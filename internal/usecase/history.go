package usecase

import (
	"context"
	"fmt"
	"time"

	"FractalPulse/internal/domain/models"
	domrepo "FractalPulse/internal/domain/repository"
	"FractalPulse/internal/services/classify"
	"FractalPulse/pkg/util"
)

// HistoryUseCase provides business logic for querying stored headers.
type HistoryUseCase struct {
	store domrepo.Storage
}

func NewHistoryUseCase(store domrepo.Storage) *HistoryUseCase {
	return &HistoryUseCase{store: store}
}

type GetHistoryParams struct {
	Symbol  string
	Horizon domrepo.Horizon
	From    time.Time
	To      time.Time
	Limit   int
}

type GetHistoryResult struct {
	Symbol  string
	Horizon string
	From    time.Time
	To      time.Time
	Count   int
	Headers []*models.SignalHeader
}

func (uc *HistoryUseCase) GetHistory(ctx context.Context, p GetHistoryParams) (*GetHistoryResult, error) {
	if p.Symbol == "" {
		return nil, fmt.Errorf("symbol required")
	}
	if p.From.After(p.To) {
		return nil, fmt.Errorf("from must be <= to")
	}
	if p.Limit <= 0 {
		p.Limit = 500
	}
	if p.Limit > 10000 {
		p.Limit = 10000
	}
	p.From, p.To = util.AlignFromTo(p.From, p.To, string(p.Horizon))

	headers, err := uc.store.Query(ctx, p.Symbol, p.Horizon, p.From, p.To, p.Limit)
	if err != nil {
		return nil, fmt.Errorf("get history: %w", err)
	}

	// stored values may predate the current enum; default unknowns for display
	for _, h := range headers {
		h.Signal = classify.SignalOrNeutral(string(h.Signal))
	}

	return &GetHistoryResult{
		Symbol:  p.Symbol,
		Horizon: string(p.Horizon),
		From:    p.From,
		To:      p.To,
		Count:   len(headers),
		Headers: headers,
	}, nil
}
